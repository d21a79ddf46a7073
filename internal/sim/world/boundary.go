package world

import (
	"voxelclient.ai/internal/sim/world/terrain/store"
	"voxelclient.ai/internal/sim/world/voxel"
)

// Persistence is the local block cache. Calls are fire-and-forget: failures
// are handled (and logged) by the implementation. Load methods are called
// from worker goroutines and must be safe for concurrent use.
type Persistence interface {
	LoadBlocks(m *voxel.Map, p, q int)
	LoadLights(m *voxel.Map, p, q int)
	LoadSigns(signs *store.SignList, p, q int)
	InsertBlock(p, q, x, y, z, w int)
	InsertLight(p, q, x, y, z, w int)
	InsertSign(p, q, x, y, z, face int, text string)
	DeleteSign(x, y, z, face int)
	DeleteSigns(x, y, z int)
	GetKey(p, q int) int
	SetKey(p, q, key int)
}

// Client carries local changes to the server.
type Client interface {
	Block(x, y, z, w int)
	Light(x, y, z, w int)
	Sign(x, y, z, face int, text string)
	Chunk(p, q, key int)
	Position(x, y, z, rx, ry float32)
	Talk(text string)
}

// EditLogger receives every local edit. Implemented in internal/persistence/log.
type EditLogger interface {
	WriteEdit(entry EditEntry) error
}

type EditEntry struct {
	Time   string `json:"time"`
	Action string `json:"action"` // BLOCK, LIGHT, SIGN
	Pos    [3]int `json:"pos"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Face   int    `json:"face,omitempty"`
	Text   string `json:"text,omitempty"`
}

type nopPersistence struct{}

func (nopPersistence) LoadBlocks(*voxel.Map, int, int)                 {}
func (nopPersistence) LoadLights(*voxel.Map, int, int)                 {}
func (nopPersistence) LoadSigns(*store.SignList, int, int)             {}
func (nopPersistence) InsertBlock(int, int, int, int, int, int)        {}
func (nopPersistence) InsertLight(int, int, int, int, int, int)        {}
func (nopPersistence) InsertSign(int, int, int, int, int, int, string) {}
func (nopPersistence) DeleteSign(int, int, int, int)                   {}
func (nopPersistence) DeleteSigns(int, int, int)                       {}
func (nopPersistence) GetKey(int, int) int                             { return 0 }
func (nopPersistence) SetKey(int, int, int)                            {}

type nopClient struct{}

func (nopClient) Block(int, int, int, int)                             {}
func (nopClient) Light(int, int, int, int)                             {}
func (nopClient) Sign(int, int, int, int, string)                      {}
func (nopClient) Chunk(int, int, int)                                  {}
func (nopClient) Position(float32, float32, float32, float32, float32) {}
func (nopClient) Talk(string)                                          {}
