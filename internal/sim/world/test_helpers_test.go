package world

import (
	"fmt"
	"sync"
	"testing"

	"voxelclient.ai/internal/sim/world/terrain/store"
	"voxelclient.ai/internal/sim/world/voxel"
)

type blockRow struct{ P, Q, X, Y, Z, W int }

type fakeDB struct {
	mu          sync.Mutex
	blocks      []blockRow
	lights      []blockRow
	signs       map[string]string
	keys        map[store.ChunkKey]int
	deleteSigns int
	loads       int
}

func newFakeDB() *fakeDB {
	return &fakeDB{signs: map[string]string{}, keys: map[store.ChunkKey]int{}}
}

func signKey(x, y, z, face int) string { return fmt.Sprintf("%d,%d,%d,%d", x, y, z, face) }

func (d *fakeDB) LoadBlocks(m *voxel.Map, p, q int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loads++
	for _, r := range d.blocks {
		if r.P == p && r.Q == q {
			m.Set(r.X, r.Y, r.Z, r.W)
		}
	}
}

func (d *fakeDB) LoadLights(m *voxel.Map, p, q int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.lights {
		if r.P == p && r.Q == q {
			m.Set(r.X, r.Y, r.Z, r.W)
		}
	}
}

func (d *fakeDB) LoadSigns(*store.SignList, int, int) {}

func (d *fakeDB) InsertBlock(p, q, x, y, z, w int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocks = append(d.blocks, blockRow{p, q, x, y, z, w})
}

func (d *fakeDB) InsertLight(p, q, x, y, z, w int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lights = append(d.lights, blockRow{p, q, x, y, z, w})
}

func (d *fakeDB) InsertSign(p, q, x, y, z, face int, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.signs[signKey(x, y, z, face)] = text
}

func (d *fakeDB) DeleteSign(x, y, z, face int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.signs, signKey(x, y, z, face))
}

func (d *fakeDB) DeleteSigns(x, y, z int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleteSigns++
	for f := 0; f < 8; f++ {
		delete(d.signs, signKey(x, y, z, f))
	}
}

func (d *fakeDB) GetKey(p, q int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keys[store.ChunkKey{P: p, Q: q}]
}

func (d *fakeDB) SetKey(p, q, key int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[store.ChunkKey{P: p, Q: q}] = key
}

type fakeClient struct {
	blocks    []blockRow
	lights    []blockRow
	signs     []string
	chunks    map[store.ChunkKey]int
	talk      []string
	positions int
}

func newFakeClient() *fakeClient {
	return &fakeClient{chunks: map[store.ChunkKey]int{}}
}

func (c *fakeClient) Block(x, y, z, w int) {
	c.blocks = append(c.blocks, blockRow{X: x, Y: y, Z: z, W: w})
}
func (c *fakeClient) Light(x, y, z, w int) {
	c.lights = append(c.lights, blockRow{X: x, Y: y, Z: z, W: w})
}
func (c *fakeClient) Sign(x, y, z, face int, text string) {
	c.signs = append(c.signs, signKey(x, y, z, face)+":"+text)
}
func (c *fakeClient) Chunk(p, q, key int)            { c.chunks[store.ChunkKey{P: p, Q: q}]++ }
func (c *fakeClient) Position(_, _, _, _, _ float32) { c.positions++ }
func (c *fakeClient) Talk(text string)               { c.talk = append(c.talk, text) }

type fakeEditLog struct{ entries []EditEntry }

func (l *fakeEditLog) WriteEdit(e EditEntry) error {
	l.entries = append(l.entries, e)
	return nil
}

// newTestWorld returns a world with no terrain features and the given
// config overrides applied.
func newTestWorld(t *testing.T, cfg WorldConfig) (*World, *fakeDB, *fakeClient) {
	t.Helper()
	db := newFakeDB()
	cl := newFakeClient()
	w := New(cfg, db, cl, nil)
	t.Cleanup(w.Close)
	return w, db, cl
}

// emptyChunks creates empty, clean chunks for every (p, q) within r of the
// origin, bypassing terrain generation.
func emptyChunks(w *World, r int) {
	for p := -r; p <= r; p++ {
		for q := -r; q <= r; q++ {
			w.chunks.Create(p, q)
		}
	}
	markClean(w)
}

func markClean(w *World) {
	for _, c := range w.chunks.Chunks {
		c.Dirty = false
	}
}

func dirtyKeys(w *World) map[store.ChunkKey]bool {
	out := map[store.ChunkKey]bool{}
	for _, c := range w.chunks.Chunks {
		if c.Dirty {
			out[c.Key()] = true
		}
	}
	return out
}

func countPositive(w *World) int {
	n := 0
	for _, c := range w.chunks.Chunks {
		c.Map.ForEach(func(_, _, _, v int) bool {
			if v > 0 {
				n++
			}
			return true
		})
	}
	return n
}
