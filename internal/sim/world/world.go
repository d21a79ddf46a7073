package world

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"voxelclient.ai/internal/protocol"
	"voxelclient.ai/internal/sim/world/terrain/gen"
	"voxelclient.ai/internal/sim/world/terrain/store"
)

// Block is a recorded block position and value, used by the builder tools.
type Block struct {
	X, Y, Z, W int
}

const maxMessages = 4

// World is the client-side world state. All methods except the ones
// documented otherwise must be called from the goroutine running Run (or
// from a single test goroutine).
type World struct {
	cfg    WorldConfig
	logger *log.Logger

	chunks *store.Store
	gen    *gen.Generator

	db         Persistence
	client     Client
	editLogger EditLogger

	workers []*worker
	wg      sync.WaitGroup

	// players[0] is the local player.
	players  []*Player
	observe1 int
	observe2 int

	itemIndex int
	flying    bool
	fall      float32

	block0, block1 Block
	copy0, copy1   Block

	messages     [maxMessages]string
	messageIndex int
	dayLength    int
	timeOffset   float64

	capWarned bool
	frame     uint64
	metrics   atomic.Value // WorldMetrics

	start time.Time
	inbox chan protocol.Message
	stop  chan struct{}
	once  sync.Once
}

// New builds a world and starts its worker goroutines. db and client may be
// nil; logger may be nil to discard.
func New(cfg WorldConfig, db Persistence, client Client, logger *log.Logger) *World {
	cfg.applyDefaults()
	if db == nil {
		db = nopPersistence{}
	}
	if client == nil {
		client = nopClient{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &World{
		cfg:    cfg,
		logger: logger,
		chunks: store.NewStore(cfg.MaxChunks, cfg.ShowLights),
		gen: gen.New(gen.Config{
			Seed:       cfg.Seed,
			ShowPlants: cfg.ShowPlants,
			ShowTrees:  cfg.ShowTrees,
			ShowClouds: cfg.ShowClouds,
		}),
		db:        db,
		client:    client,
		players:   []*Player{{Name: "me"}},
		dayLength: 600,
		start:     time.Now(),
		inbox:     make(chan protocol.Message, 4096),
		stop:      make(chan struct{}),
	}
	w.startWorkers()
	return w
}

func (w *World) SetEditLogger(l EditLogger) { w.editLogger = l }

// SetClient attaches the server connection. Call before Spawn and Run.
func (w *World) SetClient(c Client) {
	if c == nil {
		c = nopClient{}
	}
	w.client = c
}

// Inbox accepts parsed server messages; safe for use from any goroutine.
func (w *World) Inbox() chan<- protocol.Message { return w.inbox }

func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) Chunks() *store.Store { return w.chunks }

func (w *World) Me() *Player { return w.players[0] }

func (w *World) Players() []*Player { return w.players }

func (w *World) SetFlying(v bool) { w.flying = v }

// Now is the world clock in seconds.
func (w *World) Now() float64 { return time.Since(w.start).Seconds() }

// Close stops the worker goroutines after their current item finishes.
func (w *World) Close() {
	w.once.Do(func() {
		close(w.stop)
		w.stopWorkers()
		w.wg.Wait()
	})
}

func (w *World) logEdit(e EditEntry) {
	if w.editLogger == nil {
		return
	}
	e.Time = time.Now().UTC().Format(time.RFC3339Nano)
	if err := w.editLogger.WriteEdit(e); err != nil {
		w.logger.Printf("edit log: %v", err)
	}
}
