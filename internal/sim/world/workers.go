package world

import (
	"sync"

	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/mesh"
	"voxelclient.ai/internal/sim/world/terrain/store"
)

type workerState int

const (
	workerIdle workerState = iota
	workerBusy
	workerDone
)

// workItem owns deep copies of a 3x3 neighborhood while a worker meshes it.
type workItem struct {
	nb     mesh.Neighborhood
	load   bool
	result mesh.Result
}

type worker struct {
	index int

	mu    sync.Mutex
	cond  *sync.Cond
	state workerState
	quit  bool
	item  workItem
}

func (w *World) startWorkers() {
	w.workers = make([]*worker, w.cfg.Workers)
	for i := range w.workers {
		wk := &worker{index: i}
		wk.cond = sync.NewCond(&wk.mu)
		w.workers[i] = wk
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.runWorker(wk)
		}()
	}
}

func (w *World) stopWorkers() {
	for _, wk := range w.workers {
		wk.mu.Lock()
		wk.quit = true
		wk.cond.Broadcast()
		wk.mu.Unlock()
	}
}

func (w *World) runWorker(wk *worker) {
	opts := w.meshOptions()
	for {
		wk.mu.Lock()
		for wk.state != workerBusy && !wk.quit {
			wk.cond.Wait()
		}
		if wk.state != workerBusy {
			wk.mu.Unlock()
			return
		}
		wk.mu.Unlock()

		item := &wk.item
		if item.load {
			w.loadChunk(item.nb.P, item.nb.Q, item.nb.Blocks[1][1], item.nb.Lights[1][1])
		}
		item.result = mesh.Compute(&item.nb, opts)

		wk.mu.Lock()
		wk.state = workerDone
		wk.mu.Unlock()
	}
}

// WorkerFor is the static partition of chunk coordinates over n workers.
func WorkerFor(p, q, n int) int {
	return (mathx.AbsInt(p) ^ mathx.AbsInt(q)) % n
}

// checkWorkers collects finished items into their chunks.
func (w *World) checkWorkers() {
	for _, wk := range w.workers {
		wk.mu.Lock()
		if wk.state == workerDone {
			w.collect(&wk.item)
			wk.state = workerIdle
		}
		wk.mu.Unlock()
	}
}

func (w *World) collect(item *workItem) {
	nb := &item.nb
	moved := false
	if c := w.chunks.FindChunk(nb.P, nb.Q); c != nil {
		if item.load {
			c.Map.Free()
			c.Lights.Free()
			c.Map = nb.Blocks[1][1]
			c.Lights = nb.Lights[1][1]
			moved = true
			w.requestChunk(nb.P, nb.Q)
		}
		res := item.result
		c.Commit(res.Data, res.Faces, res.MinY, res.MaxY)
	}
	// absent neighbors were never cloned and stay nil
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if moved && a == 1 && b == 1 {
				continue
			}
			nb.Blocks[a][b].Free()
			nb.Lights[a][b].Free()
		}
	}
	*item = workItem{}
}

// forceChunks meshes the 3x3 chunks around player inline, creating any
// that are missing.
func (w *World) forceChunks(player *Player) {
	s := player.State
	p := mathx.Chunked(float64(s.X))
	q := mathx.Chunked(float64(s.Z))
	for dp := -1; dp <= 1; dp++ {
		for dq := -1; dq <= 1; dq++ {
			a, b := p+dp, q+dq
			c := w.chunks.FindChunk(a, b)
			if c != nil {
				if c.Dirty {
					w.genChunkBuffer(c)
				}
				continue
			}
			if c = w.createChunk(a, b); c != nil {
				w.genChunkBuffer(c)
			}
		}
	}
}

func (w *World) planes(player *Player) mesh.Planes {
	s := player.State
	return mesh.FrustumPlanes(mesh.ViewProjection(mesh.Camera{
		X: s.X, Y: s.Y, Z: s.Z, RX: s.RX, RY: s.RY,
		Width: w.cfg.Width, Height: w.cfg.Height,
		FOV: w.cfg.FOV, Radius: w.cfg.RenderRadius,
	}))
}

// pickChunk returns the best candidate for worker index around player.
// Ties keep the first candidate in scan order.
func (w *World) pickChunk(player *Player, index int, planes *mesh.Planes) (int, int, bool) {
	s := player.State
	p := mathx.Chunked(float64(s.X))
	q := mathx.Chunked(float64(s.Z))
	r := w.cfg.CreateRadius
	const start = 0x0fffffff
	best, bestA, bestB := start, 0, 0
	for dp := -r; dp <= r; dp++ {
		for dq := -r; dq <= r; dq++ {
			a, b := p+dp, q+dq
			if WorkerFor(a, b, len(w.workers)) != index {
				continue
			}
			c := w.chunks.FindChunk(a, b)
			if c != nil && !c.Dirty {
				continue
			}
			distance := mathx.MaxInt(mathx.AbsInt(dp), mathx.AbsInt(dq))
			invisible := 0
			if !mesh.ChunkVisible(planes, a, b, 0, 256) {
				invisible = 1
			}
			priority := 0
			if c != nil && c.Built && c.Dirty {
				priority = 1
			}
			score := invisible<<24 | priority<<16 | distance
			if score < best {
				best, bestA, bestB = score, a, b
			}
		}
	}
	return bestA, bestB, best != start
}

// assign hands the best chunk for wk to it. wk.mu must be held and wk idle.
func (w *World) assign(player *Player, wk *worker, planes *mesh.Planes) {
	a, b, ok := w.pickChunk(player, wk.index, planes)
	if !ok {
		return
	}
	load := false
	c := w.chunks.FindChunk(a, b)
	if c == nil {
		if c = w.initChunk(a, b); c == nil {
			return
		}
		load = true
	}
	item := &wk.item
	item.nb = mesh.Neighborhood{P: c.P, Q: c.Q}
	item.load = load
	around := w.chunks.Neighborhood(c)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if o := around[i][j]; o != nil {
				item.nb.Blocks[i][j] = o.Map.Clone()
				item.nb.Lights[i][j] = o.Lights.Clone()
			}
		}
	}
	c.Dirty = false
	wk.state = workerBusy
	wk.cond.Signal()
}

// EnsureChunks runs one scheduling pass for player: collect finished work,
// force the nearby chunks, then give every idle worker a new chunk.
func (w *World) EnsureChunks(player *Player) {
	w.checkWorkers()
	w.forceChunks(player)
	planes := w.planes(player)
	for _, wk := range w.workers {
		wk.mu.Lock()
		if wk.state == workerIdle {
			w.assign(player, wk, &planes)
		}
		wk.mu.Unlock()
	}
}

// VisibleChunks returns the built chunks within the render radius of player
// that intersect its view frustum, and their total face count.
func (w *World) VisibleChunks(player *Player) ([]*store.Chunk, int) {
	s := player.State
	p := mathx.Chunked(float64(s.X))
	q := mathx.Chunked(float64(s.Z))
	planes := w.planes(player)
	var out []*store.Chunk
	faces := 0
	for _, c := range w.chunks.Chunks {
		if store.Distance(c, p, q) > w.cfg.RenderRadius {
			continue
		}
		if !mesh.ChunkVisible(&planes, c.P, c.Q, c.MinY, c.MaxY) {
			continue
		}
		out = append(out, c)
		faces += c.Faces
	}
	return out, faces
}
