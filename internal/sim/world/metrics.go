package world

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from the status
// logger, the metrics handler and tests.
type WorldMetrics struct {
	Frame uint64 `json:"frame"`

	Players      int `json:"players"`
	LoadedChunks int `json:"loaded_chunks"`
	DirtyChunks  int `json:"dirty_chunks"`
	BusyWorkers  int `json:"busy_workers"`

	InboxDepth int     `json:"inbox_depth"`
	StepMS     float64 `json:"step_ms"`

	Position [3]float32 `json:"position"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}

func (w *World) publishMetrics(stepMS float64) {
	w.frame++
	m := WorldMetrics{
		Frame:        w.frame,
		Players:      len(w.players),
		LoadedChunks: w.chunks.Len(),
		InboxDepth:   len(w.inbox),
		StepMS:       stepMS,
	}
	for _, c := range w.chunks.Chunks {
		if c.Dirty {
			m.DirtyChunks++
		}
	}
	for _, wk := range w.workers {
		wk.mu.Lock()
		if wk.state != workerIdle {
			m.BusyWorkers++
		}
		wk.mu.Unlock()
	}
	s := w.Me().State
	m.Position = [3]float32{s.X, s.Y, s.Z}
	w.metrics.Store(m)
}
