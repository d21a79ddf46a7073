package world

import (
	"context"
	"time"
)

// Spawn places the local player. Without a saved position the player is
// dropped on top of the terrain column.
func (w *World) Spawn(s State, loaded bool) {
	me := w.Me()
	me.State = s
	w.forceChunks(me)
	if !loaded {
		me.State.Y = float32(w.HighestBlock(me.State.X, me.State.Z) + 2)
	}
}

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.FrameRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Printf("world running: workers=%d create_radius=%d delete_radius=%d", len(w.workers), w.cfg.CreateRadius, w.cfg.DeleteRadius)
	previous := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case m := <-w.inbox:
			w.ApplyMessage(m)
		case now := <-ticker.C:
			dt := now.Sub(previous).Seconds()
			previous = now
			w.Step(dt, Input{})
		}
	}
}

// Step advances one frame: movement, pending server messages, position
// update, chunk deletion, interpolation and scheduling.
func (w *World) Step(dt float64, in Input) {
	began := time.Now()
	if dt > 0.2 {
		dt = 0.2
	}
	if dt < 0 {
		dt = 0
	}
	w.HandleMovement(dt, in)
	w.drainInbox()

	s := w.Me().State
	w.client.Position(s.X, s.Y, s.Z, s.RX, s.RY)

	w.clampObserve()
	w.DeleteChunks()
	for _, p := range w.players[1:] {
		w.InterpolatePlayer(p)
	}
	w.EnsureChunks(w.Observed())
	w.publishMetrics(float64(time.Since(began).Microseconds()) / 1000)
}

func (w *World) drainInbox() {
	for {
		select {
		case m := <-w.inbox:
			w.ApplyMessage(m)
		default:
			return
		}
	}
}
