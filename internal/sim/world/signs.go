package world

import (
	"voxelclient.ai/internal/protocol"
	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/terrain/store"
)

// SetSign is a local sign edit; empty text removes the face.
func (w *World) SetSign(x, y, z, face int, text string) {
	if len(text) > protocol.MaxSignLength-1 {
		text = text[:protocol.MaxSignLength-1]
	}
	p := mathx.Chunked(float64(x))
	q := mathx.Chunked(float64(z))
	w.setSign(p, q, x, y, z, face, text, true)
	w.client.Sign(x, y, z, face, text)
	w.logEdit(EditEntry{Action: "SIGN", Pos: [3]int{x, y, z}, Face: face, Text: text})
}

func (w *World) setSign(p, q, x, y, z, face int, text string, dirty bool) {
	if text == "" {
		w.UnsetSignFace(x, y, z, face)
		return
	}
	if c := w.chunks.FindChunk(p, q); c != nil {
		c.Signs.Add(store.Sign{X: x, Y: y, Z: z, Face: face, Text: text})
		if dirty {
			c.Dirty = true
		}
	}
	w.db.InsertSign(p, q, x, y, z, face, text)
}

// UnsetSignFace removes one sign face at (x, y, z).
func (w *World) UnsetSignFace(x, y, z, face int) {
	c := w.chunks.FindChunk(mathx.Chunked(float64(x)), mathx.Chunked(float64(z)))
	if c == nil {
		w.db.DeleteSign(x, y, z, face)
		return
	}
	if c.Signs.Remove(x, y, z, face) {
		c.Dirty = true
		w.db.DeleteSign(x, y, z, face)
	}
}

// UnsetSign removes every sign face at (x, y, z).
func (w *World) UnsetSign(x, y, z int) {
	c := w.chunks.FindChunk(mathx.Chunked(float64(x)), mathx.Chunked(float64(z)))
	if c == nil {
		w.db.DeleteSigns(x, y, z)
		return
	}
	if c.Signs.RemoveAll(x, y, z) {
		c.Dirty = true
		w.db.DeleteSigns(x, y, z)
	}
}

// VisibleSigns returns the signs of chunks within the sign radius of player.
func (w *World) VisibleSigns(player *Player) []store.Sign {
	p := mathx.Chunked(float64(player.State.X))
	q := mathx.Chunked(float64(player.State.Z))
	var out []store.Sign
	for _, c := range w.chunks.Chunks {
		if store.Distance(c, p, q) > w.cfg.SignRadius {
			continue
		}
		out = append(out, c.Signs.All()...)
	}
	return out
}
