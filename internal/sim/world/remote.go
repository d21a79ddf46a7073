package world

import (
	"math"

	"voxelclient.ai/internal/protocol"
)

// ApplyBuffer parses and applies a newline separated batch of server lines.
func (w *World) ApplyBuffer(buf string) {
	for _, m := range protocol.ParseBuffer(buf) {
		w.ApplyMessage(m)
	}
}

// ApplyMessage applies one server message. Remote edits go through the
// same entry points as local ones without re-dirtying or echoing back.
func (w *World) ApplyMessage(m protocol.Message) {
	me := w.Me()
	s := &me.State
	switch m := m.(type) {
	case protocol.You:
		me.ID = m.ID
		s.X, s.Y, s.Z, s.RX, s.RY = m.X, m.Y, m.Z, m.RX, m.RY
		w.forceChunks(me)
		if m.Y == 0 {
			s.Y = float32(w.HighestBlock(s.X, s.Z) + 2)
		}
	case protocol.Block:
		w.setBlock(m.P, m.Q, m.X, m.Y, m.Z, m.W, false)
		if PlayerIntersectsBlock(playerHeight, s.X, s.Y, s.Z, m.X, m.Y, m.Z) {
			s.Y = float32(w.HighestBlock(s.X, s.Z) + 2)
		}
	case protocol.Light:
		w.SetLight(m.P, m.Q, m.X, m.Y, m.Z, m.W)
	case protocol.Position:
		p := w.FindPlayer(m.ID)
		if p == me {
			return
		}
		if p == nil {
			if p = w.AddRemotePlayer(m.ID); p == nil {
				return
			}
			// seed both interpolation states
			w.UpdatePlayer(p, m.X, m.Y, m.Z, m.RX, m.RY, true)
		}
		w.UpdatePlayer(p, m.X, m.Y, m.Z, m.RX, m.RY, true)
	case protocol.Disconnect:
		w.DeletePlayer(m.ID)
	case protocol.Key:
		w.db.SetKey(m.P, m.Q, m.Key)
	case protocol.Redraw:
		if c := w.chunks.FindChunk(m.P, m.Q); c != nil {
			w.chunks.Dirty(c)
		}
	case protocol.Time:
		w.SetTime(m.Elapsed, m.DayLength)
	case protocol.Talk:
		w.AddMessage(m.Text)
	case protocol.Nick:
		if p := w.FindPlayer(m.ID); p != nil {
			p.Name = m.Name
		}
	case protocol.Sign:
		w.setSign(m.P, m.Q, m.X, m.Y, m.Z, m.Face, m.Text, false)
	}
}

// AddMessage appends a chat line to the ring of recent messages.
func (w *World) AddMessage(text string) {
	w.messages[w.messageIndex] = text
	w.messageIndex = (w.messageIndex + 1) % maxMessages
}

// Messages returns the recent chat lines, oldest first.
func (w *World) Messages() []string {
	var out []string
	for i := 0; i < maxMessages; i++ {
		if m := w.messages[(w.messageIndex+i)%maxMessages]; m != "" {
			out = append(out, m)
		}
	}
	return out
}

// SetTime syncs the day clock to elapsed seconds of a dayLength cycle.
func (w *World) SetTime(elapsed float64, dayLength int) {
	if dayLength <= 0 {
		return
	}
	w.dayLength = dayLength
	w.timeOffset = math.Mod(elapsed, float64(dayLength)) - w.Now()
}

// TimeOfDay is the position in the day cycle in [0, 1).
func (w *World) TimeOfDay() float64 {
	t := (w.Now() + w.timeOffset) / float64(w.dayLength)
	return t - math.Floor(t)
}
