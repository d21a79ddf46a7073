package world

import (
	"fmt"
	"math"
)

// State is a player pose; T is the world clock time of the update.
type State struct {
	X, Y, Z float32
	RX, RY  float32
	T       float64
}

type Player struct {
	ID   int
	Name string

	State State
	// Last two server updates, interpolated into State.
	State1 State
	State2 State
}

// FindPlayer returns the player with id, or nil.
func (w *World) FindPlayer(id int) *Player {
	for _, p := range w.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AddRemotePlayer registers a remote player, or returns nil when the player
// list is full.
func (w *World) AddRemotePlayer(id int) *Player {
	if len(w.players) >= w.cfg.MaxPlayers {
		return nil
	}
	p := &Player{ID: id, Name: fmt.Sprintf("player%d", id)}
	w.players = append(w.players, p)
	return p
}

// UpdatePlayer sets p's pose directly or, with interpolate, pushes it as the
// newest interpolation target.
func (w *World) UpdatePlayer(p *Player, x, y, z, rx, ry float32, interpolate bool) {
	if !interpolate {
		p.State.X, p.State.Y, p.State.Z = x, y, z
		p.State.RX, p.State.RY = rx, ry
		return
	}
	s1, s2 := &p.State1, &p.State2
	*s1 = *s2
	*s2 = State{X: x, Y: y, Z: z, RX: rx, RY: ry, T: w.Now()}
	if s2.RX-s1.RX > math.Pi {
		s1.RX += 2 * math.Pi
	}
	if s1.RX-s2.RX > math.Pi {
		s1.RX -= 2 * math.Pi
	}
}

// InterpolatePlayer moves p's pose between its last two updates.
func (w *World) InterpolatePlayer(p *Player) {
	s1, s2 := p.State1, p.State2
	t1 := s2.T - s1.T
	t2 := w.Now() - s2.T
	t1 = math.Min(t1, 1)
	t1 = math.Max(t1, 0.1)
	k := float32(math.Min(t2/t1, 1))
	w.UpdatePlayer(p,
		s1.X+(s2.X-s1.X)*k,
		s1.Y+(s2.Y-s1.Y)*k,
		s1.Z+(s2.Z-s1.Z)*k,
		s1.RX+(s2.RX-s1.RX)*k,
		s1.RY+(s2.RY-s1.RY)*k,
		false)
}

// DeletePlayer removes a remote player by swapping in the last one. The
// local player is never removed.
func (w *World) DeletePlayer(id int) {
	for i := 1; i < len(w.players); i++ {
		if w.players[i].ID != id {
			continue
		}
		last := len(w.players) - 1
		w.players[i] = w.players[last]
		w.players[last] = nil
		w.players = w.players[:last]
		return
	}
}

// DeleteAllPlayers drops every remote player.
func (w *World) DeleteAllPlayers() {
	for i := 1; i < len(w.players); i++ {
		w.players[i] = nil
	}
	w.players = w.players[:1]
	w.observe1, w.observe2 = 0, 0
}

// Observe sets the two extra players whose surroundings stay loaded.
func (w *World) Observe(i, j int) {
	w.observe1, w.observe2 = i, j
	w.clampObserve()
}

func (w *World) clampObserve() {
	n := len(w.players)
	w.observe1 %= n
	w.observe2 %= n
	if w.observe1 < 0 {
		w.observe1 = 0
	}
	if w.observe2 < 0 {
		w.observe2 = 0
	}
}

// Observed is the player the view follows.
func (w *World) Observed() *Player { return w.players[w.observe1] }

func PlayerDistance(a, b *Player) float64 {
	x := float64(b.State.X - a.State.X)
	y := float64(b.State.Y - a.State.Y)
	z := float64(b.State.Z - a.State.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// CrosshairDistance is how far b is from a's line of sight, measured at
// b's distance from a.
func CrosshairDistance(a, b *Player) float64 {
	d := PlayerDistance(a, b)
	vx, vy, vz := SightVector(float64(a.State.RX), float64(a.State.RY))
	px := float64(a.State.X) + vx*d
	py := float64(a.State.Y) + vy*d
	pz := float64(a.State.Z) + vz*d
	x := float64(b.State.X) - px
	y := float64(b.State.Y) - py
	z := float64(b.State.Z) - pz
	return math.Sqrt(x*x + y*y + z*z)
}

// PlayerCrosshair returns the nearest player within 96 blocks that sits
// within 5 degrees of p's crosshair.
func (w *World) PlayerCrosshair(p *Player) *Player {
	threshold := 5 * math.Pi / 180
	var result *Player
	best := 0.0
	for _, o := range w.players {
		if o == p {
			continue
		}
		c := CrosshairDistance(p, o)
		d := PlayerDistance(p, o)
		if d < 96 && c/d < threshold {
			if best == 0 || d < best {
				best = d
				result = o
			}
		}
	}
	return result
}
