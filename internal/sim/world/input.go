package world

import (
	"strconv"
	"strings"

	"voxelclient.ai/internal/sim/catalogs"
	"voxelclient.ai/internal/sim/world/logic/mathx"
)

// Item is the block id the local player places.
func (w *World) Item() int { return catalogs.Items[w.itemIndex] }

// CycleItem moves the selected item by delta, wrapping around.
func (w *World) CycleItem(delta int) {
	w.itemIndex = mathx.Mod(w.itemIndex+delta, len(catalogs.Items))
}

// OnLeftClick removes the targeted block, and a plant standing on it.
func (w *World) OnLeftClick() {
	s := w.Me().State
	hw, hx, hy, hz := w.HitTest(false, s.X, s.Y, s.Z, s.RX, s.RY)
	if hy <= 0 || hy >= 256 || !catalogs.IsDestructable(hw) {
		return
	}
	w.SetBlock(hx, hy, hz, 0)
	w.RecordBlock(hx, hy, hz, 0)
	if catalogs.IsPlant(w.GetBlock(hx, hy+1, hz)) {
		w.SetBlock(hx, hy+1, hz, 0)
	}
}

// OnRightClick places the selected item against the targeted block unless
// it would overlap the local player.
func (w *World) OnRightClick() {
	s := w.Me().State
	hw, hx, hy, hz := w.HitTest(true, s.X, s.Y, s.Z, s.RX, s.RY)
	if hy <= 0 || hy >= 256 || !catalogs.IsObstacle(hw) {
		return
	}
	if PlayerIntersectsBlock(playerHeight, s.X, s.Y, s.Z, hx, hy, hz) {
		return
	}
	item := w.Item()
	w.SetBlock(hx, hy, hz, item)
	w.RecordBlock(hx, hy, hz, item)
}

// OnMiddleClick selects the targeted block type as the current item.
func (w *World) OnMiddleClick() {
	s := w.Me().State
	hw, _, _, _ := w.HitTest(false, s.X, s.Y, s.Z, s.RX, s.RY)
	for i, it := range catalogs.Items {
		if it == hw {
			w.itemIndex = i
			return
		}
	}
}

// OnLight toggles a light inside the targeted block.
func (w *World) OnLight() {
	s := w.Me().State
	hw, hx, hy, hz := w.HitTest(false, s.X, s.Y, s.Z, s.RX, s.RY)
	if hy > 0 && hy < 256 && catalogs.IsDestructable(hw) {
		w.ToggleLight(hx, hy, hz)
	}
}

// ParseCommand runs a local builder or view command. Anything it does not
// recognize is sent to the server as chat when forward is set. It reports
// whether the text was handled locally.
func (w *World) ParseCommand(text string, forward bool) bool {
	f := strings.Fields(text)
	if len(f) == 0 {
		return false
	}
	args, ok := intArgs(f[1:])
	if !ok {
		args = nil
	}
	b0, b1 := w.block0, w.block1
	handled := true
	switch {
	case f[0] == "/copy" && len(f) == 1:
		w.Copy()
	case f[0] == "/paste" && len(f) == 1:
		w.Paste()
	case f[0] == "/tree" && len(f) == 1:
		w.Tree(b0)
	case f[0] == "/array" && len(args) == 3:
		w.Array(b1, b0, args[0], args[1], args[2])
	case f[0] == "/array" && len(args) == 1:
		w.Array(b1, b0, args[0], args[0], args[0])
	case f[0] == "/fcube" && len(f) == 1:
		w.Cube(b0, b1, true)
	case f[0] == "/cube" && len(f) == 1:
		w.Cube(b0, b1, false)
	case f[0] == "/fsphere" && len(args) == 1:
		w.Sphere(b0, args[0], true, false, false, false)
	case f[0] == "/sphere" && len(args) == 1:
		w.Sphere(b0, args[0], false, false, false, false)
	case f[0] == "/fcircx" && len(args) == 1:
		w.Sphere(b0, args[0], true, true, false, false)
	case f[0] == "/circx" && len(args) == 1:
		w.Sphere(b0, args[0], false, true, false, false)
	case f[0] == "/fcircy" && len(args) == 1:
		w.Sphere(b0, args[0], true, false, true, false)
	case f[0] == "/circy" && len(args) == 1:
		w.Sphere(b0, args[0], false, false, true, false)
	case f[0] == "/fcircz" && len(args) == 1:
		w.Sphere(b0, args[0], true, false, false, true)
	case f[0] == "/circz" && len(args) == 1:
		w.Sphere(b0, args[0], false, false, false, true)
	case f[0] == "/fcylinder" && len(args) == 1:
		w.Cylinder(b0, b1, args[0], true)
	case f[0] == "/cylinder" && len(args) == 1:
		w.Cylinder(b0, b1, args[0], false)
	case f[0] == "/view" && len(args) == 1:
		r := args[0]
		if r < 1 || r > 24 {
			w.AddMessage("Viewing distance must be between 1 and 24.")
			break
		}
		w.cfg.CreateRadius = r
		w.cfg.RenderRadius = r
		w.cfg.DeleteRadius = r + 4
	case f[0] == "/pq" && len(args) == 2:
		w.teleport(float32(args[0]*mathx.ChunkSize), float32(args[1]*mathx.ChunkSize))
	case f[0] == "/goto" && len(f) == 2:
		for _, p := range w.players[1:] {
			if p.Name == f[1] {
				s := &w.Me().State
				*s = p.State
				s.T = 0
				break
			}
		}
	default:
		handled = false
		if forward {
			w.client.Talk(text)
		}
	}
	return handled
}

func (w *World) teleport(x, z float32) {
	s := &w.Me().State
	s.X, s.Z = x, z
	w.forceChunks(w.Me())
	s.Y = float32(w.HighestBlock(s.X, s.Z) + 2)
}

func intArgs(f []string) ([]int, bool) {
	out := make([]int, 0, len(f))
	for _, s := range f {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
