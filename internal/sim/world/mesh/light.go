package mesh

import "github.com/gammazero/deque"

type lightStep struct {
	x, y, z int
	w       int
	force   bool
}

// fillLight spreads a light of intensity w from (x, y, z), losing one level
// per step through non-opaque cells. The seed cell itself may be opaque.
// Cells that cannot brighten the center chunk are pruned.
func (g *grid) fillLight(todo *deque.Deque[lightStep], x, y, z, w int) {
	todo.PushBack(lightStep{x: x, y: y, z: z, w: w, force: true})
	for todo.Len() > 0 {
		s := todo.PopFront()
		if s.w <= 0 {
			continue
		}
		if s.x+s.w < xzLo || s.z+s.w < xzLo || s.x-s.w > xzHi || s.z-s.w > xzHi {
			continue
		}
		if !inGrid(s.x, s.y, s.z) {
			continue
		}
		i := xyz(s.x, s.y, s.z)
		if int(g.light[i]) >= s.w {
			continue
		}
		if !s.force && g.opaque[i] {
			continue
		}
		g.light[i] = int8(s.w)
		n := s.w - 1
		todo.PushBack(lightStep{x: s.x - 1, y: s.y, z: s.z, w: n})
		todo.PushBack(lightStep{x: s.x + 1, y: s.y, z: s.z, w: n})
		todo.PushBack(lightStep{x: s.x, y: s.y - 1, z: s.z, w: n})
		todo.PushBack(lightStep{x: s.x, y: s.y + 1, z: s.z, w: n})
		todo.PushBack(lightStep{x: s.x, y: s.y, z: s.z - 1, w: n})
		todo.PushBack(lightStep{x: s.x, y: s.y, z: s.z + 1, w: n})
	}
}
