package store

type Sign struct {
	X, Y, Z int
	Face    int
	Text    string
}

// SignList holds at most one sign per (x, y, z, face).
type SignList struct {
	items []Sign
}

func (l *SignList) Len() int { return len(l.items) }

func (l *SignList) All() []Sign { return l.items }

// Add stores s, replacing any sign on the same face.
func (l *SignList) Add(s Sign) {
	l.Remove(s.X, s.Y, s.Z, s.Face)
	l.items = append(l.items, s)
}

func (l *SignList) Remove(x, y, z, face int) bool {
	for i, s := range l.items {
		if s.X == x && s.Y == y && s.Z == z && s.Face == face {
			last := len(l.items) - 1
			l.items[i] = l.items[last]
			l.items = l.items[:last]
			return true
		}
	}
	return false
}

// RemoveAll drops every sign on block (x, y, z).
func (l *SignList) RemoveAll(x, y, z int) bool {
	removed := false
	for i := 0; i < len(l.items); {
		s := l.items[i]
		if s.X == x && s.Y == y && s.Z == z {
			last := len(l.items) - 1
			l.items[i] = l.items[last]
			l.items = l.items[:last]
			removed = true
			continue
		}
		i++
	}
	return removed
}

func (l *SignList) Reset() { l.items = nil }
