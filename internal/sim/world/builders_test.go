package world

import (
	"testing"

	"voxelclient.ai/internal/sim/catalogs"
)

func TestBuilderBlock_Guards(t *testing.T) {
	w, db, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.BuilderBlock(1, 0, 1, catalogs.Stone)
	w.BuilderBlock(1, 256, 1, catalogs.Stone)
	if len(db.blocks) != 0 {
		t.Fatalf("edits outside 1..255 persisted: %v", db.blocks)
	}
	w.BuilderBlock(1, 5, 1, catalogs.Stone)
	w.BuilderBlock(1, 5, 1, catalogs.Brick)
	if got := w.GetBlock(1, 5, 1); got != catalogs.Brick {
		t.Fatalf("got %d want brick", got)
	}
	w.BuilderBlock(1, 5, 1, 0)
	if got := w.GetBlock(1, 5, 1); got != 0 {
		t.Fatalf("got %d want cleared", got)
	}
}

func TestCube(t *testing.T) {
	cases := []struct {
		name   string
		b1, b2 Block
		fill   bool
		want   int
	}{
		{"shell", Block{2, 2, 2, catalogs.Stone}, Block{4, 4, 4, catalogs.Stone}, false, 26},
		{"filled", Block{2, 2, 2, catalogs.Stone}, Block{4, 4, 4, catalogs.Stone}, true, 27},
		{"flat shell", Block{2, 5, 2, catalogs.Stone}, Block{4, 5, 4, catalogs.Stone}, false, 8},
		{"mismatch", Block{2, 2, 2, catalogs.Stone}, Block{4, 4, 4, catalogs.Brick}, true, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
			emptyChunks(w, 0)
			w.Cube(c.b1, c.b2, c.fill)
			if n := countPositive(w); n != c.want {
				t.Fatalf("blocks=%d want %d", n, c.want)
			}
		})
	}
}

func TestArray(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.Array(Block{2, 2, 2, catalogs.Stone}, Block{4, 2, 2, catalogs.Stone}, 3, 5, 5)
	if n := countPositive(w); n != 3 {
		t.Fatalf("blocks=%d want 3", n)
	}
	for _, x := range []int{2, 4, 6} {
		if w.GetBlock(x, 2, 2) != catalogs.Stone {
			t.Fatalf("missing block at x=%d", x)
		}
	}
}

func TestSphere(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	center := Block{10, 10, 10, catalogs.Stone}
	w.Sphere(center, 3, false, false, false, false)
	if w.GetBlock(10, 10, 10) != 0 {
		t.Fatalf("hollow sphere filled its center")
	}
	if w.GetBlock(13, 10, 10) != catalogs.Stone {
		t.Fatalf("shell missing at radius")
	}
	hollow := countPositive(w)

	w2, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w2, 0)
	w2.Sphere(center, 3, true, false, false, false)
	if w2.GetBlock(10, 10, 10) != catalogs.Stone {
		t.Fatalf("filled sphere missing its center")
	}
	if filled := countPositive(w2); filled <= hollow {
		t.Fatalf("filled=%d hollow=%d", filled, hollow)
	}
}

func TestSphere_FlattenedToCircle(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.Sphere(Block{10, 10, 10, catalogs.Stone}, 3, false, false, true, false)
	n := 0
	w.chunks.FindChunk(0, 0).Map.ForEach(func(_, y, _, v int) bool {
		if v > 0 {
			n++
			if y != 10 {
				t.Fatalf("block off the y plane at y=%d", y)
			}
		}
		return true
	})
	if n == 0 {
		t.Fatalf("circle placed nothing")
	}
}

func TestCylinder(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.Cylinder(Block{10, 5, 10, catalogs.Stone}, Block{10, 8, 10, catalogs.Stone}, 2, true)
	for y := 5; y <= 8; y++ {
		if w.GetBlock(10, y, 10) != catalogs.Stone {
			t.Fatalf("axis missing at y=%d", y)
		}
	}
	if w.GetBlock(10, 9, 10) != 0 || w.GetBlock(10, 4, 10) != 0 {
		t.Fatalf("cylinder overran its ends")
	}

	// two differing axes is not a cylinder
	w2, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w2, 0)
	w2.Cylinder(Block{10, 5, 10, catalogs.Stone}, Block{12, 8, 10, catalogs.Stone}, 2, true)
	if n := countPositive(w2); n != 0 {
		t.Fatalf("blocks=%d want 0", n)
	}
}

func TestTree(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.Tree(Block{X: 10, Y: 20, Z: 10})
	for y := 20; y < 27; y++ {
		if got := w.GetBlock(10, y, 10); got != catalogs.Wood {
			t.Fatalf("trunk at y=%d is %d", y, got)
		}
	}
	if got := w.GetBlock(11, 24, 10); got != catalogs.Leaves {
		t.Fatalf("leaves=%d", got)
	}
}

func TestCopyPaste(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.SetBlock(2, 5, 2, catalogs.Brick)
	w.SetBlock(3, 6, 3, catalogs.Stone)

	w.RecordBlock(2, 0, 2, 0)
	w.RecordBlock(3, 0, 3, 0)
	w.Copy()
	w.RecordBlock(10, 0, 10, 0)
	w.RecordBlock(11, 0, 11, 0)
	w.Paste()

	if w.GetBlock(10, 5, 10) != catalogs.Brick || w.GetBlock(11, 6, 11) != catalogs.Stone {
		t.Fatalf("paste mismatch: %d %d", w.GetBlock(10, 5, 10), w.GetBlock(11, 6, 11))
	}
}
