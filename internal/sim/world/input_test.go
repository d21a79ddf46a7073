package world

import (
	"testing"

	"voxelclient.ai/internal/sim/catalogs"
)

func lookingAtStone(t *testing.T) (*World, *fakeClient) {
	t.Helper()
	w, _, cl := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 1)
	w.SetBlock(0, 10, 0, catalogs.Stone)
	w.Me().State = State{X: 0, Y: 10, Z: 5}
	return w, cl
}

func TestOnRightClick_PlacesAgainstFace(t *testing.T) {
	w, _ := lookingAtStone(t)
	w.OnRightClick()
	if got := w.GetBlock(0, 10, 1); got != w.Item() {
		t.Fatalf("placed=%d want %d", got, w.Item())
	}
	if b0, _ := w.Recorded(); b0 != (Block{0, 10, 1, w.Item()}) {
		t.Fatalf("recorded=%v", b0)
	}
}

func TestOnRightClick_NotIntoPlayer(t *testing.T) {
	w, _ := lookingAtStone(t)
	w.Me().State.Z = 1.2
	w.OnRightClick()
	if got := w.GetBlock(0, 10, 1); got != 0 {
		t.Fatalf("placed %d inside the player", got)
	}
}

func TestOnLeftClick_RemovesPlantAbove(t *testing.T) {
	w, _ := lookingAtStone(t)
	w.SetBlock(0, 11, 0, catalogs.RedFlower)
	w.OnLeftClick()
	if w.GetBlock(0, 10, 0) != 0 || w.GetBlock(0, 11, 0) != 0 {
		t.Fatalf("left click left %d and %d", w.GetBlock(0, 10, 0), w.GetBlock(0, 11, 0))
	}
}

func TestOnMiddleClick_SelectsItem(t *testing.T) {
	w, _ := lookingAtStone(t)
	w.OnMiddleClick()
	if w.Item() != catalogs.Stone {
		t.Fatalf("item=%d want stone", w.Item())
	}
}

func TestOnLight(t *testing.T) {
	w, cl := lookingAtStone(t)
	w.OnLight()
	if len(cl.lights) != 1 || cl.lights[0].W != catalogs.MaxLight {
		t.Fatalf("lights=%v", cl.lights)
	}
}

func TestCycleItem_Wraps(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	w.CycleItem(-1)
	if w.Item() != catalogs.Items[len(catalogs.Items)-1] {
		t.Fatalf("item=%d", w.Item())
	}
	w.CycleItem(1)
	if w.Item() != catalogs.Items[0] {
		t.Fatalf("item=%d", w.Item())
	}
}

func TestParseCommand_Cube(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.RecordBlock(2, 2, 2, catalogs.Stone)
	w.RecordBlock(4, 4, 4, catalogs.Stone)
	if !w.ParseCommand("/cube", true) {
		t.Fatalf("/cube not handled")
	}
	if n := countPositive(w); n != 26 {
		t.Fatalf("blocks=%d want 26", n)
	}
}

func TestParseCommand_Array(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	emptyChunks(w, 0)
	w.RecordBlock(2, 2, 2, catalogs.Stone)
	w.RecordBlock(2, 2, 5, catalogs.Stone)
	if !w.ParseCommand("/array 3", true) {
		t.Fatalf("/array not handled")
	}
	for _, z := range []int{2, 5, 8} {
		if w.GetBlock(2, 2, z) != catalogs.Stone {
			t.Fatalf("missing z=%d", z)
		}
	}
}

func TestParseCommand_View(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	if !w.ParseCommand("/view 5", false) {
		t.Fatalf("/view not handled")
	}
	cfg := w.Config()
	if cfg.CreateRadius != 5 || cfg.RenderRadius != 5 || cfg.DeleteRadius != 9 {
		t.Fatalf("cfg=%+v", cfg)
	}
	w.ParseCommand("/view 30", false)
	if w.Config().CreateRadius != 5 {
		t.Fatalf("out of range view applied")
	}
	if len(w.Messages()) != 1 {
		t.Fatalf("messages=%v", w.Messages())
	}
}

func TestParseCommand_ForwardsChat(t *testing.T) {
	w, _, cl := newTestWorld(t, WorldConfig{Workers: 1})
	if w.ParseCommand("hello there", true) {
		t.Fatalf("chat reported as handled")
	}
	if w.ParseCommand("/sphere x", true) {
		t.Fatalf("bad arguments reported as handled")
	}
	w.ParseCommand("not sent", false)
	if len(cl.talk) != 2 || cl.talk[0] != "hello there" || cl.talk[1] != "/sphere x" {
		t.Fatalf("talk=%v", cl.talk)
	}
}

func TestParseCommand_Goto(t *testing.T) {
	w, _, _ := newTestWorld(t, WorldConfig{Workers: 1})
	p := w.AddRemotePlayer(5)
	p.State = State{X: 40, Y: 20, Z: -3}
	if !w.ParseCommand("/goto player5", false) {
		t.Fatalf("/goto not handled")
	}
	s := w.Me().State
	if s.X != 40 || s.Y != 20 || s.Z != -3 {
		t.Fatalf("state=%+v", s)
	}
}

func TestParseCommand_PQ(t *testing.T) {
	w, _, cl := newTestWorld(t, WorldConfig{Workers: 1})
	if !w.ParseCommand("/pq 1 2", false) {
		t.Fatalf("/pq not handled")
	}
	s := w.Me().State
	if s.X != 32 || s.Z != 64 || s.Y < 1 {
		t.Fatalf("state=%+v", s)
	}
	for p := 0; p <= 2; p++ {
		for q := 1; q <= 3; q++ {
			c := w.chunks.FindChunk(p, q)
			if c == nil || !c.Built {
				t.Fatalf("chunk (%d,%d) not built", p, q)
			}
		}
	}
	if len(cl.chunks) != 9 {
		t.Fatalf("requested %d chunks want 9", len(cl.chunks))
	}
}
