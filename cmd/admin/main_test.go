package main

import (
	"testing"
	"time"

	"voxelclient.ai/internal/sim/world"
)

func TestParseAABB_Orders(t *testing.T) {
	min, max, err := parseAABB("5,0,-3:1,10,4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if min != [3]int{1, 0, -3} || max != [3]int{5, 10, 4} {
		t.Fatalf("min=%v max=%v", min, max)
	}
	if _, _, err := parseAABB("1,2,3"); err == nil {
		t.Fatalf("expected error for a single corner")
	}
	if _, _, err := parseAABB("1,2:3,4,5"); err == nil {
		t.Fatalf("expected error for a short vector")
	}
}

func TestEditFilter(t *testing.T) {
	f, err := parseFilter("block", "2026-01-01T00:00:00Z", "", "0,0,0:10,10,10")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	cases := []struct {
		name string
		e    world.EditEntry
		want bool
	}{
		{"match", world.EditEntry{Time: "2026-02-01T00:00:00Z", Action: "BLOCK", Pos: [3]int{1, 2, 3}}, true},
		{"wrong action", world.EditEntry{Time: "2026-02-01T00:00:00Z", Action: "LIGHT", Pos: [3]int{1, 2, 3}}, false},
		{"too early", world.EditEntry{Time: "2025-12-31T00:00:00Z", Action: "BLOCK", Pos: [3]int{1, 2, 3}}, false},
		{"outside", world.EditEntry{Time: "2026-02-01T00:00:00Z", Action: "BLOCK", Pos: [3]int{11, 2, 3}}, false},
		{"bad time", world.EditEntry{Time: "yesterday", Action: "BLOCK", Pos: [3]int{1, 2, 3}}, false},
	}
	for _, tc := range cases {
		if got := f.match(tc.e); got != tc.want {
			t.Fatalf("%s: match=%v want %v", tc.name, got, tc.want)
		}
	}

	all := editFilter{}
	if !all.match(world.EditEntry{Action: "SIGN", Time: time.Now().Format(time.RFC3339Nano)}) {
		t.Fatalf("empty filter should match everything")
	}
}

func TestRollbackPlan_OldestFromWins(t *testing.T) {
	recs := []editRec{
		{Seq: 1, Entry: world.EditEntry{Action: "BLOCK", Pos: [3]int{1, 1, 1}, From: 3, To: 0}},
		{Seq: 2, Entry: world.EditEntry{Action: "BLOCK", Pos: [3]int{1, 1, 1}, From: 0, To: 5}},
		{Seq: 3, Entry: world.EditEntry{Action: "LIGHT", Pos: [3]int{1, 1, 1}, From: 0, To: 15}},
		{Seq: 4, Entry: world.EditEntry{Action: "BLOCK", Pos: [3]int{-1, 4, 40}, From: 0, To: 1}},
	}
	undo := rollbackPlan(recs)
	if len(undo) != 3 {
		t.Fatalf("len=%d want 3: %+v", len(undo), undo)
	}
	got := map[[3]int]map[string]int{}
	for _, u := range undo {
		if got[u.Pos] == nil {
			got[u.Pos] = map[string]int{}
		}
		got[u.Pos][u.Action] = u.To
	}
	if got[[3]int{1, 1, 1}]["BLOCK"] != 3 {
		t.Fatalf("block restore=%d want 3", got[[3]int{1, 1, 1}]["BLOCK"])
	}
	if got[[3]int{1, 1, 1}]["LIGHT"] != 0 {
		t.Fatalf("light restore=%d want 0", got[[3]int{1, 1, 1}]["LIGHT"])
	}
	if got[[3]int{-1, 4, 40}]["BLOCK"] != 0 {
		t.Fatalf("far block restore=%d want 0", got[[3]int{-1, 4, 40}]["BLOCK"])
	}
}

type sinkRow struct{ p, q, x, y, z, w int }

type fakeSink struct{ blocks, lights []sinkRow }

func (s *fakeSink) InsertBlock(p, q, x, y, z, w int) {
	s.blocks = append(s.blocks, sinkRow{p, q, x, y, z, w})
}

func (s *fakeSink) InsertLight(p, q, x, y, z, w int) {
	s.lights = append(s.lights, sinkRow{p, q, x, y, z, w})
}

func TestApplyRollback_OwnerChunk(t *testing.T) {
	var s fakeSink
	applyRollback(&s, []undoOp{
		{Action: "BLOCK", Pos: [3]int{-1, 4, 40}, To: 2},
		{Action: "LIGHT", Pos: [3]int{31, 4, 32}, To: 15},
	})
	if len(s.blocks) != 1 || s.blocks[0] != (sinkRow{-1, 1, -1, 4, 40, 2}) {
		t.Fatalf("blocks=%+v", s.blocks)
	}
	if len(s.lights) != 1 || s.lights[0] != (sinkRow{0, 1, 31, 4, 32, 15}) {
		t.Fatalf("lights=%+v", s.lights)
	}
}
