package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	persistlog "voxelclient.ai/internal/persistence/log"
	"voxelclient.ai/internal/persistence/worlddb"
	"voxelclient.ai/internal/sim/world"
	"voxelclient.ai/internal/sim/world/logic/mathx"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "rollback":
			rollbackCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "journal":
			journalCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	journalDir := fs.String("journal", "./journal", "edit journal directory")
	_ = fs.Parse(args)

	files, err := persistlog.EditFiles(*journalDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Println(f)
	}
}

type editFilter struct {
	action   string
	since    time.Time
	until    time.Time
	min, max [3]int
	useAABB  bool
}

func (f editFilter) match(e world.EditEntry) bool {
	if f.action != "" && !strings.EqualFold(e.Action, f.action) {
		return false
	}
	if !f.since.IsZero() || !f.until.IsZero() {
		t, err := time.Parse(time.RFC3339Nano, e.Time)
		if err != nil {
			return false
		}
		if !f.since.IsZero() && t.Before(f.since) {
			return false
		}
		if !f.until.IsZero() && t.After(f.until) {
			return false
		}
	}
	if f.useAABB && !withinAABB(e.Pos, f.min, f.max) {
		return false
	}
	return true
}

func parseFilter(action, since, until, aabb string) (editFilter, error) {
	f := editFilter{action: strings.TrimSpace(action)}
	var err error
	if s := strings.TrimSpace(since); s != "" {
		if f.since, err = time.Parse(time.RFC3339, s); err != nil {
			return f, fmt.Errorf("bad -since: %w", err)
		}
	}
	if s := strings.TrimSpace(until); s != "" {
		if f.until, err = time.Parse(time.RFC3339, s); err != nil {
			return f, fmt.Errorf("bad -until: %w", err)
		}
	}
	if s := strings.TrimSpace(aabb); s != "" {
		if f.min, f.max, err = parseAABB(s); err != nil {
			return f, fmt.Errorf("bad -aabb: %w", err)
		}
		f.useAABB = true
	}
	return f, nil
}

func journalCmd(args []string) {
	fs := flag.NewFlagSet("journal", flag.ExitOnError)
	journalDir := fs.String("journal", "./journal", "edit journal directory")
	action := fs.String("action", "", "action filter: BLOCK|LIGHT|SIGN (optional)")
	since := fs.String("since", "", "RFC3339 lower time bound (optional)")
	until := fs.String("until", "", "RFC3339 upper time bound (optional)")
	aabb := fs.String("aabb", "", "AABB filter: x1,y1,z1:x2,y2,z2 (optional)")
	limit := fs.Int("limit", 0, "stop after this many entries (0 = all)")
	_ = fs.Parse(args)

	filter, err := parseFilter(*action, *since, *until, *aabb)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	n := 0
	err = persistlog.ReadEdits(*journalDir, func(e world.EditEntry) bool {
		if !filter.match(e) {
			return true
		}
		printJSON(e)
		n++
		return *limit <= 0 || n < *limit
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "read journal:", err)
		os.Exit(1)
	}
}

func rollbackCmd(args []string) {
	fs := flag.NewFlagSet("rollback", flag.ExitOnError)
	journalDir := fs.String("journal", "./journal", "edit journal directory")
	dbPath := fs.String("db", "craft.db", "sqlite world cache to rewrite")
	aabb := fs.String("aabb", "", "AABB filter: x1,y1,z1:x2,y2,z2 (required)")
	since := fs.String("since", "", "rollback edits at or after this RFC3339 time (optional)")
	until := fs.String("until", "", "rollback edits up to this RFC3339 time (optional)")
	dryRun := fs.Bool("dry_run", false, "print what would change without writing")
	_ = fs.Parse(args)

	if strings.TrimSpace(*aabb) == "" {
		fmt.Fprintln(os.Stderr, "missing -aabb")
		os.Exit(2)
	}
	filter, err := parseFilter("", *since, *until, *aabb)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	recs, err := readEdits(*journalDir, filter)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read journal:", err)
		os.Exit(1)
	}
	if len(recs) == 0 {
		fmt.Println("no matching journal entries; nothing to rollback")
		return
	}
	undo := rollbackPlan(recs)

	if *dryRun {
		for _, u := range undo {
			printJSON(u)
		}
		fmt.Printf("rollback dry run: entries=%d positions=%d\n", len(recs), len(undo))
		return
	}

	db, err := worlddb.OpenSQLite(*dbPath, log.New(io.Discard, "", 0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open db:", err)
		os.Exit(1)
	}
	applyRollback(db, undo)
	if err := db.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close db:", err)
		os.Exit(1)
	}
	st := db.Stats()
	fmt.Printf("rollback ok: db=%s aabb=%s entries=%d positions=%d dropped=%d\n",
		*dbPath, *aabb, len(recs), len(undo), st.DropTotal)
}

type editRec struct {
	Seq   uint64
	Entry world.EditEntry
}

func readEdits(dir string, filter editFilter) ([]editRec, error) {
	var out []editRec
	var seq uint64
	err := persistlog.ReadEdits(dir, func(e world.EditEntry) bool {
		seq++
		if e.Action != "BLOCK" && e.Action != "LIGHT" {
			return true
		}
		if filter.match(e) {
			out = append(out, editRec{Seq: seq, Entry: e})
		}
		return true
	})
	return out, err
}

// undoOp restores one position to the value it had before the first
// matching edit.
type undoOp struct {
	Action string `json:"action"`
	Pos    [3]int `json:"pos"`
	To     int    `json:"to"`
}

// rollbackPlan walks the edits newest first so the oldest "from" value of
// each position wins.
func rollbackPlan(recs []editRec) []undoOp {
	sorted := append([]editRec(nil), recs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq > sorted[j].Seq })

	type key struct {
		action string
		pos    [3]int
	}
	idx := map[key]int{}
	var out []undoOp
	for _, r := range sorted {
		k := key{r.Entry.Action, r.Entry.Pos}
		if i, ok := idx[k]; ok {
			out[i].To = r.Entry.From
			continue
		}
		idx[k] = len(out)
		out = append(out, undoOp{Action: r.Entry.Action, Pos: r.Entry.Pos, To: r.Entry.From})
	}
	return out
}

type rollbackSink interface {
	InsertBlock(p, q, x, y, z, w int)
	InsertLight(p, q, x, y, z, w int)
}

func applyRollback(db rollbackSink, undo []undoOp) {
	for _, u := range undo {
		x, y, z := u.Pos[0], u.Pos[1], u.Pos[2]
		p, q := mathx.FloorDiv(x, mathx.ChunkSize), mathx.FloorDiv(z, mathx.ChunkSize)
		switch u.Action {
		case "BLOCK":
			db.InsertBlock(p, q, x, y, z, u.To)
		case "LIGHT":
			db.InsertLight(p, q, x, y, z, u.To)
		}
	}
}

func withinAABB(pos [3]int, min, max [3]int) bool {
	return pos[0] >= min[0] && pos[0] <= max[0] &&
		pos[1] >= min[1] && pos[1] <= max[1] &&
		pos[2] >= min[2] && pos[2] <= max[2]
}

func parseAABB(s string) (min, max [3]int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return min, max, fmt.Errorf("expected x1,y1,z1:x2,y2,z2")
	}
	a, err := parseVec3(parts[0])
	if err != nil {
		return min, max, err
	}
	b, err := parseVec3(parts[1])
	if err != nil {
		return min, max, err
	}
	for i := 0; i < 3; i++ {
		if a[i] <= b[i] {
			min[i], max[i] = a[i], b[i]
		} else {
			min[i], max[i] = b[i], a[i]
		}
	}
	return min, max, nil
}

func parseVec3(s string) ([3]int, error) {
	var v [3]int
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected x,y,z")
	}
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return v, err
		}
		v[i] = n
	}
	return v, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
