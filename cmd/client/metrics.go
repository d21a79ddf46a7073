package main

import (
	"fmt"
	"io"
	"net/http"

	"voxelclient.ai/internal/persistence/worlddb"
	"voxelclient.ai/internal/sim/world"
)

func metricsMux(w *world.World, db *worlddb.DB) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetrics(rw, w.Metrics(), db)
	})
	return mux
}

// writeMetrics renders m (and db queue stats when db is set) in the minimal
// Prometheus exposition format.
func writeMetrics(rw io.Writer, m world.WorldMetrics, db *worlddb.DB) {
	fmt.Fprintf(rw, "# HELP voxelclient_frame Frames stepped since start.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_frame counter\n")
	fmt.Fprintf(rw, "voxelclient_frame %d\n", m.Frame)

	fmt.Fprintf(rw, "# HELP voxelclient_players Known players including the local one.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_players gauge\n")
	fmt.Fprintf(rw, "voxelclient_players %d\n", m.Players)

	fmt.Fprintf(rw, "# HELP voxelclient_chunks Chunk counts by state.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_chunks gauge\n")
	fmt.Fprintf(rw, "voxelclient_chunks{state=%q} %d\n", "loaded", m.LoadedChunks)
	fmt.Fprintf(rw, "voxelclient_chunks{state=%q} %d\n", "dirty", m.DirtyChunks)

	fmt.Fprintf(rw, "# HELP voxelclient_busy_workers Mesh workers not idle.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_busy_workers gauge\n")
	fmt.Fprintf(rw, "voxelclient_busy_workers %d\n", m.BusyWorkers)

	fmt.Fprintf(rw, "# HELP voxelclient_inbox_depth Server messages waiting to be applied.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_inbox_depth gauge\n")
	fmt.Fprintf(rw, "voxelclient_inbox_depth %d\n", m.InboxDepth)

	fmt.Fprintf(rw, "# HELP voxelclient_step_ms Last frame step duration in milliseconds.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_step_ms gauge\n")
	fmt.Fprintf(rw, "voxelclient_step_ms %.3f\n", m.StepMS)

	if db == nil {
		return
	}
	st := db.Stats()
	fmt.Fprintf(rw, "# HELP voxelclient_db_queue_depth Pending writes in the sqlite queue.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_db_queue_depth gauge\n")
	fmt.Fprintf(rw, "voxelclient_db_queue_depth %d\n", st.QueueDepth)
	fmt.Fprintf(rw, "# HELP voxelclient_db_events_total Sqlite writer events by kind.\n")
	fmt.Fprintf(rw, "# TYPE voxelclient_db_events_total counter\n")
	fmt.Fprintf(rw, "voxelclient_db_events_total{event=%q} %d\n", "drop", st.DropTotal)
	fmt.Fprintf(rw, "voxelclient_db_events_total{event=%q} %d\n", "commit", st.CommitTotal)
	fmt.Fprintf(rw, "voxelclient_db_events_total{event=%q} %d\n", "failure", st.FailTotal)
}
