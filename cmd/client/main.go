package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	persistlog "voxelclient.ai/internal/persistence/log"
	"voxelclient.ai/internal/persistence/worlddb"
	"voxelclient.ai/internal/sim/tuning"
	"voxelclient.ai/internal/sim/world"
	"voxelclient.ai/internal/transport/ws"
)

func main() {
	var (
		tuningPath  = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml (defaults are used when missing)")
		dbPath      = flag.String("db", "", "sqlite world cache path (overrides db_path)")
		serverURL   = flag.String("server", "", "ws url of a world server (overrides server_addr; empty plays offline)")
		journalDir  = flag.String("journal", "", "edit journal directory (overrides journal_dir; empty disables)")
		username    = flag.String("user", "", "login name sent after connecting")
		token       = flag.String("token", "", "login token")
		statusEvery = flag.Duration("status", 30*time.Second, "status log interval (0 disables)")
		metricsAddr = flag.String("metrics_addr", "", "listen address for /healthz and /metrics (empty to disable)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[client] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", *tuningPath)
		tune = tuning.Defaults()
	}
	if v := strings.TrimSpace(*dbPath); v != "" {
		tune.DBPath = v
	}
	if v := strings.TrimSpace(*serverURL); v != "" {
		tune.ServerAddr = v
	}
	if v := strings.TrimSpace(*journalDir); v != "" {
		tune.JournalDir = v
	}

	ctx, cancel := signalContext()
	defer cancel()

	var db *worlddb.DB
	if tune.DBPath != "" {
		db, err = worlddb.OpenSQLite(tune.DBPath, logger)
		if err != nil {
			logger.Fatalf("open db: %v", err)
		}
	}

	cfg := world.WorldConfig{
		Seed:         tune.Seed,
		Workers:      tune.Workers,
		MaxChunks:    tune.MaxChunks,
		CreateRadius: tune.CreateRadius,
		RenderRadius: tune.RenderRadius,
		DeleteRadius: tune.DeleteRadius,
		SignRadius:   tune.SignRadius,
		ShowLights:   tune.ShowLights,
		ShowPlants:   tune.ShowPlants,
		ShowTrees:    tune.ShowTrees,
		ShowClouds:   tune.ShowClouds,
		FrameRateHz:  tune.FrameRateHz,
		Width:        tune.Width,
		Height:       tune.Height,
		FOV:          tune.FOV,
	}

	var persist world.Persistence
	if db != nil {
		persist = db
	}
	w := world.New(cfg, persist, nil, logger)

	if tune.ServerAddr != "" {
		dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
		conn, err := ws.Dial(dialCtx, ws.Config{
			URL:            tune.ServerAddr,
			Username:       *username,
			Token:          *token,
			PositionRateHz: tune.PositionRateHz,
		}, w.Inbox(), logger)
		dialCancel()
		if err != nil {
			logger.Fatalf("connect: %v", err)
		}
		defer conn.Close()
		w.SetClient(conn)
		go func() {
			select {
			case <-conn.Done():
				if err := conn.Err(); err != nil {
					logger.Printf("server connection closed: %v", err)
				}
				cancel()
			case <-ctx.Done():
			}
		}()
		logger.Printf("connected to %s", tune.ServerAddr)
	} else {
		logger.Printf("no server configured; playing offline")
	}

	var journal *persistlog.EditLogger
	if tune.JournalDir != "" {
		journal = persistlog.NewEditLogger(tune.JournalDir)
		w.SetEditLogger(journal)
	}

	if db != nil {
		st, ok := db.LoadState()
		w.Spawn(world.State{X: st.X, Y: st.Y, Z: st.Z, RX: st.RX, RY: st.RY}, ok)
	} else {
		w.Spawn(world.State{}, false)
	}

	if *statusEvery > 0 {
		go statusLoop(ctx, *statusEvery, w, db, logger)
	}
	if addr := strings.TrimSpace(*metricsAddr); addr != "" {
		srv := &http.Server{Addr: addr, Handler: metricsMux(w, db)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("metrics listener: %v", err)
			}
		}()
		defer srv.Close()
		logger.Printf("metrics on http://%s/metrics", addr)
	}

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		logger.Printf("world stopped: %v", err)
	}
	w.Close()

	if db != nil {
		me := w.Me().State
		db.SaveState(worlddb.State{X: me.X, Y: me.Y, Z: me.Z, RX: me.RX, RY: me.RY})
		if err := db.Close(); err != nil {
			logger.Printf("close db: %v", err)
		}
	}
	if journal != nil {
		if err := journal.Close(); err != nil {
			logger.Printf("close journal: %v", err)
		}
	}
	logger.Printf("bye")
}

func statusLoop(ctx context.Context, every time.Duration, w *world.World, db *worlddb.DB, logger *log.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m := w.Metrics()
			if db != nil {
				st := db.Stats()
				logger.Printf("status chunks=%d dirty=%d busy_workers=%d step_ms=%.2f db_queue=%d/%d db_drops=%d db_commits=%d db_failures=%d",
					m.LoadedChunks, m.DirtyChunks, m.BusyWorkers, m.StepMS, st.QueueDepth, st.QueueCapacity, st.DropTotal, st.CommitTotal, st.FailTotal)
				continue
			}
			logger.Printf("status chunks=%d dirty=%d busy_workers=%d step_ms=%.2f", m.LoadedChunks, m.DirtyChunks, m.BusyWorkers, m.StepMS)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
