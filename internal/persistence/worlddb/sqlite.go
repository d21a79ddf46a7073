// Package worlddb is the local sqlite cache of a world: block, light and
// sign overrides, per-chunk server keys and the last player state.
//
// Writes are queued to a single writer goroutine that batches them into
// transactions. Reads are executed by the same goroutine inside its open
// transaction, so they observe every write queued before them.
package worlddb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/terrain/store"
	"voxelclient.ai/internal/sim/world/voxel"
)

const (
	commitEvery   = 2000
	commitMaxWait = 2 * time.Second
)

type DB struct {
	db     *sql.DB
	logger *log.Logger

	ch chan req
	mu sync.RWMutex
	wg sync.WaitGroup

	once   sync.Once
	closed atomic.Bool

	dropTotal   atomic.Uint64
	commitTotal atomic.Uint64
	failTotal   atomic.Uint64
}

type reqKind int

const (
	reqBlock reqKind = iota + 1
	reqLight
	reqSign
	reqDeleteSign
	reqDeleteSigns
	reqKey
	reqState
	reqQuery
	reqFlush
)

type req struct {
	kind reqKind

	p, q, x, y, z, w int
	face             int
	text             string
	state            State

	query func(queryer) error
	done  chan error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// State is the saved local player pose.
type State struct {
	X, Y, Z float32
	RX, RY  float32
}

type Stats struct {
	QueueDepth    int
	QueueCapacity int
	DropTotal     uint64
	CommitTotal   uint64
	FailTotal     uint64
}

// OpenSQLite opens (creating if needed) the world cache at path. logger may
// be nil.
func OpenSQLite(path string, logger *log.Logger) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &DB{
		db:     db,
		logger: logger,
		ch:     make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state (
			x FLOAT NOT NULL,
			y FLOAT NOT NULL,
			z FLOAT NOT NULL,
			rx FLOAT NOT NULL,
			ry FLOAT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS block (
			p INT NOT NULL,
			q INT NOT NULL,
			x INT NOT NULL,
			y INT NOT NULL,
			z INT NOT NULL,
			w INT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS block_pqxyz ON block (p, q, x, y, z);`,
		`CREATE INDEX IF NOT EXISTS block_xz ON block (x, z);`,
		`CREATE TABLE IF NOT EXISTS light (
			p INT NOT NULL,
			q INT NOT NULL,
			x INT NOT NULL,
			y INT NOT NULL,
			z INT NOT NULL,
			w INT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS light_pqxyz ON light (p, q, x, y, z);`,
		`CREATE TABLE IF NOT EXISTS key (
			p INT NOT NULL,
			q INT NOT NULL,
			key INT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS key_pq ON key (p, q);`,
		`CREATE TABLE IF NOT EXISTS sign (
			p INT NOT NULL,
			q INT NOT NULL,
			x INT NOT NULL,
			y INT NOT NULL,
			z INT NOT NULL,
			face INT NOT NULL,
			text TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS sign_pq ON sign (p, q);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS sign_xyzface ON sign (x, y, z, face);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains the queue, commits and closes the database.
func (s *DB) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed.Store(true)
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *DB) Stats() Stats {
	return Stats{
		QueueDepth:    len(s.ch),
		QueueCapacity: cap(s.ch),
		DropTotal:     s.dropTotal.Load(),
		CommitTotal:   s.commitTotal.Load(),
		FailTotal:     s.failTotal.Load(),
	}
}

// enqueue queues a write, dropping it when the writer falls behind.
func (s *DB) enqueue(r req) {
	if s == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropTotal.Add(1)
	}
}

// run executes fn on the writer goroutine and waits for it.
func (s *DB) run(kind reqKind, fn func(queryer) error) error {
	if s == nil {
		return nil
	}
	done := make(chan error, 1)
	s.mu.RLock()
	if s.closed.Load() {
		s.mu.RUnlock()
		return fmt.Errorf("worlddb closed")
	}
	s.ch <- req{kind: kind, query: fn, done: done}
	s.mu.RUnlock()
	return <-done
}

// Flush commits everything queued so far.
func (s *DB) Flush() error { return s.run(reqFlush, nil) }

func (s *DB) InsertBlock(p, q, x, y, z, w int) {
	s.enqueue(req{kind: reqBlock, p: p, q: q, x: x, y: y, z: z, w: w})
}

func (s *DB) InsertLight(p, q, x, y, z, w int) {
	s.enqueue(req{kind: reqLight, p: p, q: q, x: x, y: y, z: z, w: w})
}

func (s *DB) InsertSign(p, q, x, y, z, face int, text string) {
	s.enqueue(req{kind: reqSign, p: p, q: q, x: x, y: y, z: z, face: face, text: text})
}

func (s *DB) DeleteSign(x, y, z, face int) {
	s.enqueue(req{kind: reqDeleteSign, x: x, y: y, z: z, face: face})
}

func (s *DB) DeleteSigns(x, y, z int) {
	s.enqueue(req{kind: reqDeleteSigns, x: x, y: y, z: z})
}

func (s *DB) SetKey(p, q, key int) {
	s.enqueue(req{kind: reqKey, p: p, q: q, w: key})
}

func (s *DB) SaveState(st State) {
	s.enqueue(req{kind: reqState, state: st})
}

// LoadBlocks applies the cached overrides for chunk (p, q) to m, including
// its one-block halo. Rows owned by a neighbor chunk are applied negated, as
// boundary echoes.
func (s *DB) LoadBlocks(m *voxel.Map, p, q int) {
	x0, z0 := p*mathx.ChunkSize-1, q*mathx.ChunkSize-1
	x1, z1 := x0+mathx.ChunkSize+1, z0+mathx.ChunkSize+1
	err := s.run(reqQuery, func(db queryer) error {
		rows, err := db.Query(`SELECT p, q, x, y, z, w FROM block WHERE x >= ? AND x <= ? AND z >= ? AND z <= ?`, x0, x1, z0, z1)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rp, rq, x, y, z, w int
			if err := rows.Scan(&rp, &rq, &x, &y, &z, &w); err != nil {
				return err
			}
			if rp != p || rq != q {
				w = -w
			}
			m.Set(x, y, z, w)
		}
		return rows.Err()
	})
	if err != nil {
		s.logger.Printf("worlddb: load blocks (%d,%d): %v", p, q, err)
	}
}

func (s *DB) LoadLights(m *voxel.Map, p, q int) {
	err := s.run(reqQuery, func(db queryer) error {
		rows, err := db.Query(`SELECT x, y, z, w FROM light WHERE p = ? AND q = ?`, p, q)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var x, y, z, w int
			if err := rows.Scan(&x, &y, &z, &w); err != nil {
				return err
			}
			m.Set(x, y, z, w)
		}
		return rows.Err()
	})
	if err != nil {
		s.logger.Printf("worlddb: load lights (%d,%d): %v", p, q, err)
	}
}

func (s *DB) LoadSigns(list *store.SignList, p, q int) {
	err := s.run(reqQuery, func(db queryer) error {
		rows, err := db.Query(`SELECT x, y, z, face, text FROM sign WHERE p = ? AND q = ?`, p, q)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var sg store.Sign
			if err := rows.Scan(&sg.X, &sg.Y, &sg.Z, &sg.Face, &sg.Text); err != nil {
				return err
			}
			list.Add(sg)
		}
		return rows.Err()
	})
	if err != nil {
		s.logger.Printf("worlddb: load signs (%d,%d): %v", p, q, err)
	}
}

// GetKey returns the server key of chunk (p, q), or 0 when none is cached.
func (s *DB) GetKey(p, q int) int {
	key := 0
	err := s.run(reqQuery, func(db queryer) error {
		err := db.QueryRow(`SELECT key FROM key WHERE p = ? AND q = ?`, p, q).Scan(&key)
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	})
	if err != nil {
		s.logger.Printf("worlddb: get key (%d,%d): %v", p, q, err)
	}
	return key
}

// LoadState returns the saved player pose; ok is false when none is saved.
func (s *DB) LoadState() (st State, ok bool) {
	err := s.run(reqQuery, func(db queryer) error {
		err := db.QueryRow(`SELECT x, y, z, rx, ry FROM state`).Scan(&st.X, &st.Y, &st.Z, &st.RX, &st.RY)
		if err == sql.ErrNoRows {
			return nil
		}
		if err == nil {
			ok = true
		}
		return err
	})
	if err != nil {
		s.logger.Printf("worlddb: load state: %v", err)
	}
	return st, ok
}

func (s *DB) loop() {
	ctx := context.Background()

	var (
		tx         *sql.Tx
		opCount    int
		lastCommit = time.Now()
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			s.failTotal.Add(1)
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.failTotal.Add(1)
			s.logger.Printf("worlddb: commit: %v", err)
		} else {
			s.commitTotal.Add(1)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func(err error) {
		s.failTotal.Add(1)
		s.logger.Printf("worlddb: write: %v", err)
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	ticker := time.NewTicker(commitMaxWait)
	defer ticker.Stop()

	for {
		var r req
		select {
		case rr, ok := <-s.ch:
			if !ok {
				commit()
				return
			}
			r = rr
		case <-ticker.C:
			flushIfNeeded()
			continue
		}

		switch r.kind {
		case reqFlush:
			commit()
			r.done <- nil
			continue
		case reqQuery:
			var db queryer = s.db
			if tx != nil {
				db = tx
			}
			r.done <- r.query(db)
			continue
		}

		begin()
		if tx == nil {
			continue
		}
		var err error
		switch r.kind {
		case reqBlock:
			_, err = tx.Exec(`INSERT OR REPLACE INTO block (p, q, x, y, z, w) VALUES (?, ?, ?, ?, ?, ?)`, r.p, r.q, r.x, r.y, r.z, r.w)
		case reqLight:
			_, err = tx.Exec(`INSERT OR REPLACE INTO light (p, q, x, y, z, w) VALUES (?, ?, ?, ?, ?, ?)`, r.p, r.q, r.x, r.y, r.z, r.w)
		case reqSign:
			_, err = tx.Exec(`INSERT OR REPLACE INTO sign (p, q, x, y, z, face, text) VALUES (?, ?, ?, ?, ?, ?, ?)`, r.p, r.q, r.x, r.y, r.z, r.face, r.text)
		case reqDeleteSign:
			_, err = tx.Exec(`DELETE FROM sign WHERE x = ? AND y = ? AND z = ? AND face = ?`, r.x, r.y, r.z, r.face)
		case reqDeleteSigns:
			_, err = tx.Exec(`DELETE FROM sign WHERE x = ? AND y = ? AND z = ?`, r.x, r.y, r.z)
		case reqKey:
			_, err = tx.Exec(`INSERT OR REPLACE INTO key (p, q, key) VALUES (?, ?, ?)`, r.p, r.q, r.w)
		case reqState:
			if _, err = tx.Exec(`DELETE FROM state`); err == nil {
				st := r.state
				_, err = tx.Exec(`INSERT INTO state (x, y, z, rx, ry) VALUES (?, ?, ?, ?, ?)`, st.X, st.Y, st.Z, st.RX, st.RY)
			}
		}
		if err != nil {
			rollback(err)
			continue
		}
		opCount++
		flushIfNeeded()
	}
}
