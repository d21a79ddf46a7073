package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"voxelclient.ai/internal/sim/world"
)

const hourLayout = "2006-01-02-15"

type Options struct {
	// Now is the rotation clock; defaults to time.Now.
	Now func() time.Time
	// Level defaults to zstd.SpeedFastest.
	Level zstd.EncoderLevel
	// OnClose receives the path of each file the journal is done with,
	// on rotation and on Close.
	OnClose func(path string)
}

// Journal appends JSON lines to <dir>/<prefix>-<yyyy-mm-dd-hh>.jsonl.zst,
// starting a new file every UTC hour. Reopening an existing hour appends a
// new zstd frame to it. Safe for concurrent use.
type Journal struct {
	dir    string
	prefix string
	opts   Options

	mu    sync.Mutex
	hour  string
	path  string
	f     *os.File
	enc   *zstd.Encoder
	buf   *bufio.Writer
	lines uint64
}

func NewJournal(dir, prefix string, opts Options) *Journal {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Level == 0 {
		opts.Level = zstd.SpeedFastest
	}
	return &Journal{dir: dir, prefix: prefix, opts: opts}
}

// Append writes v as one line and flushes it through the encoder, so a
// crash loses at most the line being written.
func (j *Journal) Append(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if hour := j.opts.Now().UTC().Format(hourLayout); hour != j.hour {
		if err := j.openLocked(hour); err != nil {
			return err
		}
	}
	if _, err := j.buf.Write(b); err != nil {
		return err
	}
	if err := j.buf.Flush(); err != nil {
		return err
	}
	if err := j.enc.Flush(); err != nil {
		return err
	}
	j.lines++
	return nil
}

// Lines counts lines appended since the journal was created.
func (j *Journal) Lines() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lines
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *Journal) openLocked(hour string) error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(j.dir, fmt.Sprintf("%s-%s.jsonl.zst", j.prefix, hour))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(j.opts.Level))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.hour, j.path = hour, path
	j.f, j.enc = f, enc
	j.buf = bufio.NewWriterSize(enc, 32*1024)
	return nil
}

func (j *Journal) closeLocked() error {
	if j.f == nil {
		return nil
	}
	var err error
	if ferr := j.buf.Flush(); ferr != nil {
		err = ferr
	}
	if cerr := j.enc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := j.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	path := j.path
	j.f, j.enc, j.buf = nil, nil, nil
	j.hour, j.path = "", ""
	if j.opts.OnClose != nil {
		j.opts.OnClose(path)
	}
	return err
}

// EditLogger journals local edits under <dir>/edits-<hour>.jsonl.zst.
type EditLogger struct{ j *Journal }

func NewEditLogger(dir string) *EditLogger {
	return NewEditLoggerWithOptions(dir, Options{})
}

func NewEditLoggerWithOptions(dir string, opts Options) *EditLogger {
	return &EditLogger{j: NewJournal(dir, editPrefix, opts)}
}

func (l *EditLogger) WriteEdit(e world.EditEntry) error { return l.j.Append(e) }

func (l *EditLogger) Written() uint64 { return l.j.Lines() }

func (l *EditLogger) Close() error { return l.j.Close() }
