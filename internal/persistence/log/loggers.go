// Package log persists the per-tick event stream and the edit audit
// trail as zstd-compressed JSONL. Each stream lives in its own
// subdirectory of the world's data directory and rolls to a new file on
// UTC hour boundaries, so a long-lived session never grows one
// unbounded file. cmd/replay re-steps a session from the events stream.
package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"voxelforge.dev/internal/sim/world"
)

// hourStamp is the rollover key: one output file per UTC hour.
func hourStamp(t time.Time) string { return t.UTC().Format("2006-01-02-15") }

// stream appends JSON lines to <worldDir>/<name>/<name>-<hour>.jsonl.zst.
// Every append is flushed through the encoder, so a crash loses at most
// the line being written. The first append creates the directory.
type stream struct {
	dir  string
	name string

	mu   sync.Mutex
	hour string
	file *os.File
	zw   *zstd.Encoder
	buf  *bufio.Writer
}

func openStream(worldDir, name string) *stream {
	return &stream{dir: filepath.Join(worldDir, name), name: name}
}

func (s *stream) append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h := hourStamp(time.Now()); h != s.hour {
		if err := s.roll(h); err != nil {
			return err
		}
	}
	if _, err := s.buf.Write(line); err != nil {
		return err
	}
	if err := s.buf.WriteByte('\n'); err != nil {
		return err
	}
	return s.buf.Flush()
}

// roll closes the open file, if any, and starts the given hour's file.
// O_APPEND keeps a restart within the same hour from clobbering earlier
// entries; zstd frames concatenate cleanly.
func (s *stream) roll(hour string) error {
	if err := s.finish(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.dir, s.name+"-"+hour+".jsonl.zst"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	s.file, s.zw, s.buf = f, zw, bufio.NewWriterSize(zw, 64*1024)
	s.hour = hour
	return nil
}

// finish flushes and closes the current file. A no-op when nothing has
// been written yet.
func (s *stream) finish() error {
	if s.file == nil {
		return nil
	}
	_ = s.buf.Flush()
	err := s.zw.Close()
	_ = s.file.Close()
	s.file, s.zw, s.buf = nil, nil, nil
	s.hour = ""
	return err
}

func (s *stream) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish()
}

// TickLogger records one entry per completed tick under
// <worldDir>/events.
type TickLogger struct{ s *stream }

func NewTickLogger(worldDir string) *TickLogger {
	return &TickLogger{s: openStream(worldDir, "events")}
}

func (l *TickLogger) WriteTick(e world.TickLogEntry) error { return l.s.append(e) }
func (l *TickLogger) Close() error                         { return l.s.close() }

// AuditLogger records one entry per committed edit under
// <worldDir>/audit.
type AuditLogger struct{ s *stream }

func NewAuditLogger(worldDir string) *AuditLogger {
	return &AuditLogger{s: openStream(worldDir, "audit")}
}

func (l *AuditLogger) WriteAudit(e world.AuditEntry) error { return l.s.append(e) }
func (l *AuditLogger) Close() error                        { return l.s.close() }
