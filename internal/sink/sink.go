// Package sink implements the durable, append-only CSV log that samples are
// written to. Every row is flushed and synced before Append returns.
package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	apperrors "github.com/agbru/perflog/internal/errors"
)

// ErrLocked is the cause of a lock failure when another process already
// writes to the same file.
var ErrLocked = errors.New("file is in use by another process")

// CSVSink appends rows to a CSV file it exclusively owns.
type CSVSink struct {
	path          string
	file          *os.File
	w             *csv.Writer
	headerWritten bool
}

// Open opens path for append, creating it and its parent directories if
// needed. The header is written iff the file is empty at open time.
// Every failure is returned as an apperrors.SinkError.
func Open(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.SinkError{Op: "open", Path: path, Cause: err}
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, apperrors.SinkError{Op: "open", Path: path, Cause: err}
	}

	if err := lockFile(f); err != nil {
		f.Close()
		return nil, apperrors.SinkError{Op: "lock", Path: path, Cause: err}
	}

	s := &CSVSink{path: path, file: f, w: newWriter(f)}

	info, err := f.Stat()
	if err != nil {
		s.Close()
		return nil, apperrors.SinkError{Op: "stat", Path: path, Cause: err}
	}
	if info.Size() == 0 {
		if err := s.writeRecord(Header); err != nil {
			s.Close()
			return nil, err
		}
		s.headerWritten = true
	}
	return s, nil
}

func newWriter(f *os.File) *csv.Writer {
	w := csv.NewWriter(f)
	w.UseCRLF = runtime.GOOS == "windows"
	return w
}

// Path returns the file path the sink writes to.
func (s *CSVSink) Path() string { return s.path }

// HeaderWritten reports whether Open wrote the header row.
func (s *CSVSink) HeaderWritten() bool { return s.headerWritten }

// Append writes one row and syncs it to stable storage.
func (s *CSVSink) Append(r Row) error {
	return s.writeRecord(r.Record())
}

func (s *CSVSink) writeRecord(record []string) error {
	if s.file == nil {
		return apperrors.SinkError{Op: "write", Path: s.path, Cause: os.ErrClosed}
	}
	if err := s.w.Write(record); err != nil {
		return apperrors.SinkError{Op: "write", Path: s.path, Cause: err}
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return apperrors.SinkError{Op: "write", Path: s.path, Cause: err}
	}
	if err := s.file.Sync(); err != nil {
		return apperrors.SinkError{Op: "sync", Path: s.path, Cause: err}
	}
	return nil
}

// Close releases the lock and closes the file. It is safe to call twice.
func (s *CSVSink) Close() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil

	unlockErr := unlockFile(f)
	if err := f.Close(); err != nil {
		return apperrors.SinkError{Op: "close", Path: s.path, Cause: err}
	}
	if unlockErr != nil {
		return apperrors.SinkError{Op: "close", Path: s.path, Cause: fmt.Errorf("releasing lock: %w", unlockErr)}
	}
	return nil
}
