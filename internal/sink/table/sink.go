package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"firestige.xyz/tabula/internal/core"
)

// Sink appends rendered rows to an output stream.
type Sink struct {
	f    *os.File // nil when writing to a caller-supplied stream
	w    *bufio.Writer
	opts Options
}

// Create opens the table file at path for exclusive creation. An existing
// file fails with core.ErrOutputExists; the tool never overwrites.
func Create(path string, opts Options) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%s: %w", path, core.ErrOutputExists)
		}
		return nil, fmt.Errorf("creating output %s: %w", path, err)
	}
	s := NewSink(f, opts)
	s.f = f
	return s, nil
}

// NewSink wraps an already-open stream.
func NewSink(w io.Writer, opts Options) *Sink {
	return &Sink{
		w:    bufio.NewWriter(w),
		opts: opts.withDefaults(),
	}
}

// WriteRow renders and appends one row.
func (s *Sink) WriteRow(pkt core.DecodedPacket, sum *core.Summary) error {
	if _, err := s.w.WriteString(Render(s.opts, pkt, sum)); err != nil {
		return fmt.Errorf("writing row %d: %w", pkt.FrameNum, err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing row %d: %w", pkt.FrameNum, err)
	}
	return nil
}

// Close flushes buffered rows and releases the file, if any. Rows already
// flushed stay on disk even when the run aborts midway.
func (s *Sink) Close() error {
	flushErr := s.w.Flush()
	if s.f != nil {
		if err := s.f.Close(); err != nil && flushErr == nil {
			flushErr = err
		}
		s.f = nil
	}
	return flushErr
}
