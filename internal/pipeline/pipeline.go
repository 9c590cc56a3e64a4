// Package pipeline implements the record processing chain: capture records
// in, one table row out per packet.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"firestige.xyz/tabula/internal/core"
	"firestige.xyz/tabula/internal/core/decoder"
	"firestige.xyz/tabula/internal/log"
	"firestige.xyz/tabula/internal/summary"
)

// RecordSource yields raw packet records in capture order, io.EOF at the
// end. Not restartable.
type RecordSource interface {
	Next() (core.RawRecord, error)
}

// RowSink receives one rendered row per successfully processed record.
type RowSink interface {
	WriteRow(pkt core.DecodedPacket, sum *core.Summary) error
}

// Pipeline joins a record source with a summary provider, strictly
// positionally: the Nth record pairs with the Nth summary. Processing is
// single-threaded and sequential; the positional join leaves no room for
// concurrent or out-of-order record handling.
type Pipeline struct {
	source    RecordSource
	decoder   decoder.Decoder
	summaries summary.Provider
	sink      RowSink
	metrics   *Metrics
	logger    log.Logger
}

// Config assembles a pipeline.
type Config struct {
	Source    RecordSource
	Decoder   decoder.Decoder
	Summaries summary.Provider
	Sink      RowSink
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		source:    cfg.Source,
		decoder:   cfg.Decoder,
		summaries: cfg.Summaries,
		sink:      cfg.Sink,
		metrics:   &Metrics{},
		logger:    log.GetLogger(),
	}
}

// Run processes the whole capture. It returns nil on a complete pass;
// per-record failures (unsupported layers, malformed headers) skip the
// record and continue. A summary stream that ends before the capture fails
// with core.ErrDesynchronized. Cancellation is checked once per record; rows
// already written stay written.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := p.source.Next()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, core.ErrTruncatedRecord) {
			// Nothing after a truncated record can be trusted; drop the
			// partial record and end the sequence early.
			p.metrics.Truncated.Add(1)
			p.logger.WithError(err).Warn("capture ends in a truncated record, stopping")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading record: %w", err)
		}
		p.metrics.Received.Add(1)

		// Advance the summary stream exactly once per record, decoded or
		// not, to keep the positional pairing intact.
		sum, err := p.summaries.Next()
		if err == io.EOF {
			return fmt.Errorf("summaries ended at frame %d: %w", raw.FrameNum, core.ErrDesynchronized)
		}
		if err != nil {
			return fmt.Errorf("reading summary for frame %d: %w", raw.FrameNum, err)
		}

		pkt, err := p.decoder.Decode(raw)
		if err != nil {
			if p.skipRecord(raw.FrameNum, err) {
				continue
			}
			return fmt.Errorf("decoding frame %d: %w", raw.FrameNum, err)
		}
		p.metrics.Decoded.Add(1)

		if err := p.sink.WriteRow(pkt, sum); err != nil {
			return err
		}
		p.metrics.Written.Add(1)
	}
}

// skipRecord classifies a decode failure, returning true when the record is
// skippable.
func (p *Pipeline) skipRecord(frame uint64, err error) bool {
	switch {
	case errors.Is(err, core.ErrUnsupportedProto):
		p.metrics.Unsupported.Add(1)
	case errors.Is(err, core.ErrMalformedHeader):
		p.metrics.Malformed.Add(1)
	default:
		return false
	}
	p.logger.WithField("frame", frame).WithError(err).Debug("record skipped")
	return true
}

// Stats returns the run counters.
func (p *Pipeline) Stats() Stats {
	return p.metrics.Snapshot()
}
