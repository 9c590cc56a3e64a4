// Package summary supplies protocol-aware per-packet summaries, the
// human-readable half of each output row.
package summary

import (
	"firestige.xyz/tabula/internal/core"
)

// Provider yields one Summary per packet of a capture, in capture order.
// The pairing with raw records is positional, not keyed: providers must emit
// exactly one summary per packet and never skip, reorder, or merge records.
//
// Next returns io.EOF after the last packet. Returned summaries are owned by
// the provider; callers only borrow them until the row is rendered.
type Provider interface {
	Next() (*core.Summary, error)
	Close() error
}
