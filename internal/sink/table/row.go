// Package table renders decoded packets into a row-oriented text table,
// one pipe-separated row per packet.
package table

import (
	"encoding/hex"
	"strconv"
	"strings"

	"firestige.xyz/tabula/internal/core"
)

// Options controls row rendering.
type Options struct {
	// Separator between row fields. Free-text fields are NOT escaped: a
	// summary whose info text contains the separator will misalign
	// downstream parsing. Known limitation; pick a separator that cannot
	// occur in the summaries if that matters.
	Separator string
	// TimeFormat for the capture timestamp column.
	TimeFormat string
	// MaxPayloadBytes caps the hex payload column; 0 means unlimited.
	MaxPayloadBytes int
}

// DefaultTimeFormat is the capture timestamp column layout.
const DefaultTimeFormat = "2006-01-02 15:04:05.000000"

func (o Options) withDefaults() Options {
	if o.Separator == "" {
		o.Separator = "|"
	}
	if o.TimeFormat == "" {
		o.TimeFormat = DefaultTimeFormat
	}
	return o
}

// Render formats one output row. Field order is fixed: frame number,
// timestamp, protocol label, transport kind, info text, source address,
// source port, destination address, destination port, total frame length,
// lowercase hex payload. Unknown transports render empty port fields and the
// sentinel payload byte.
func Render(opts Options, pkt core.DecodedPacket, sum *core.Summary) string {
	opts = opts.withDefaults()

	payload := pkt.Payload
	if opts.MaxPayloadBytes > 0 && len(payload) > opts.MaxPayloadBytes {
		payload = payload[:opts.MaxPayloadBytes]
	}

	length := sum.Length
	if length == 0 {
		length = int(pkt.OrigLen)
	}

	fields := []string{
		strconv.FormatUint(pkt.FrameNum, 10),
		pkt.Timestamp.Format(opts.TimeFormat),
		sum.Protocol,
		pkt.Transport.Kind.String(),
		sum.Info,
		sum.Source,
		pkt.Transport.FormatPort(pkt.Transport.SrcPort),
		sum.Destination,
		pkt.Transport.FormatPort(pkt.Transport.DstPort),
		strconv.Itoa(length),
		hex.EncodeToString(payload),
	}
	return strings.Join(fields, opts.Separator)
}
