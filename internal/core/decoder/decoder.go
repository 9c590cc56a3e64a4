// Package decoder implements L2-L4 protocol stack decoding.
package decoder

import (
	"fmt"

	"firestige.xyz/tabula/internal/core"
)

// Decoder decodes raw records into structured format.
type Decoder interface {
	Decode(raw core.RawRecord) (core.DecodedPacket, error)
}

// Config contains decoder configuration.
type Config struct {
	// LinkType is the capture container's declared link layer.
	// Anything other than Ethernet is rejected per record.
	LinkType uint32
}

// StandardDecoder decodes Ethernet + IPv4 + UDP/TCP frames.
type StandardDecoder struct {
	linkType uint32
}

// NewStandardDecoder creates a decoder for the given capture link type.
func NewStandardDecoder(cfg Config) *StandardDecoder {
	return &StandardDecoder{linkType: cfg.LinkType}
}

// Decode parses the L2-L4 headers of one record.
//
// Non-Ethernet links and non-IPv4 network layers fail with
// core.ErrUnsupportedProto; length fields pointing past the buffer fail with
// core.ErrMalformedHeader. Both classes skip the record. An IPv4 protocol
// other than UDP/TCP is NOT an error: the packet is classified
// core.TransportUnknown and its payload set to core.UnknownPayloadSentinel so
// the row is still emitted.
func (d *StandardDecoder) Decode(raw core.RawRecord) (core.DecodedPacket, error) {
	decoded := core.DecodedPacket{
		FrameNum:   raw.FrameNum,
		Timestamp:  raw.Timestamp,
		CaptureLen: raw.CaptureLen,
		OrigLen:    raw.OrigLen,
	}

	if d.linkType != core.LinkTypeEthernet {
		return decoded, fmt.Errorf("link type %d: %w", d.linkType, core.ErrUnsupportedProto)
	}

	eth, ipData, err := decodeEthernet(raw.Data)
	if err != nil {
		return decoded, err
	}
	decoded.Ethernet = eth

	if eth.EtherType != etherTypeIPv4 {
		return decoded, fmt.Errorf("ethertype 0x%04x: %w", eth.EtherType, core.ErrUnsupportedProto)
	}

	ip, transportData, err := decodeIPv4(ipData)
	if err != nil {
		return decoded, err
	}
	decoded.IP = ip

	transport, payload, err := decodeTransport(transportData, ip.Protocol)
	if err != nil {
		return decoded, err
	}
	decoded.Transport = transport
	decoded.Payload = payload

	return decoded, nil
}
