// Package core defines core data structures with zero external dependencies.
package core

import (
	"net/netip"
	"strconv"
	"time"
)

// Link types as declared by the capture container global header.
const (
	LinkTypeEthernet uint32 = 1
)

// RawRecord is one packet record read from the capture container.
// Data is a reused scratch buffer: it is only valid until the next record
// is read and must not be retained across iterations.
type RawRecord struct {
	FrameNum   uint64 // 1-based position within the capture
	Data       []byte
	Timestamp  time.Time
	CaptureLen uint32 // always equals len(Data)
	OrigLen    uint32 // on-wire length, >= CaptureLen
}

// EthernetHeader represents the L2 Ethernet frame header.
type EthernetHeader struct {
	SrcMAC    [6]byte
	DstMAC    [6]byte
	EtherType uint16   // 0x0800=IPv4, 0x8100=VLAN
	VLANs     []uint16 // 0~2 VLAN IDs (QinQ scenarios have 2)
}

// IPv4Header represents the L3 IPv4 header.
type IPv4Header struct {
	SrcIP    netip.Addr
	DstIP    netip.Addr
	Protocol uint8 // TCP=6, UDP=17
	TTL      uint8
	TotalLen uint16
}

// TransportKind classifies the L4 header of a decoded packet.
type TransportKind uint8

const (
	TransportUnknown TransportKind = iota
	TransportUDP
	TransportTCP
)

func (k TransportKind) String() string {
	switch k {
	case TransportUDP:
		return "UDP"
	case TransportTCP:
		return "TCP"
	default:
		return "???"
	}
}

// TransportHeader represents the L4 transport layer header (TCP/UDP).
// SrcPort/DstPort are only meaningful when Kind is not TransportUnknown.
type TransportHeader struct {
	Kind     TransportKind
	SrcPort  uint16
	DstPort  uint16
	Protocol uint8 // raw IPv4 protocol number
	// TCP-specific fields (only populated for TCP)
	TCPFlags uint8
	SeqNum   uint32
	AckNum   uint32
}

// FormatPort renders a port number, or an empty string when the transport
// kind carries no ports.
func (t TransportHeader) FormatPort(port uint16) string {
	if t.Kind == TransportUnknown {
		return ""
	}
	return strconv.Itoa(int(port))
}

// UnknownPayloadSentinel is the payload emitted for packets whose transport
// protocol is neither UDP nor TCP. It is a placeholder marking "transport not
// decoded", NOT one byte of real payload; downstream consumers of the table
// must treat it as such. Shared slice, never mutate.
var UnknownPayloadSentinel = []byte{0x00}

// DecodedPacket is the result of L2-L4 protocol stack decoding of one record.
type DecodedPacket struct {
	FrameNum   uint64
	Timestamp  time.Time
	Ethernet   EthernetHeader
	IP         IPv4Header
	Transport  TransportHeader
	Payload    []byte // zero-copy view into the record's data
	CaptureLen uint32
	OrigLen    uint32
}

// Summary is the protocol-aware one-line description of a packet, produced by
// an external decoding engine in capture order. The pipeline only borrows a
// summary long enough to render its row.
type Summary struct {
	FrameNum    uint64
	Timestamp   time.Time
	Protocol    string // highest decoded protocol label, e.g. "DNS"
	Info        string // human-readable one-liner
	Source      string
	Destination string
	Length      int // total frame length as seen by the engine
}
