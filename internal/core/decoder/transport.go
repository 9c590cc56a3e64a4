// Package decoder implements protocol decoding.
package decoder

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/tabula/internal/core"
)

const (
	udpHeaderLen    = 8
	tcpHeaderMinLen = 20

	// Protocol numbers
	protocolTCP = 6
	protocolUDP = 17
)

// decodeTransport decodes the transport layer header (TCP/UDP).
// Returns TransportHeader and remaining payload.
//
// Other protocols (ICMP, SCTP, ...) are tolerated rather than rejected: the
// packet keeps its row, classified TransportUnknown with the sentinel
// payload, so the table stays complete even where decoding stops at L3.
func decodeTransport(data []byte, protocol uint8) (core.TransportHeader, []byte, error) {
	switch protocol {
	case protocolTCP:
		return decodeTCP(data)
	case protocolUDP:
		return decodeUDP(data)
	default:
		transport := core.TransportHeader{
			Kind:     core.TransportUnknown,
			Protocol: protocol,
		}
		return transport, core.UnknownPayloadSentinel, nil
	}
}

// decodeUDP decodes the fixed 8-byte UDP header.
func decodeUDP(data []byte) (core.TransportHeader, []byte, error) {
	if len(data) < udpHeaderLen {
		return core.TransportHeader{}, nil, fmt.Errorf("udp header needs %d bytes, have %d: %w",
			udpHeaderLen, len(data), core.ErrMalformedHeader)
	}

	transport := core.TransportHeader{
		Kind:     core.TransportUDP,
		Protocol: protocolUDP,
	}

	// Source Port (2 bytes at offset 0)
	transport.SrcPort = binary.BigEndian.Uint16(data[0:2])

	// Destination Port (2 bytes at offset 2)
	transport.DstPort = binary.BigEndian.Uint16(data[2:4])

	// Length (2 bytes at offset 4) and Checksum (2 bytes at offset 6)
	// are not needed for locating the payload.

	payload := data[udpHeaderLen:]
	return transport, payload, nil
}

// decodeTCP decodes the TCP header. The header is variable length due to
// options: the payload offset comes from the data-offset nibble, never from
// the 20-byte minimum.
func decodeTCP(data []byte) (core.TransportHeader, []byte, error) {
	if len(data) < tcpHeaderMinLen {
		return core.TransportHeader{}, nil, fmt.Errorf("tcp header needs %d bytes, have %d: %w",
			tcpHeaderMinLen, len(data), core.ErrMalformedHeader)
	}

	transport := core.TransportHeader{
		Kind:     core.TransportTCP,
		Protocol: protocolTCP,
	}

	// Source Port (2 bytes at offset 0)
	transport.SrcPort = binary.BigEndian.Uint16(data[0:2])

	// Destination Port (2 bytes at offset 2)
	transport.DstPort = binary.BigEndian.Uint16(data[2:4])

	// Sequence Number (4 bytes at offset 4)
	transport.SeqNum = binary.BigEndian.Uint32(data[4:8])

	// Acknowledgment Number (4 bytes at offset 8)
	transport.AckNum = binary.BigEndian.Uint32(data[8:12])

	// Data Offset (upper 4 bits of byte 12), in 32-bit words
	dataOffset := uint8(data[12] >> 4)
	headerLen := int(dataOffset) * 4

	if headerLen < tcpHeaderMinLen || len(data) < headerLen {
		return transport, nil, fmt.Errorf("tcp data offset %d beyond %d captured bytes: %w",
			headerLen, len(data), core.ErrMalformedHeader)
	}

	// TCP Flags (lower 6 bits of byte 13)
	transport.TCPFlags = data[13] & 0x3F

	// Payload starts after the TCP header, options included
	payload := data[headerLen:]
	return transport, payload, nil
}
