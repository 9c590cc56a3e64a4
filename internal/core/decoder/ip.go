// Package decoder implements protocol decoding.
package decoder

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"firestige.xyz/tabula/internal/core"
)

const ipv4HeaderMinLen = 20

// decodeIPv4 decodes the IPv4 header. Returns IPv4Header and remaining
// payload. IPv6 (or any other IP version) is rejected: no address fields can
// be reported without an IPv4 header.
func decodeIPv4(data []byte) (core.IPv4Header, []byte, error) {
	if len(data) < 1 {
		return core.IPv4Header{}, nil, fmt.Errorf("empty network layer: %w", core.ErrMalformedHeader)
	}

	// IP version (upper 4 bits of first byte)
	version := data[0] >> 4
	if version != 4 {
		return core.IPv4Header{}, nil, fmt.Errorf("ip version %d: %w", version, core.ErrUnsupportedProto)
	}

	if len(data) < ipv4HeaderMinLen {
		return core.IPv4Header{}, nil, fmt.Errorf("ipv4 header needs %d bytes, have %d: %w",
			ipv4HeaderMinLen, len(data), core.ErrMalformedHeader)
	}

	// IHL (Internet Header Length) - lower 4 bits of first byte, in 32-bit words.
	// Never trust it: options may push the header past the captured bytes.
	ihl := uint8(data[0] & 0x0F)
	headerLen := int(ihl) * 4

	if headerLen < ipv4HeaderMinLen || len(data) < headerLen {
		return core.IPv4Header{}, nil, fmt.Errorf("ipv4 ihl %d beyond %d captured bytes: %w",
			headerLen, len(data), core.ErrMalformedHeader)
	}

	ip := core.IPv4Header{}

	// Total Length (2 bytes at offset 2)
	ip.TotalLen = binary.BigEndian.Uint16(data[2:4])

	// TTL (1 byte at offset 8)
	ip.TTL = data[8]

	// Protocol (1 byte at offset 9)
	ip.Protocol = data[9]

	// Source IP (4 bytes at offset 12)
	addr, ok := netip.AddrFromSlice(data[12:16])
	if !ok {
		return ip, nil, fmt.Errorf("ipv4 source address: %w", core.ErrMalformedHeader)
	}
	ip.SrcIP = addr

	// Destination IP (4 bytes at offset 16)
	addr, ok = netip.AddrFromSlice(data[16:20])
	if !ok {
		return ip, nil, fmt.Errorf("ipv4 destination address: %w", core.ErrMalformedHeader)
	}
	ip.DstIP = addr

	// Payload starts after the full header, options included
	payload := data[headerLen:]
	return ip, payload, nil
}
