package decoder

import (
	"errors"
	"net/netip"
	"testing"

	"firestige.xyz/tabula/internal/core"
)

func makeIPv4Header(ihl uint8, protocol uint8, extra int) []byte {
	headerLen := int(ihl) * 4
	data := make([]byte, headerLen+extra)
	data[0] = 0x40 | ihl
	data[2], data[3] = 0x00, byte(headerLen+extra) // Total Length
	data[8] = 64                                   // TTL
	data[9] = protocol
	data[12], data[13], data[14], data[15] = 10, 0, 0, 1
	data[16], data[17], data[18], data[19] = 10, 0, 0, 2
	return data
}

func TestDecodeIPv4Basic(t *testing.T) {
	data := makeIPv4Header(5, 17, 4)

	ip, payload, err := decodeIPv4(data)
	if err != nil {
		t.Fatalf("decodeIPv4 failed: %v", err)
	}

	if ip.Protocol != 17 {
		t.Errorf("Expected protocol 17, got %d", ip.Protocol)
	}
	if ip.TTL != 64 {
		t.Errorf("Expected TTL 64, got %d", ip.TTL)
	}
	if ip.SrcIP != netip.MustParseAddr("10.0.0.1") {
		t.Errorf("Expected SrcIP 10.0.0.1, got %v", ip.SrcIP)
	}
	if ip.DstIP != netip.MustParseAddr("10.0.0.2") {
		t.Errorf("Expected DstIP 10.0.0.2, got %v", ip.DstIP)
	}
	if len(payload) != 4 {
		t.Errorf("Expected 4 payload bytes, got %d", len(payload))
	}
}

func TestDecodeIPv4WithOptions(t *testing.T) {
	// IHL 7 = 28-byte header: payload must start past the 8 option bytes
	data := makeIPv4Header(7, 6, 2)

	_, payload, err := decodeIPv4(data)
	if err != nil {
		t.Fatalf("decodeIPv4 failed: %v", err)
	}
	if len(payload) != 2 {
		t.Errorf("Expected payload to skip options, got %d bytes", len(payload))
	}
}

func TestDecodeIPv4RejectsIPv6(t *testing.T) {
	data := make([]byte, 40)
	data[0] = 0x60 // version 6

	_, _, err := decodeIPv4(data)
	if !errors.Is(err, core.ErrUnsupportedProto) {
		t.Errorf("Expected ErrUnsupportedProto, got %v", err)
	}
}

func TestDecodeIPv4BadIHL(t *testing.T) {
	// IHL 3 (12 bytes) is below the 20-byte minimum
	data := makeIPv4Header(5, 17, 0)
	data[0] = 0x43

	_, _, err := decodeIPv4(data)
	if !errors.Is(err, core.ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader for IHL below minimum, got %v", err)
	}

	// IHL 15 (60 bytes) points past the 20 captured bytes
	data = makeIPv4Header(5, 17, 0)
	data[0] = 0x4F

	_, _, err = decodeIPv4(data)
	if !errors.Is(err, core.ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader for IHL beyond buffer, got %v", err)
	}
}

func TestDecodeIPv4TooShort(t *testing.T) {
	_, _, err := decodeIPv4([]byte{0x45, 0x00})
	if !errors.Is(err, core.ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader, got %v", err)
	}

	_, _, err = decodeIPv4(nil)
	if !errors.Is(err, core.ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader for empty buffer, got %v", err)
	}
}
