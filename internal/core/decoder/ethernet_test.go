package decoder

import (
	"errors"
	"testing"

	"firestige.xyz/tabula/internal/core"
)

func TestDecodeEthernetBasic(t *testing.T) {
	data := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, // Dst MAC
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, // Src MAC
		0x08, 0x00, // EtherType: IPv4
		0x45, 0x00, // Payload (start of IP header)
	}

	eth, payload, err := decodeEthernet(data)
	if err != nil {
		t.Fatalf("decodeEthernet failed: %v", err)
	}

	expectedDstMAC := [6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	if eth.DstMAC != expectedDstMAC {
		t.Errorf("Expected DstMAC %v, got %v", expectedDstMAC, eth.DstMAC)
	}

	expectedSrcMAC := [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	if eth.SrcMAC != expectedSrcMAC {
		t.Errorf("Expected SrcMAC %v, got %v", expectedSrcMAC, eth.SrcMAC)
	}

	if eth.EtherType != 0x0800 {
		t.Errorf("Expected EtherType 0x0800, got 0x%04x", eth.EtherType)
	}

	if len(payload) != 2 {
		t.Errorf("Expected payload length 2, got %d", len(payload))
	}
}

func TestDecodeEthernetWithVLAN(t *testing.T) {
	data := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, // Dst MAC
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, // Src MAC
		0x81, 0x00, // EtherType: VLAN (0x8100)
		0x00, 0x0A, // VLAN TCI: VLAN ID 10
		0x08, 0x00, // Inner EtherType: IPv4
		0x45, // Payload
	}

	eth, payload, err := decodeEthernet(data)
	if err != nil {
		t.Fatalf("decodeEthernet failed: %v", err)
	}

	if eth.EtherType != 0x0800 {
		t.Errorf("Expected inner EtherType 0x0800, got 0x%04x", eth.EtherType)
	}
	if len(eth.VLANs) != 1 || eth.VLANs[0] != 10 {
		t.Errorf("Expected VLANs [10], got %v", eth.VLANs)
	}
	if len(payload) != 1 {
		t.Errorf("Expected payload length 1, got %d", len(payload))
	}
}

func TestDecodeEthernetQinQ(t *testing.T) {
	data := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		0x88, 0xA8, // EtherType: QinQ outer
		0x00, 0x64, // VLAN ID 100
		0x81, 0x00, // VLAN inner
		0x00, 0xC8, // VLAN ID 200
		0x08, 0x00, // Inner EtherType: IPv4
	}

	eth, _, err := decodeEthernet(data)
	if err != nil {
		t.Fatalf("decodeEthernet failed: %v", err)
	}

	if len(eth.VLANs) != 2 || eth.VLANs[0] != 100 || eth.VLANs[1] != 200 {
		t.Errorf("Expected VLANs [100 200], got %v", eth.VLANs)
	}
	if eth.EtherType != 0x0800 {
		t.Errorf("Expected inner EtherType 0x0800, got 0x%04x", eth.EtherType)
	}
}

func TestDecodeEthernetTooShort(t *testing.T) {
	_, _, err := decodeEthernet([]byte{0x00, 0x11, 0x22})
	if !errors.Is(err, core.ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader, got %v", err)
	}
}

func TestDecodeEthernetTruncatedVLAN(t *testing.T) {
	data := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		0x81, 0x00, // VLAN ethertype but tag bytes missing
		0x00,
	}
	_, _, err := decodeEthernet(data)
	if !errors.Is(err, core.ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader, got %v", err)
	}
}
