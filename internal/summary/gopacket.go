package summary

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/tabula/internal/core"
	"firestige.xyz/tabula/internal/source/pcapfile"
)

// GoPacketProvider produces summaries by running a second, independent pass
// over the capture with gopacket's protocol dissectors. It knows nothing of
// the main decode pipeline; the two only meet positionally at the row join.
type GoPacketProvider struct {
	reader  *pcapfile.Reader
	decoder gopacket.Decoder
}

// NewGoPacketProvider opens its own reader over the capture at path.
func NewGoPacketProvider(path string) (*GoPacketProvider, error) {
	r, err := pcapfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("summary pass: %w", err)
	}
	return &GoPacketProvider{
		reader:  r,
		decoder: layers.LinkType(r.LinkType()),
	}, nil
}

// Next returns the summary of the next packet, or io.EOF after the last one.
func (p *GoPacketProvider) Next() (*core.Summary, error) {
	rec, err := p.reader.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if errors.Is(err, core.ErrTruncatedRecord) {
		// The record pass stops at the same byte; nothing left to pair with.
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	// Default options copy the data, so the reader's scratch buffer may be
	// reused underneath the packet.
	pkt := gopacket.NewPacket(rec.Data, p.decoder, gopacket.Default)

	sum := &core.Summary{
		FrameNum:  rec.FrameNum,
		Timestamp: rec.Timestamp,
		Length:    int(rec.OrigLen),
	}
	fillEndpoints(sum, pkt)
	sum.Protocol = protocolLabel(pkt)
	sum.Info = buildInfo(pkt, sum.Protocol)
	return sum, nil
}

// Close releases the provider's capture pass.
func (p *GoPacketProvider) Close() error {
	return p.reader.Close()
}

func fillEndpoints(sum *core.Summary, pkt gopacket.Packet) {
	if net := pkt.NetworkLayer(); net != nil {
		flow := net.NetworkFlow()
		sum.Source = flow.Src().String()
		sum.Destination = flow.Dst().String()
		return
	}
	if link := pkt.LinkLayer(); link != nil {
		flow := link.LinkFlow()
		sum.Source = flow.Src().String()
		sum.Destination = flow.Dst().String()
	}
}

// protocolLabel names the highest decoded layer, the way a capture UI's
// protocol column would.
func protocolLabel(pkt gopacket.Packet) string {
	var last gopacket.Layer
	for _, l := range pkt.Layers() {
		switch l.LayerType() {
		case gopacket.LayerTypePayload, gopacket.LayerTypeDecodeFailure:
			continue
		}
		last = l
	}
	if last == nil {
		return "???"
	}

	switch last.(type) {
	case *layers.DNS:
		return "DNS"
	case *layers.ICMPv4:
		return "ICMP"
	case *layers.ARP:
		return "ARP"
	default:
		return last.LayerType().String()
	}
}

// buildInfo produces the one-line description for the packet's most specific
// decoded layer.
func buildInfo(pkt gopacket.Packet, label string) string {
	if dns, ok := pkt.Layer(layers.LayerTypeDNS).(*layers.DNS); ok {
		return dnsInfo(dns)
	}
	if icmp, ok := pkt.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4); ok {
		return icmp.TypeCode.String()
	}
	if tcp, ok := pkt.Layer(layers.LayerTypeTCP).(*layers.TCP); ok {
		return tcpInfo(tcp)
	}
	if udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP); ok {
		return fmt.Sprintf("%d -> %d Len=%d", uint16(udp.SrcPort), uint16(udp.DstPort), len(udp.Payload))
	}
	return label
}

func dnsInfo(dns *layers.DNS) string {
	var b strings.Builder
	if dns.QR {
		b.WriteString("Standard query response")
	} else {
		b.WriteString("Standard query")
	}
	fmt.Fprintf(&b, " 0x%04x", dns.ID)
	for _, q := range dns.Questions {
		fmt.Fprintf(&b, " %s %s", q.Type, q.Name)
	}
	for _, a := range dns.Answers {
		if a.IP != nil {
			fmt.Fprintf(&b, " %s %s", a.Type, a.IP)
		}
	}
	return b.String()
}

func tcpInfo(tcp *layers.TCP) string {
	var flags []string
	if tcp.SYN {
		flags = append(flags, "SYN")
	}
	if tcp.FIN {
		flags = append(flags, "FIN")
	}
	if tcp.RST {
		flags = append(flags, "RST")
	}
	if tcp.PSH {
		flags = append(flags, "PSH")
	}
	if tcp.ACK {
		flags = append(flags, "ACK")
	}
	if tcp.URG {
		flags = append(flags, "URG")
	}
	return fmt.Sprintf("%d -> %d [%s] Seq=%d Ack=%d Win=%d Len=%d",
		uint16(tcp.SrcPort), uint16(tcp.DstPort), strings.Join(flags, ", "),
		tcp.Seq, tcp.Ack, tcp.Window, len(tcp.Payload))
}
