// Package pcapfile reads packet records from classic-format pcap capture
// files. The container layout is a 24-byte global header (magic, version,
// snaplen, link type) followed by packet records, each a 16-byte record
// header (timestamp, captured length, original length) and that many raw
// frame bytes.
//
// Only the classic container is handled; pcapng files are rejected at open.
package pcapfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"firestige.xyz/tabula/internal/core"
)

const (
	// Global header magic values, as read in file byte order.
	magicMicroseconds        = 0xa1b2c3d4
	magicMicrosecondsSwapped = 0xd4c3b2a1
	magicNanoseconds         = 0xa1b23c4d
	magicNanosecondsSwapped  = 0x4d3cb2a1
	magicPcapNG              = 0x0a0d0d0a // section header block, same both ways

	versionMajor = 2

	globalHeaderLen = 24
	recordHeaderLen = 16

	// Upper bound for a single record when the global header declares no
	// usable snaplen. A length field above this cannot be trusted.
	maxRecordLen = 1 << 26
)

// Reader walks the packet records of a classic pcap file in capture order.
// It is forward-only and not restartable: a single pass over the underlying
// stream. Byte order for all record headers is fixed once by the global
// header magic.
type Reader struct {
	r         *bufio.Reader
	f         *os.File // nil when constructed from a plain io.Reader
	byteOrder binary.ByteOrder
	nanos     bool // sub-second field resolution
	snapLen   uint32
	linkType  uint32
	frameNum  uint64
	buf       []byte // record scratch buffer, reused across Next calls
}

// Open opens the capture file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture %s: %w", path, err)
	}
	r.f = f
	return r, nil
}

// NewReader wraps an already-open capture stream, consuming its global
// header. Fails with core.ErrCaptureFormat when the magic or version is not
// recognized.
func NewReader(rd io.Reader) (*Reader, error) {
	br := bufio.NewReader(rd)

	hdr := make([]byte, globalHeaderLen)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("global header: %w", core.ErrCaptureFormat)
	}

	// The magic doubles as the byte-order marker: a swapped value means the
	// writer's byte order is the opposite of little-endian.
	var bo binary.ByteOrder
	var nanos bool
	switch binary.LittleEndian.Uint32(hdr[0:4]) {
	case magicMicroseconds:
		bo = binary.LittleEndian
	case magicNanoseconds:
		bo, nanos = binary.LittleEndian, true
	case magicMicrosecondsSwapped:
		bo = binary.BigEndian
	case magicNanosecondsSwapped:
		bo, nanos = binary.BigEndian, true
	case magicPcapNG:
		return nil, fmt.Errorf("pcapng container: %w", core.ErrCaptureFormat)
	default:
		return nil, fmt.Errorf("magic 0x%08x: %w", binary.LittleEndian.Uint32(hdr[0:4]), core.ErrCaptureFormat)
	}

	if major := bo.Uint16(hdr[4:6]); major != versionMajor {
		return nil, fmt.Errorf("version %d.%d: %w", major, bo.Uint16(hdr[6:8]), core.ErrCaptureFormat)
	}

	return &Reader{
		r:         br,
		byteOrder: bo,
		nanos:     nanos,
		snapLen:   bo.Uint32(hdr[16:20]),
		linkType:  bo.Uint32(hdr[20:24]),
	}, nil
}

// LinkType returns the link layer declared by the global header.
func (r *Reader) LinkType() uint32 {
	return r.linkType
}

// SnapLen returns the capture snapshot length declared by the global header.
func (r *Reader) SnapLen() uint32 {
	return r.snapLen
}

// Next returns the next packet record. The returned record's Data is a view
// into an internal buffer reused by the following call; it must be fully
// consumed before Next is called again.
//
// Returns io.EOF on clean end of file at a record boundary. A record whose
// declared length reads past end of file fails with core.ErrTruncatedRecord;
// the partial record is dropped and no further records can be read.
func (r *Reader) Next() (core.RawRecord, error) {
	var hdr [recordHeaderLen]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if err == io.EOF {
			return core.RawRecord{}, io.EOF
		}
		return core.RawRecord{}, fmt.Errorf("record %d header: %w", r.frameNum+1, core.ErrTruncatedRecord)
	}

	tsSec := r.byteOrder.Uint32(hdr[0:4])
	tsSub := r.byteOrder.Uint32(hdr[4:8])
	inclLen := r.byteOrder.Uint32(hdr[8:12])
	origLen := r.byteOrder.Uint32(hdr[12:16])

	limit := r.snapLen
	if limit == 0 || limit > maxRecordLen {
		limit = maxRecordLen
	}
	if inclLen > limit {
		return core.RawRecord{}, fmt.Errorf("record %d declares %d captured bytes (snaplen %d): %w",
			r.frameNum+1, inclLen, r.snapLen, core.ErrTruncatedRecord)
	}

	if cap(r.buf) < int(inclLen) {
		r.buf = make([]byte, inclLen)
	}
	data := r.buf[:inclLen]
	if _, err := io.ReadFull(r.r, data); err != nil {
		return core.RawRecord{}, fmt.Errorf("record %d body: %w", r.frameNum+1, core.ErrTruncatedRecord)
	}

	subNanos := int64(tsSub)
	if !r.nanos {
		subNanos *= int64(time.Microsecond)
	}

	r.frameNum++
	return core.RawRecord{
		FrameNum:   r.frameNum,
		Data:       data,
		Timestamp:  time.Unix(int64(tsSec), subNanos),
		CaptureLen: inclLen,
		OrigLen:    origLen,
	}, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
