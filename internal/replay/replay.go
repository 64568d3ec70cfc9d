// Package replay generalizes the teacher's .infgo activity-log format (see
// the original metrics package this is grounded on) to a new payload shape:
// one record per composed frame, carrying the rendered format string and a
// snapshot of every clickable region open during that frame. It exists for
// offline debugging of click regions and throttle behavior, not for any
// required runtime path (SPEC_FULL.md §3's optional action-context
// snapshot log).
package replay

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// magic is the 8-byte file header identifying a .bard replay log. Bytes 4-5
// encode the format version (currently 0x01 0x00 = v1.0).
var magic = [8]byte{'B', 'A', 'R', 'D', 0x01, 0x00, 0x00, 0x00}

// maxPayloadBytes bounds a single record's size against a corrupt length
// field causing unbounded allocation on read.
const maxPayloadBytes = 10 * 1024 * 1024 // 10 MiB

// RecordType discriminates record kinds in a .bard log. Only one kind
// exists today; the byte is kept so the format can grow without a version
// bump.
type RecordType byte

const RecordTypeFrame RecordType = 0x01

// Field numbers for Region, matching nothing external — this is a private
// wire shape, not a shared .proto schema, so only internal consistency
// between Marshal and Unmarshal matters.
const (
	rfID        protowire.Number = 1
	rfButton    protowire.Number = 2
	rfAlignment protowire.Number = 3
	rfCommand   protowire.Number = 4
	rfStart     protowire.Number = 5
	rfEnd       protowire.Number = 6
)

// Region is one clickable region's snapshot within a Frame.
type Region struct {
	ID        int32
	Button    uint32
	Alignment uint32
	Command   string
	Start     int32
	End       int32
}

func (r *Region) marshal() []byte {
	var b []byte
	if r.ID != 0 {
		b = protowire.AppendTag(b, rfID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.ID))
	}
	if r.Button != 0 {
		b = protowire.AppendTag(b, rfButton, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.Button))
	}
	if r.Alignment != 0 {
		b = protowire.AppendTag(b, rfAlignment, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.Alignment))
	}
	if r.Command != "" {
		b = protowire.AppendTag(b, rfCommand, protowire.BytesType)
		b = protowire.AppendString(b, r.Command)
	}
	if r.Start != 0 {
		b = protowire.AppendTag(b, rfStart, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(uint32(r.Start)))
	}
	if r.End != 0 {
		b = protowire.AppendTag(b, rfEnd, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(uint32(r.End)))
	}
	return b
}

func unmarshalRegion(b []byte) (Region, error) {
	var r Region
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("replay: region: consume tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == rfID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, fmt.Errorf("replay: region: id: %w", protowire.ParseError(n))
			}
			r.ID = int32(v)
			b = b[n:]
		case num == rfButton && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, fmt.Errorf("replay: region: button: %w", protowire.ParseError(n))
			}
			r.Button = uint32(v)
			b = b[n:]
		case num == rfAlignment && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, fmt.Errorf("replay: region: alignment: %w", protowire.ParseError(n))
			}
			r.Alignment = uint32(v)
			b = b[n:]
		case num == rfCommand && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return r, fmt.Errorf("replay: region: command: %w", protowire.ParseError(n))
			}
			r.Command = v
			b = b[n:]
		case num == rfStart && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, fmt.Errorf("replay: region: start: %w", protowire.ParseError(n))
			}
			r.Start = int32(uint32(v))
			b = b[n:]
		case num == rfEnd && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, fmt.Errorf("replay: region: end: %w", protowire.ParseError(n))
			}
			r.End = int32(uint32(v))
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return r, fmt.Errorf("replay: region: skip unknown field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return r, nil
}

const (
	ffTimestampUnixMs protowire.Number = 1
	ffComposite       protowire.Number = 2
	ffRegions         protowire.Number = 3
)

// Frame is one composed bar frame: the rendered format string plus every
// clickable region open during it.
type Frame struct {
	TimestampUnixMs int64
	Composite       string
	Regions         []Region
}

// Marshal serializes f to the wire form this package reads back.
func (f *Frame) Marshal() []byte {
	var b []byte
	if f.TimestampUnixMs != 0 {
		b = protowire.AppendTag(b, ffTimestampUnixMs, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f.TimestampUnixMs))
	}
	if f.Composite != "" {
		b = protowire.AppendTag(b, ffComposite, protowire.BytesType)
		b = protowire.AppendString(b, f.Composite)
	}
	for i := range f.Regions {
		b = protowire.AppendTag(b, ffRegions, protowire.BytesType)
		b = protowire.AppendBytes(b, f.Regions[i].marshal())
	}
	return b
}

// UnmarshalFrame deserializes a Frame from protobuf-compatible wire bytes.
func UnmarshalFrame(b []byte) (Frame, error) {
	var f Frame
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return f, fmt.Errorf("replay: frame: consume tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == ffTimestampUnixMs && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return f, fmt.Errorf("replay: frame: timestamp_unix_ms: %w", protowire.ParseError(n))
			}
			f.TimestampUnixMs = int64(v)
			b = b[n:]
		case num == ffComposite && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return f, fmt.Errorf("replay: frame: composite: %w", protowire.ParseError(n))
			}
			f.Composite = v
			b = b[n:]
		case num == ffRegions && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return f, fmt.Errorf("replay: frame: regions: %w", protowire.ParseError(n))
			}
			region, err := unmarshalRegion(raw)
			if err != nil {
				return f, err
			}
			f.Regions = append(f.Regions, region)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return f, fmt.Errorf("replay: frame: skip unknown field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return f, nil
}

// Logger writes Frame records to a .bard replay log. Call New to create
// one, WriteFrame per composed frame, and Close when done.
type Logger struct {
	w    *bufio.Writer
	f    *os.File
	path string
}

// New creates (or truncates) the file at path and writes the magic header.
func New(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: create %q: %w", path, err)
	}
	l := &Logger{f: f, w: bufio.NewWriterSize(f, 64*1024), path: path}
	if _, err := l.w.Write(magic[:]); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: write magic: %w", err)
	}
	return l, nil
}

// Path returns the log file's path.
func (l *Logger) Path() string { return l.path }

// WriteFrame appends f to the log as a Frame record.
func (l *Logger) WriteFrame(f Frame) error {
	return l.appendRecord(RecordTypeFrame, f.Marshal())
}

// Close flushes and closes the underlying file. Safe to call more than
// once.
func (l *Logger) Close() error {
	if l.f == nil {
		return nil
	}
	if err := l.w.Flush(); err != nil {
		_ = l.f.Close()
		l.f = nil
		return fmt.Errorf("replay: flush %q: %w", l.path, err)
	}
	if err := l.f.Close(); err != nil {
		l.f = nil
		return fmt.Errorf("replay: close %q: %w", l.path, err)
	}
	l.f = nil
	return nil
}

func (l *Logger) appendRecord(rt RecordType, payload []byte) error {
	if err := l.w.WriteByte(byte(rt)); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := l.w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := l.w.Write(payload)
	return err
}

// Record is one decoded entry from a .bard log.
type Record struct {
	Type  RecordType
	Frame *Frame
}

// Reader reads records sequentially from a .bard replay log.
type Reader struct {
	f *os.File
	r *bufio.Reader
}

// Open opens path, validates the magic bytes, and returns a Reader
// positioned at the first record.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %q: %w", path, err)
	}
	br := bufio.NewReaderSize(f, 64*1024)

	var got [8]byte
	if _, err := io.ReadFull(br, got[:]); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: read magic: %w", err)
	}
	if got != magic {
		_ = f.Close()
		return nil, fmt.Errorf("replay: %q is not a valid .bard replay log (bad magic bytes)", path)
	}
	return &Reader{f: f, r: br}, nil
}

// Next reads and decodes the next record, returning (nil, io.EOF) once the
// file is exhausted.
func (r *Reader) Next() (*Record, error) {
	typByte, err := r.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("replay: read type: %w", err)
	}
	rt := RecordType(typByte)

	var lenBuf [4]byte
	if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("replay: read length: %w", err)
	}
	payloadLen := binary.BigEndian.Uint32(lenBuf[:])
	if payloadLen > maxPayloadBytes {
		return nil, fmt.Errorf("replay: record payload too large (%d bytes); possible file corruption", payloadLen)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, fmt.Errorf("replay: read payload: %w", err)
	}

	rec := &Record{Type: rt}
	switch rt {
	case RecordTypeFrame:
		f, err := UnmarshalFrame(payload)
		if err != nil {
			return nil, fmt.Errorf("replay: unmarshal frame: %w", err)
		}
		rec.Frame = &f
	default:
		// Unknown record type: skip, forward-compatible with future formats.
	}
	return rec, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
