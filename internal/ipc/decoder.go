package ipc

import (
	"encoding/binary"
	"fmt"
)

type decoderState int

const (
	stateHeader decoderState = iota
	statePayload
	stateClosed
)

// Decoder assembles wire messages from an arbitrarily chunked byte stream
// and invokes Callback once per complete message. It is single-use after
// an error: once Closed, Write always fails without consuming further
// bytes.
type Decoder struct {
	Callback func(version uint8, typ Type, payload []byte)

	state   decoderState
	scratch []byte // accumulates bytes for the piece currently being read
	header  Header
	err     error
}

// NewDecoder returns a Decoder in the HEADER state.
func NewDecoder(callback func(version uint8, typ Type, payload []byte)) *Decoder {
	return &Decoder{Callback: callback}
}

// Closed reports whether the decoder has failed and will no longer accept
// input.
func (d *Decoder) Closed() bool { return d.state == stateClosed }

// Err returns the error that closed the decoder, if any.
func (d *Decoder) Err() error { return d.err }

// Write feeds len(p) more bytes into the decoder, driving the HEADER →
// PAYLOAD → HEADER state machine and invoking Callback for every message
// completed along the way. It implements io.Writer; bytes may arrive split
// across arbitrary boundaries, including mid-header or mid-payload.
func (d *Decoder) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		if d.state == stateClosed {
			return total - len(p), d.err
		}
		switch d.state {
		case stateHeader:
			need := HeaderSize - len(d.scratch)
			take := minInt(need, len(p))
			d.scratch = append(d.scratch, p[:take]...)
			p = p[take:]
			if len(d.scratch) < HeaderSize {
				continue
			}
			hdr, err := parseHeader(d.scratch)
			d.scratch = nil
			if err != nil {
				return total - len(p), d.close(err)
			}
			d.header = hdr
			if hdr.Size == 0 {
				d.Callback(hdr.Version, hdr.Type, nil)
				continue
			}
			d.state = statePayload

		case statePayload:
			need := int(d.header.Size) - len(d.scratch)
			take := minInt(need, len(p))
			d.scratch = append(d.scratch, p[:take]...)
			p = p[take:]
			if len(d.scratch) < int(d.header.Size) {
				continue
			}
			payload := d.scratch
			d.scratch = nil
			d.state = stateHeader
			d.Callback(d.header.Version, d.header.Type, payload)
		}
	}
	return total, nil
}

func (d *Decoder) close(err error) error {
	d.state = stateClosed
	d.err = err
	return err
}

func parseHeader(b []byte) (Header, error) {
	var magic [7]byte
	copy(magic[:], b[0:7])
	if magic != Magic {
		return Header{}, fmt.Errorf("ipc: bad magic %q", magic[:])
	}
	version := b[7]
	if version != Version {
		return Header{}, fmt.Errorf("ipc: unsupported version %d", version)
	}
	size := binary.LittleEndian.Uint32(b[8:12])
	if size > MaxPayloadSize {
		return Header{}, fmt.Errorf("ipc: payload size %d exceeds %d byte limit", size, MaxPayloadSize)
	}
	return Header{Version: version, Size: size, Type: Type(b[12])}, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
