package ipc

import "encoding/binary"

// Encode returns the complete wire message for a (type, payload) pair:
// the 13-byte header followed by payload verbatim.
func Encode(t Type, payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	copy(buf[0:7], Magic[:])
	buf[7] = Version
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(payload)))
	buf[12] = byte(t)
	copy(buf[HeaderSize:], payload)
	return buf
}
