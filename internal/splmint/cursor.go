package splmint

import "encoding/binary"

// cursor reads little-endian fields from an untrusted byte buffer.
// Every read is bounds-checked and reports (value, ok) instead of indexing
// directly, so a malformed length field can never cause an out-of-bounds
// access.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) u8() (uint8, bool) {
	if c.off+1 > len(c.buf) {
		return 0, false
	}
	v := c.buf[c.off]
	c.off++
	return v, true
}

func (c *cursor) u16() (uint16, bool) {
	if c.off+2 > len(c.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, true
}

func (c *cursor) u32() (uint32, bool) {
	if c.off+4 > len(c.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, true
}

func (c *cursor) u64() (uint64, bool) {
	if c.off+8 > len(c.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, true
}

// bytes slices exactly n bytes. The returned slice aliases the buffer.
func (c *cursor) bytes(n int) ([]byte, bool) {
	if n < 0 || c.off+n > len(c.buf) {
		return nil, false
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, true
}

// skip advances past n bytes without reading them.
func (c *cursor) skip(n int) bool {
	if n < 0 || c.off+n > len(c.buf) {
		return false
	}
	c.off += n
	return true
}

// pubkey reads a 32-byte public key.
func (c *cursor) pubkey() ([]byte, bool) {
	return c.bytes(32)
}
