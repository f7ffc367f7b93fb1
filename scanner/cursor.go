package scanner

import (
	"errors"
	"math"
)

// Seek origins accepted by Cursor.Seek.
const (
	SeekStart = iota
	SeekCurrent
	SeekEnd
)

var (
	// ErrClosed is returned by operations on a closed cursor.
	ErrClosed = errors.New("cursor closed")
	// ErrSeekRange is returned when a seek target falls outside the buffer.
	ErrSeekRange = errors.New("seek out of range")
)

// Cursor wraps a caller-owned byte range with a read position. It never
// copies or frees the underlying buffer; closing a cursor only detaches
// it. All multi-byte reads are big-endian, matching the stream format.
type Cursor struct {
	data   []byte
	pos    int64
	eof    bool
	failed bool
	closed bool
}

// NewCursor returns a cursor over data. A nil or empty buffer is
// rejected before any parsing can start.
func NewCursor(data []byte) (*Cursor, error) {
	if len(data) == 0 {
		return nil, errors.New("empty buffer")
	}
	return &Cursor{data: data}, nil
}

// Close marks the cursor closed. Safe on nil and safe to call twice;
// the underlying buffer is untouched.
func (c *Cursor) Close() {
	if c == nil {
		return
	}
	c.closed = true
	c.data = nil
}

// Size returns the length of the underlying buffer.
func (c *Cursor) Size() int64 {
	if c == nil {
		return 0
	}
	return int64(len(c.data))
}

// Tell returns the current position, or -1 for a nil/closed cursor.
func (c *Cursor) Tell() int64 {
	if c == nil || c.closed {
		return -1
	}
	return c.pos
}

// Remaining returns the bytes left between the position and the end.
func (c *Cursor) Remaining() int64 {
	if c == nil || c.closed {
		return 0
	}
	return int64(len(c.data)) - c.pos
}

// EOF reports whether a read has hit the end of the range.
func (c *Cursor) EOF() bool { return c == nil || c.closed || c.eof }

// Failed reports whether a seek has been rejected since the last
// successful one.
func (c *Cursor) Failed() bool { return c != nil && c.failed }

// Read copies up to len(p) bytes from the current position and advances
// it. Short reads at the end of the range set the EOF flag. A nil or
// closed cursor reads zero bytes; Read never panics.
func (c *Cursor) Read(p []byte) int {
	if c == nil || c.closed || len(p) == 0 {
		return 0
	}
	avail := int64(len(c.data)) - c.pos
	if avail <= 0 {
		c.eof = true
		return 0
	}
	n := int64(len(p))
	if n > avail {
		n = avail
		c.eof = true
	}
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return int(n)
}

// Seek moves the position relative to the given origin. The target must
// lie in [0, size]; on failure the position is unchanged and the error
// flag is set. A successful seek clears the EOF flag.
func (c *Cursor) Seek(offset int64, whence int) error {
	if c == nil || c.closed {
		return ErrClosed
	}
	var target int64
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = c.pos + offset
	case SeekEnd:
		target = int64(len(c.data)) + offset
	default:
		c.failed = true
		return ErrSeekRange
	}
	if target < 0 || target > int64(len(c.data)) {
		c.failed = true
		return ErrSeekRange
	}
	c.pos = target
	c.eof = false
	c.failed = false
	return nil
}

// Uint16 reads a big-endian 16-bit value.
func (c *Cursor) Uint16() (uint16, bool) {
	var b [2]byte
	if c.Read(b[:]) != 2 {
		return 0, false
	}
	return uint16(b[0])<<8 | uint16(b[1]), true
}

// Uint32 reads a big-endian 32-bit value.
func (c *Cursor) Uint32() (uint32, bool) {
	var b [4]byte
	if c.Read(b[:]) != 4 {
		return 0, false
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), true
}

// Int32 reads a big-endian signed 32-bit value.
func (c *Cursor) Int32() (int32, bool) {
	v, ok := c.Uint32()
	return int32(v), ok
}

// Real8 reads the stream's 8-byte floating encoding: one sign bit, a
// 7-bit base-16 excess-64 exponent, and a 56-bit mantissa fraction.
// This is not an IEEE-754 bit pattern and must be converted explicitly:
//
//	value = (-1)^sign * (mantissa / 2^56) * 16^(exponent-64)
func (c *Cursor) Real8() (float64, bool) {
	var b [8]byte
	if c.Read(b[:]) != 8 {
		return 0, false
	}
	return DecodeReal8(b), true
}

// DecodeReal8 converts one excess-64 encoded value to an IEEE double.
func DecodeReal8(b [8]byte) float64 {
	exp := int(b[0]&0x7f) - 64
	var mant uint64
	for _, by := range b[1:] {
		mant = mant<<8 | uint64(by)
	}
	if mant == 0 {
		return 0
	}
	// mantissa/2^56 scaled by 16^exp, i.e. 2^(4*exp).
	v := math.Ldexp(float64(mant), 4*exp-56)
	if b[0]&0x80 != 0 {
		return -v
	}
	return v
}
