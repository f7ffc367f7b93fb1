package scanner

import (
	"math"
	"testing"
)

func newCursor(t *testing.T, data []byte) *Cursor {
	t.Helper()
	c, err := NewCursor(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestCursor_RejectsEmptyBuffer(t *testing.T) {
	if _, err := NewCursor(nil); err == nil {
		t.Fatal("expected error for nil buffer")
	}
	if _, err := NewCursor([]byte{}); err == nil {
		t.Fatal("expected error for empty buffer")
	}
}

func TestCursor_BigEndianReads(t *testing.T) {
	c := newCursor(t, []byte{0x12, 0x34, 0x87, 0x65, 0x43, 0x21})

	v16, ok := c.Uint16()
	if !ok || v16 != 0x1234 {
		t.Fatalf("Uint16 = %#x, %v; want 0x1234", v16, ok)
	}
	v32, ok := c.Uint32()
	if !ok || v32 != 0x87654321 {
		t.Fatalf("Uint32 = %#x, %v; want 0x87654321", v32, ok)
	}
	if c.Tell() != 6 {
		t.Fatalf("Tell = %d, want 6", c.Tell())
	}
	if _, ok := c.Uint16(); ok {
		t.Fatal("expected short read past end")
	}
	if !c.EOF() {
		t.Fatal("EOF flag not set after short read")
	}
}

func TestCursor_SignedInt32(t *testing.T) {
	c := newCursor(t, []byte{0xff, 0xff, 0xff, 0xfe})
	v, ok := c.Int32()
	if !ok || v != -2 {
		t.Fatalf("Int32 = %d, %v; want -2", v, ok)
	}
}

func TestCursor_Seek(t *testing.T) {
	c := newCursor(t, []byte{1, 2, 3, 4})

	if err := c.Seek(10, SeekStart); err == nil {
		t.Fatal("expected out-of-range seek to fail")
	}
	if !c.Failed() {
		t.Fatal("error flag not set after failed seek")
	}
	if c.Tell() != 0 {
		t.Fatalf("position moved by failed seek: %d", c.Tell())
	}
	if err := c.Seek(-1, SeekEnd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Failed() {
		t.Fatal("error flag not cleared by successful seek")
	}
	if c.Tell() != 3 {
		t.Fatalf("Tell = %d, want 3", c.Tell())
	}
	var b [4]byte
	if n := c.Read(b[:]); n != 1 {
		t.Fatalf("Read = %d, want 1", n)
	}
	if !c.EOF() {
		t.Fatal("EOF flag not set")
	}
	if err := c.Seek(0, SeekStart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.EOF() {
		t.Fatal("EOF flag not cleared by seek")
	}
}

func TestCursor_Close(t *testing.T) {
	c := newCursor(t, []byte{1, 2})
	c.Close()
	c.Close() // second close is a no-op

	if c.Tell() != -1 {
		t.Fatalf("Tell on closed cursor = %d, want -1", c.Tell())
	}
	var b [2]byte
	if n := c.Read(b[:]); n != 0 {
		t.Fatalf("Read on closed cursor = %d, want 0", n)
	}
	if err := c.Seek(0, SeekStart); err != ErrClosed {
		t.Fatalf("Seek on closed cursor = %v, want ErrClosed", err)
	}

	var nilCur *Cursor
	nilCur.Close() // must not panic
	if nilCur.Tell() != -1 {
		t.Fatal("Tell on nil cursor should be -1")
	}
}

func TestDecodeReal8(t *testing.T) {
	cases := []struct {
		name string
		b    [8]byte
		want float64
	}{
		{"zero", [8]byte{0, 0, 0, 0, 0, 0, 0, 0}, 0},
		{"one", [8]byte{0x41, 0x10, 0, 0, 0, 0, 0, 0}, 1},
		{"minus one", [8]byte{0xc1, 0x10, 0, 0, 0, 0, 0, 0}, -1},
		{"two", [8]byte{0x41, 0x20, 0, 0, 0, 0, 0, 0}, 2},
		{"half", [8]byte{0x40, 0x80, 0, 0, 0, 0, 0, 0}, 0.5},
		{"negative zero mantissa", [8]byte{0xc1, 0, 0, 0, 0, 0, 0, 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeReal8(tc.b); got != tc.want {
				t.Fatalf("DecodeReal8(% x) = %g, want %g", tc.b, got, tc.want)
			}
		})
	}
}

func TestDecodeReal8_DatabaseUnit(t *testing.T) {
	// 0.001, the classic user-unit value: 16^-2 * (0.256) style
	// encodings round-trip within double precision.
	b := [8]byte{0x3e, 0x41, 0x89, 0x37, 0x4b, 0xc6, 0xa7, 0xef}
	got := DecodeReal8(b)
	if math.Abs(got-0.001) > 1e-15 {
		t.Fatalf("DecodeReal8 = %g, want 0.001", got)
	}
}

func TestCursor_Real8(t *testing.T) {
	c := newCursor(t, []byte{0x41, 0x10, 0, 0, 0, 0, 0, 0, 0x41})
	v, ok := c.Real8()
	if !ok || v != 1 {
		t.Fatalf("Real8 = %g, %v; want 1", v, ok)
	}
	if _, ok := c.Real8(); ok {
		t.Fatal("expected short read for truncated real")
	}
}
