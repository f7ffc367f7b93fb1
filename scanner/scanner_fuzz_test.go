package scanner

import (
	"io"
	"testing"
)

// FuzzScanner feeds arbitrary bytes through the record walk. Whatever
// the input, the scanner must terminate, never panic, and never hand
// out a record extending past the buffer.
func FuzzScanner(f *testing.F) {
	f.Add([]byte{0x00, 0x06, 0x00, 0x02, 0x00, 0x03})
	f.Add([]byte{0x00, 0x04, 0x04, 0x00})
	f.Add([]byte{0x00, 0x03, 0x00, 0x02})
	f.Add([]byte{0xff, 0xff, 0x10, 0x03})
	f.Add([]byte{0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		cur, err := NewCursor(data)
		if err != nil {
			return
		}
		defer cur.Close()
		s := New(cur, Config{})
		for i := 0; i < len(data)+1; i++ {
			rec, err := s.Next()
			if err != nil {
				if err != io.EOF {
					if _, ok := err.(*FormatError); !ok {
						t.Fatalf("unexpected error type %T: %v", err, err)
					}
				}
				return
			}
			if rec.Pos < 0 || rec.Pos+4+int64(len(rec.Data)) > int64(len(data)) {
				t.Fatalf("record escapes buffer: pos=%d len=%d buf=%d", rec.Pos, len(rec.Data), len(data))
			}
		}
		t.Fatal("scanner failed to terminate")
	})
}

// FuzzDecodeReal8 checks the float decoder never panics and maps a
// zero mantissa to exactly zero.
func FuzzDecodeReal8(f *testing.F) {
	f.Add([]byte{0x41, 0x10, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{0xc1, 0x10, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) < 8 {
			return
		}
		var b [8]byte
		copy(b[:], data)
		v := DecodeReal8(b)
		mantZero := b[1]|b[2]|b[3]|b[4]|b[5]|b[6]|b[7] == 0
		if mantZero && v != 0 {
			t.Fatalf("zero mantissa decoded to %g", v)
		}
	})
}
