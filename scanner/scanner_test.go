package scanner

import (
	"bytes"
	"io"
	"testing"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/recovery"
)

// rec builds one wire record: u16 total length, u16 code, payload.
func rec(code RecordType, payload ...byte) []byte {
	total := 4 + len(payload)
	out := []byte{byte(total >> 8), byte(total), byte(code >> 8), byte(code)}
	return append(out, payload...)
}

func newTestScanner(t *testing.T, data []byte, cfg Config) Scanner {
	t.Helper()
	cur, err := NewCursor(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(cur.Close)
	return New(cur, cfg)
}

func nextRecord(t *testing.T, s Scanner) Record {
	t.Helper()
	r, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestScanner_WalksRecords(t *testing.T) {
	data := bytes.Join([][]byte{
		rec(TypeHeader, 0x00, 0x03),
		rec(TypeLibName, 'L', 'I', 'B', 0x00),
		rec(TypeEndLib),
	}, nil)
	s := newTestScanner(t, data, Config{})

	r := nextRecord(t, s)
	if r.Type != TypeHeader || r.Pos != 0 || len(r.Data) != 2 {
		t.Fatalf("unexpected first record: %+v", r)
	}
	if v, ok := r.Uint16(); !ok || v != 3 {
		t.Fatalf("HEADER payload = %d, %v; want 3", v, ok)
	}

	r = nextRecord(t, s)
	if r.Type != TypeLibName || r.Pos != 6 {
		t.Fatalf("unexpected second record: %+v", r)
	}
	if got := r.ASCII(); got != "LIB" {
		t.Fatalf("ASCII = %q, want %q (trailing NUL stripped)", got, "LIB")
	}

	r = nextRecord(t, s)
	if r.Type != TypeEndLib || len(r.Data) != 0 {
		t.Fatalf("unexpected third record: %+v", r)
	}

	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end, got %v", err)
	}
}

func TestScanner_HeaderRoundTrip(t *testing.T) {
	// Total length 12 and code 0x0206 decode back to the same code and
	// an 8-byte payload.
	data := rec(TypeLibName, 'A', 'B', 'C', 'D', 'E', 'F', 'G', 0x00)
	if len(data) != 12 {
		t.Fatalf("fixture length = %d, want 12", len(data))
	}
	s := newTestScanner(t, data, Config{})
	r := nextRecord(t, s)
	if r.Type != 0x0206 || len(r.Data) != 8 {
		t.Fatalf("decoded code %#04x payload %d, want 0x0206/8", uint16(r.Type), len(r.Data))
	}
}

func TestScanner_HeaderTooShort(t *testing.T) {
	// Declared total length 3 is below the 4-byte header.
	s := newTestScanner(t, []byte{0x00, 0x03, 0x00, 0x02}, Config{})
	_, err := s.Next()
	fe, ok := err.(*FormatError)
	if !ok {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	if fe.Offset != 0 {
		t.Fatalf("Offset = %d, want 0", fe.Offset)
	}
}

func TestScanner_TruncatedPayload(t *testing.T) {
	// Declares 8 payload bytes, supplies 2.
	data := []byte{0x00, 0x0c, 0x02, 0x06, 'A', 'B'}
	s := newTestScanner(t, data, Config{})
	if _, err := s.Next(); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

func TestScanner_TruncatedHeader(t *testing.T) {
	s := newTestScanner(t, []byte{0x00, 0x06, 0x02}, Config{})
	if _, err := s.Next(); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestScanner_MaxRecordSize(t *testing.T) {
	data := rec(TypeString, make([]byte, 64)...)
	s := newTestScanner(t, data, Config{MaxRecordSize: 16})
	if _, err := s.Next(); err == nil {
		t.Fatal("expected oversized record to be rejected")
	}
}

func TestScanner_RecoverySkip(t *testing.T) {
	lenient := recovery.NewLenientStrategy()
	s := newTestScanner(t, []byte{0x00, 0x01, 0x00, 0x02}, Config{Recovery: lenient})
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("lenient scan should stop with io.EOF, got %v", err)
	}
	if len(lenient.Errors) != 1 {
		t.Fatalf("collected %d errors, want 1", len(lenient.Errors))
	}
}

func TestScanner_Seek(t *testing.T) {
	data := bytes.Join([][]byte{
		rec(TypeHeader, 0x00, 0x03),
		rec(TypeEndLib),
	}, nil)
	s := newTestScanner(t, data, Config{})
	nextRecord(t, s)
	r := nextRecord(t, s)
	if r.Type != TypeEndLib {
		t.Fatalf("unexpected record: %+v", r)
	}
	if err := s.Seek(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r = nextRecord(t, s); r.Type != TypeHeader {
		t.Fatalf("expected HEADER after rewind, got %+v", r)
	}
}

func TestRecordType_KindFormat(t *testing.T) {
	if TypeXY.Kind() != 0x10 || TypeXY.Format() != FormatInt32 {
		t.Fatalf("XY kind/format = %#x/%d", TypeXY.Kind(), TypeXY.Format())
	}
	if TypeLibName.Format() != FormatASCII {
		t.Fatalf("LIBNAME format = %d", TypeLibName.Format())
	}
	if got := TypeBoundary.String(); got != "BOUNDARY" {
		t.Fatalf("String = %q", got)
	}
	if got := RecordType(0xbeef).String(); got != "0xbeef" {
		t.Fatalf("String = %q", got)
	}
}

func TestRecord_Decoders(t *testing.T) {
	r := Record{Data: []byte{0xff, 0xfe, 0x00, 0x01}}
	v16 := r.Int16s()
	if len(v16) != 2 || v16[0] != -2 || v16[1] != 1 {
		t.Fatalf("Int16s = %v", v16)
	}
	v32 := r.Int32s()
	if len(v32) != 1 || v32[0] != -131071 {
		t.Fatalf("Int32s = %v", v32)
	}
}
