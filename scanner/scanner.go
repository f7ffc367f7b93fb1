package scanner

import (
	"fmt"
	"io"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/recovery"
)

// FormatError describes a structural violation of the stream at a byte
// offset. It satisfies errors.As for callers that want the offset.
type FormatError struct {
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Offset)
}

// Scanner iterates over the records of a stream.
type Scanner interface {
	// Next returns the next record, io.EOF at the end of the buffer,
	// or a *FormatError on a malformed header.
	Next() (Record, error)
	// Position returns the byte offset of the next record header.
	Position() int64
	// Seek repositions the scanner at an absolute byte offset.
	Seek(offset int64) error
}

// Config bounds the scanner and supplies a recovery strategy consulted
// when a malformed record is hit.
type Config struct {
	// MaxRecordSize rejects records whose declared total length exceeds
	// it. Zero means no limit beyond the buffer itself.
	MaxRecordSize int64
	Recovery      recovery.Strategy
}

// recordScanner walks whole records over a Cursor. Progress is
// guaranteed: every accepted record advances the position by its
// declared total length, which is at least 4.
type recordScanner struct {
	cur    *Cursor
	cfg    Config
	recLoc recovery.Location
}

// New returns a scanner over an open cursor. The scanner does not own
// the cursor; closing is the caller's job.
func New(cur *Cursor, cfg Config) Scanner {
	return &recordScanner{cur: cur, cfg: cfg}
}

func (s *recordScanner) Position() int64 { return s.cur.Tell() }

func (s *recordScanner) Seek(offset int64) error {
	return s.cur.Seek(offset, SeekStart)
}

// SetRecoveryLocation attaches context (structure name etc.) reported
// to the recovery strategy on errors.
func (s *recordScanner) SetRecoveryLocation(loc recovery.Location) { s.recLoc = loc }

func (s *recordScanner) Next() (Record, error) {
	pos := s.cur.Tell()
	if pos < 0 {
		return Record{}, ErrClosed
	}
	if s.cur.Remaining() == 0 {
		return Record{}, io.EOF
	}
	total, ok := s.cur.Uint16()
	if !ok {
		return Record{}, s.fail(pos, "truncated record header")
	}
	code, ok := s.cur.Uint16()
	if !ok {
		return Record{}, s.fail(pos, "truncated record header")
	}
	if total < 4 {
		return Record{}, s.fail(pos, fmt.Sprintf("record length %d below header size", total))
	}
	if s.cfg.MaxRecordSize > 0 && int64(total) > s.cfg.MaxRecordSize {
		return Record{}, s.fail(pos, fmt.Sprintf("record length %d exceeds limit", total))
	}
	payload := int64(total) - 4
	if payload > s.cur.Remaining() {
		return Record{}, s.fail(pos, "truncated record")
	}
	rec := Record{Type: RecordType(code), Pos: pos}
	if payload > 0 {
		rec.Data = make([]byte, payload)
		s.cur.Read(rec.Data)
	}
	return rec, nil
}

// fail reports a format error through the recovery strategy. The
// strategy can downgrade it (skip/warn have collected it already), but
// the record itself is unusable either way, so the error is returned
// unless the strategy asks to skip.
func (s *recordScanner) fail(pos int64, reason string) error {
	err := &FormatError{Offset: pos, Reason: reason}
	if s.cfg.Recovery == nil {
		return err
	}
	loc := s.recLoc
	loc.ByteOffset = pos
	if loc.Component == "" {
		loc.Component = "scanner"
	}
	switch s.cfg.Recovery.OnError(nil, err, loc) {
	case recovery.ActionSkip:
		return io.EOF
	default:
		return err
	}
}
