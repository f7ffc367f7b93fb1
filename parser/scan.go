package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/observability"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/scanner"
)

// Scan builds the structure table: one pass over the top-level records
// recording each structure's name, timestamps and byte span, without
// decoding any element. Structures appear in file order; duplicate
// names are kept. Scan is idempotent.
func (l *Library) Scan() error {
	if l == nil || l.closed {
		return ErrClosed
	}
	if l.scanned {
		return nil
	}
	_, span := l.cfg.Tracer.StartSpan(context.Background(), "library.scan")
	defer span.Finish()

	if err := l.scn.Seek(l.body); err != nil {
		span.SetError(err)
		return err
	}
	for {
		rec, err := l.scn.Next()
		if err == io.EOF {
			// A library is supposed to end with ENDLIB, but a scan that
			// reached the end of the buffer has still seen every
			// structure there is.
			break
		}
		if err != nil {
			span.SetError(err)
			return err
		}
		switch rec.Type {
		case scanner.TypeEndLib:
			l.scanned = true
			l.logScan()
			return nil
		case scanner.TypeBgnStr:
			resume, err := l.scanStructure(rec)
			if err != nil {
				if !l.skip(err, "", "scan", rec.Pos) {
					span.SetError(err)
					return err
				}
				l.cfg.Logger.Warn("structure dropped during scan",
					observability.Error("error", err))
				// Resume at the record that cut the structure short so
				// the structures after it are still found.
				if serr := l.scn.Seek(resume); serr != nil {
					span.SetError(serr)
					return serr
				}
			}
		default:
			// Records between structures carry no geometry.
		}
	}
	l.scanned = true
	l.logScan()
	return nil
}

// scanStructure records one structure's header and skips to its
// ENDSTR. bgn is the already-consumed BGNSTR record. On failure the
// returned offset is where a lenient scan can pick up again.
func (l *Library) scanStructure(bgn scanner.Record) (resume int64, err error) {
	s := &Structure{lib: l}
	var ok bool
	if s.created, s.modified, ok = decodeTimestamps(bgn); !ok {
		return l.scn.Position(), formatErr(bgn.Pos, "BGNSTR payload too short")
	}
	rec, err := l.next()
	if err != nil {
		return l.scn.Position(), err
	}
	if rec.Type != scanner.TypeStrName {
		return rec.Pos, formatErr(rec.Pos, fmt.Sprintf("expected STRNAME, found %s", rec.Type))
	}
	s.name = rec.ASCII()
	if len(s.name) > l.cfg.Limits.MaxNameLen {
		return l.scn.Position(), &LimitError{What: "structure name length", Max: l.cfg.Limits.MaxNameLen}
	}
	s.offset = l.scn.Position()
	for {
		rec, err = l.scn.Next()
		if err == io.EOF {
			return l.scn.Position(), formatErr(l.scn.Position(), fmt.Sprintf("structure %q not terminated", s.name))
		}
		if err != nil {
			return l.scn.Position(), err
		}
		switch rec.Type {
		case scanner.TypeEndStr:
			s.length = rec.Pos - s.offset
			l.structures = append(l.structures, s)
			return l.scn.Position(), nil
		case scanner.TypeBgnStr, scanner.TypeEndLib:
			// A structure cut short by the next BGNSTR or by ENDLIB;
			// resuming at that record keeps the rest of the file
			// scannable.
			return rec.Pos, formatErr(rec.Pos, fmt.Sprintf("structure %q not terminated", s.name))
		}
	}
}

func (l *Library) logScan() {
	l.cfg.Logger.Debug("structure table scanned",
		observability.String("library", l.name),
		observability.Int("structures", len(l.structures)))
}
