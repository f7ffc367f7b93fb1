// Package parser decodes hierarchical binary layout libraries. A
// library is opened in three stages: Parse validates the preamble and
// captures the library header, Scan enumerates the structures without
// touching their contents, and element data is materialized per
// structure on first access. Malformed input is reported as errors
// with byte offsets; it never panics, whatever the bytes look like.
package parser

import (
	"fmt"
	"io"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/ir"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/observability"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/recovery"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/scanner"
)

// Config controls parsing behavior.
type Config struct {
	// Limits bounds per-structure materialization; zero fields use
	// DefaultLimits.
	Limits Limits
	// Recovery decides whether malformed structures abort the whole
	// parse or are skipped. Nil means strict.
	Recovery recovery.Strategy
	// Logger receives parse progress and downgraded errors. Nil means
	// no logging.
	Logger observability.Logger
	// Tracer receives spans around scan and element materialization.
	Tracer observability.Tracer
}

func (c Config) withDefaults() Config {
	c.Limits = c.Limits.withDefaults()
	if c.Logger == nil {
		c.Logger = observability.NopLogger{}
	}
	if c.Tracer == nil {
		c.Tracer = observability.NopTracer()
	}
	return c
}

// LibraryParser opens libraries from in-memory buffers.
type LibraryParser struct {
	cfg Config
}

// New returns a parser with the given configuration.
func New(cfg Config) *LibraryParser {
	return &LibraryParser{cfg: cfg.withDefaults()}
}

// Parse opens a library with default configuration and scans its
// structure table.
func Parse(data []byte) (*Library, error) {
	lib, err := New(Config{}).Parse(data)
	if err != nil {
		return nil, err
	}
	if err := lib.Scan(); err != nil {
		lib.Close()
		return nil, err
	}
	return lib, nil
}

// Parse validates the library preamble of data and returns a Library
// positioned before its first structure. The buffer is borrowed, not
// copied; it must stay alive and unmodified until Close. On any
// preamble violation no Library is returned.
func (p *LibraryParser) Parse(data []byte) (*Library, error) {
	if len(data) == 0 {
		return nil, &InputError{Reason: "nil or empty buffer"}
	}
	cur, err := scanner.NewCursor(data)
	if err != nil {
		return nil, &InputError{Reason: err.Error()}
	}
	scn := scanner.New(cur, scanner.Config{
		MaxRecordSize: p.cfg.Limits.MaxRecordSize,
		Recovery:      p.cfg.Recovery,
	})
	lib := &Library{cfg: p.cfg, cur: cur, scn: scn}
	if err := lib.readPreamble(); err != nil {
		cur.Close()
		return nil, err
	}
	p.cfg.Logger.Debug("library preamble decoded",
		observability.String("library", lib.name),
		observability.Int("version", int(lib.version)))
	return lib, nil
}

// readPreamble consumes HEADER, BGNLIB, LIBNAME and UNITS, in that
// order, skipping the optional records allowed between LIBNAME and
// UNITS. Every field it decodes is stored on the library.
func (l *Library) readPreamble() error {
	rec, err := l.next()
	if err != nil {
		return err
	}
	if rec.Type != scanner.TypeHeader {
		return formatErr(rec.Pos, fmt.Sprintf("expected HEADER, found %s", rec.Type))
	}
	v, ok := rec.Uint16()
	if !ok {
		return formatErr(rec.Pos, "HEADER payload too short")
	}
	l.version = v

	rec, err = l.next()
	if err != nil {
		return err
	}
	if rec.Type != scanner.TypeBgnLib {
		return formatErr(rec.Pos, fmt.Sprintf("expected BGNLIB, found %s", rec.Type))
	}
	if l.created, l.modified, ok = decodeTimestamps(rec); !ok {
		return formatErr(rec.Pos, "BGNLIB payload too short")
	}

	rec, err = l.next()
	if err != nil {
		return err
	}
	if rec.Type != scanner.TypeLibName {
		return formatErr(rec.Pos, fmt.Sprintf("expected LIBNAME, found %s", rec.Type))
	}
	l.name = rec.ASCII()
	if len(l.name) > l.cfg.Limits.MaxNameLen {
		return &LimitError{What: "library name length", Max: l.cfg.Limits.MaxNameLen}
	}

	// REFLIBS, FONTS, ATTRTABLE and the like may sit between LIBNAME
	// and UNITS; they carry no geometry and are skipped.
	for {
		rec, err = l.next()
		if err != nil {
			return err
		}
		switch rec.Type {
		case scanner.TypeUnits:
			reals := rec.Real8s()
			if len(reals) < 2 {
				return formatErr(rec.Pos, "UNITS payload too short")
			}
			l.userUnit, l.meterUnit = reals[0], reals[1]
			l.body = l.scn.Position()
			return nil
		case scanner.TypeBgnStr, scanner.TypeEndLib:
			return formatErr(rec.Pos, "missing UNITS record")
		}
	}
}

// next reads one record, mapping end-of-buffer to a format error:
// inside the preamble the stream is never allowed to just stop.
func (l *Library) next() (scanner.Record, error) {
	rec, err := l.scn.Next()
	if err == io.EOF {
		return rec, formatErr(l.scn.Position(), "unexpected end of stream")
	}
	return rec, err
}

// decodeTimestamps splits a 12-word payload into creation and
// modification times.
func decodeTimestamps(rec scanner.Record) (created, modified ir.Timestamp, ok bool) {
	w := rec.Int16s()
	if len(w) < 12 {
		return created, modified, false
	}
	return wordsToTime(w[0:6]), wordsToTime(w[6:12]), true
}

func wordsToTime(w []int16) ir.Timestamp {
	return ir.Timestamp{
		Year:   uint16(w[0]),
		Month:  uint16(w[1]),
		Day:    uint16(w[2]),
		Hour:   uint16(w[3]),
		Minute: uint16(w[4]),
		Second: uint16(w[5]),
	}
}
