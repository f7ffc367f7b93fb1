package parser

import (
	"errors"
	"fmt"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/ir"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/observability"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/recovery"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/scanner"
)

// Library is an opened layout library. It holds the decoded header
// fields, the structure table built by Scan, and the cursor used for
// lazy element materialization. A Library is single-threaded: calls
// must not overlap.
type Library struct {
	cfg Config
	cur *scanner.Cursor
	scn scanner.Scanner

	name      string
	version   uint16
	created   ir.Timestamp
	modified  ir.Timestamp
	userUnit  float64
	meterUnit float64

	// body is the byte offset of the first record after UNITS.
	body int64

	scanned    bool
	closed     bool
	structures []*Structure
}

// Structure is one named cell of a library. After Scan it carries only
// its name, timestamps and byte span; Elements materializes its
// contents on first call.
type Structure struct {
	lib      *Library
	name     string
	created  ir.Timestamp
	modified ir.Timestamp

	// offset/length span the element records between STRNAME and
	// ENDSTR.
	offset int64
	length int64

	parsed   bool
	elements []*ir.Element
}

// Name returns the structure name from its STRNAME record.
func (s *Structure) Name() string { return s.name }

// Created returns the structure creation time from BGNSTR.
func (s *Structure) Created() ir.Timestamp { return s.created }

// Modified returns the structure modification time from BGNSTR.
func (s *Structure) Modified() ir.Timestamp { return s.modified }

// Span returns the byte offset and length of the structure's element
// records within the library buffer.
func (s *Structure) Span() (offset, length int64) { return s.offset, s.length }

// Parsed reports whether the structure's elements have been
// materialized.
func (s *Structure) Parsed() bool { return s.parsed }

// Elements materializes and returns the structure's elements. The
// first successful call parses; later calls return the same slice. On
// a parse failure the structure stays unparsed and the error is
// returned; other structures are unaffected.
func (s *Structure) Elements() ([]*ir.Element, error) {
	if s.lib == nil || s.lib.closed {
		return nil, ErrClosed
	}
	if s.parsed {
		return s.elements, nil
	}
	elems, err := s.lib.parseStructure(s)
	if err != nil {
		return nil, err
	}
	s.elements = elems
	s.parsed = true
	return elems, nil
}

// Name returns the library name from its LIBNAME record.
func (l *Library) Name() string { return l.name }

// Version returns the format version from the HEADER record.
func (l *Library) Version() uint16 { return l.version }

// Created returns the library creation time from BGNLIB.
func (l *Library) Created() ir.Timestamp { return l.created }

// Modified returns the library modification time from BGNLIB.
func (l *Library) Modified() ir.Timestamp { return l.modified }

// UserUnit returns the database-unit size in user units.
func (l *Library) UserUnit() float64 { return l.userUnit }

// MeterUnit returns the database-unit size in meters.
func (l *Library) MeterUnit() float64 { return l.meterUnit }

// StructureCount returns the number of structures found by Scan, or
// zero before Scan.
func (l *Library) StructureCount() int { return len(l.structures) }

// Structures returns the structure table in file order. The slice is
// shared; callers must not modify it.
func (l *Library) Structures() []*Structure { return l.structures }

// Structure returns the i-th structure in file order.
func (l *Library) Structure(i int) (*Structure, error) {
	if l == nil || l.closed {
		return nil, ErrClosed
	}
	if !l.scanned {
		return nil, ErrNotScanned
	}
	if i < 0 || i >= len(l.structures) {
		return nil, indexErr("structure", i, len(l.structures))
	}
	return l.structures[i], nil
}

// StructureName returns the name of the i-th structure.
func (l *Library) StructureName(i int) (string, error) {
	s, err := l.Structure(i)
	if err != nil {
		return "", err
	}
	return s.name, nil
}

// FindStructure returns the first structure with the given name.
func (l *Library) FindStructure(name string) (*Structure, bool) {
	for _, s := range l.structures {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// ParseElements materializes the i-th structure and returns its
// elements.
func (l *Library) ParseElements(i int) ([]*ir.Element, error) {
	s, err := l.Structure(i)
	if err != nil {
		return nil, err
	}
	return s.Elements()
}

// ParseAll materializes every structure. With a lenient recovery
// strategy, structures that fail to parse are skipped and the first
// pass continues; without one, the first failure is returned.
func (l *Library) ParseAll() error {
	if l == nil || l.closed {
		return ErrClosed
	}
	if !l.scanned {
		return ErrNotScanned
	}
	for _, s := range l.structures {
		if s.parsed {
			continue
		}
		if _, err := s.Elements(); err != nil {
			if l.skip(err, s.name, "elements", s.offset) {
				l.cfg.Logger.Warn("structure skipped",
					observability.String("structure", s.name),
					observability.Error("error", err))
				continue
			}
			return err
		}
	}
	return nil
}

// Validate materializes every structure and checks that each SREF and
// AREF names a structure present in the library. All violations are
// collected and returned joined.
func (l *Library) Validate() error {
	if err := l.ParseAll(); err != nil {
		return err
	}
	known := make(map[string]bool, len(l.structures))
	for _, s := range l.structures {
		known[s.name] = true
	}
	var errs []error
	for _, s := range l.structures {
		for _, el := range s.elements {
			var target string
			switch p := el.Payload.(type) {
			case *ir.SRefPayload:
				target = p.Name
			case *ir.ARefPayload:
				target = p.Name
			default:
				continue
			}
			if !known[target] {
				errs = append(errs, fmt.Errorf("structure %q references undefined structure %q", s.name, target))
			}
		}
	}
	return errors.Join(errs...)
}

// Stats summarizes an opened library.
type Stats struct {
	Structures  int
	Elements    int
	Vertices    int
	MemoryUsage int64
}

// Stats counts structures, materialized elements and vertices, and
// estimates resident memory: the borrowed buffer plus the decoded
// element data.
func (l *Library) Stats() Stats {
	st := Stats{Structures: len(l.structures), MemoryUsage: l.cur.Size()}
	for _, s := range l.structures {
		if !s.parsed {
			continue
		}
		st.Elements += len(s.elements)
		for _, el := range s.elements {
			v := el.VertexCount()
			st.Vertices += v
			st.MemoryUsage += int64(v)*8 + 112
			for _, p := range el.Properties {
				st.MemoryUsage += int64(len(p.Value)) + 16
			}
		}
	}
	return st
}

// Close releases the library's cursor. Safe on nil and safe to call
// twice; the caller-owned buffer itself is never touched.
func (l *Library) Close() {
	if l == nil || l.closed {
		return
	}
	l.closed = true
	l.cur.Close()
}

// skip consults the recovery strategy for an error at a location and
// reports whether parsing should continue without it.
func (l *Library) skip(err error, structure, component string, offset int64) bool {
	if l.cfg.Recovery == nil {
		return false
	}
	action := l.cfg.Recovery.OnError(nil, err, recovery.Location{
		ByteOffset: offset,
		Structure:  structure,
		Component:  component,
	})
	return action == recovery.ActionSkip || action == recovery.ActionWarn
}
