// Package ir holds the in-memory model a decoded layout library is
// materialized into: structures of typed elements with geometry in
// database units, per-kind payloads, and property lists.
package ir

import "fmt"

// ElementKind tags one geometric or annotation object kind.
type ElementKind int

const (
	KindBoundary ElementKind = iota
	KindPath
	KindBox
	KindNode
	KindText
	KindSRef
	KindARef
)

func (k ElementKind) String() string {
	switch k {
	case KindBoundary:
		return "boundary"
	case KindPath:
		return "path"
	case KindBox:
		return "box"
	case KindNode:
		return "node"
	case KindText:
		return "text"
	case KindSRef:
		return "sref"
	case KindARef:
		return "aref"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Point is one vertex in database units.
type Point struct {
	X, Y int32
}

// Polygon is an ordered vertex list. Boundary and Box carry one closed
// polygon (first and last vertex equal, per format convention), Path
// one open polyline, Node one discrete point list.
type Polygon []Point

// Timestamp is the format's 6-word date: year, month, day, hour,
// minute, second.
type Timestamp struct {
	Year, Month, Day     uint16
	Hour, Minute, Second uint16
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// Transform flag bits from the STRANS word.
const (
	TransformReflect       = 0x8000
	TransformAbsoluteMag   = 0x0004
	TransformAbsoluteAngle = 0x0002
)

// Transform carries the optional placement transform of Text, SRef and
// ARef elements. Magnification defaults to 1 and Angle to 0 when the
// stream omits the records.
type Transform struct {
	Flags         uint16
	Magnification float64
	Angle         float64
}

// Identity is the transform applied when no STRANS record is present.
func Identity() Transform { return Transform{Magnification: 1} }

func (t Transform) Reflected() bool     { return t.Flags&TransformReflect != 0 }
func (t Transform) AbsoluteMag() bool   { return t.Flags&TransformAbsoluteMag != 0 }
func (t Transform) AbsoluteAngle() bool { return t.Flags&TransformAbsoluteAngle != 0 }

// Property is one attribute/value annotation pair.
type Property struct {
	Attr  uint16
	Value string
}

// Element is one decoded object. Geometry, payload, properties and
// bounds are computed once, when the owning structure is parsed, and
// never mutated afterwards.
type Element struct {
	Kind       ElementKind
	Layer      uint16
	Datatype   uint16
	ElFlags    uint16
	Plex       int32
	Polygons   []Polygon
	Transform  Transform
	Properties []Property
	Bounds     BBox
	Payload    Payload
}

// VertexCount sums the vertices across the element's polygons.
func (e *Element) VertexCount() int {
	n := 0
	for _, p := range e.Polygons {
		n += len(p)
	}
	return n
}

// Path returns the path payload, or nil for other kinds.
func (e *Element) Path() *PathPayload {
	p, _ := e.Payload.(*PathPayload)
	return p
}

// Text returns the text payload, or nil for other kinds.
func (e *Element) Text() *TextPayload {
	p, _ := e.Payload.(*TextPayload)
	return p
}

// SRef returns the single-reference payload, or nil for other kinds.
func (e *Element) SRef() *SRefPayload {
	p, _ := e.Payload.(*SRefPayload)
	return p
}

// ARef returns the array-reference payload, or nil for other kinds.
func (e *Element) ARef() *ARefPayload {
	p, _ := e.Payload.(*ARefPayload)
	return p
}
