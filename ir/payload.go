package ir

// Payload is the kind-specific part of an element. Exactly one variant
// exists per kind, so access is always checked against the kind tag
// rather than read through an untyped union.
type Payload interface {
	Kind() ElementKind
}

// BoundaryPayload has no fields beyond the shared element data; the
// variant exists so a Boundary element's payload is never nil.
type BoundaryPayload struct{}

func (*BoundaryPayload) Kind() ElementKind { return KindBoundary }

// PathPayload carries width and end-cap data. Width and the two cap
// extensions are in database units; negative width means absolute.
type PathPayload struct {
	PathType  uint16
	Width     int32
	BeginExtn int32
	EndExtn   int32
}

func (*PathPayload) Kind() ElementKind { return KindPath }

// BoxPayload carries the box type word.
type BoxPayload struct {
	BoxType uint16
}

func (*BoxPayload) Kind() ElementKind { return KindBox }

// NodePayload carries the node type word.
type NodePayload struct {
	NodeType uint16
}

func (*NodePayload) Kind() ElementKind { return KindNode }

// TextPayload carries the annotation string, its single placement
// point and the presentation word (font and justification bits).
type TextPayload struct {
	TextType     uint16
	Presentation uint16
	Origin       Point
	Value        string
}

func (*TextPayload) Kind() ElementKind { return KindText }

// SRefPayload places one instance of a named structure.
type SRefPayload struct {
	Name   string
	Origin Point
}

func (*SRefPayload) Kind() ElementKind { return KindSRef }

// ARefPayload places a column×row array of a named structure. Corners
// are the three placement points from the stream: origin, the column
// displacement endpoint and the row displacement endpoint.
type ARefPayload struct {
	Name    string
	Columns int16
	Rows    int16
	Corners [3]Point
}

func (*ARefPayload) Kind() ElementKind { return KindARef }
