package ir

import "testing"

func TestBBox_Fold(t *testing.T) {
	var b BBox
	if b.Valid() {
		t.Fatal("zero BBox must be invalid")
	}
	b.Add(Point{X: 10, Y: -5})
	if !b.Valid() || b.MinX != 10 || b.MaxX != 10 || b.MinY != -5 || b.MaxY != -5 {
		t.Fatalf("after first point: %+v", b)
	}
	b.Add(Point{X: -20, Y: 30})
	if b.MinX != -20 || b.MaxX != 10 || b.MinY != -5 || b.MaxY != 30 {
		t.Fatalf("after second point: %+v", b)
	}
	if b.Width() != 30 || b.Height() != 35 {
		t.Fatalf("Width/Height = %d/%d", b.Width(), b.Height())
	}
}

func TestBBox_ExtremeCoordinates(t *testing.T) {
	var b BBox
	b.Add(Point{X: -2147483648, Y: -2147483648})
	b.Add(Point{X: 2147483647, Y: 2147483647})
	if b.Width() != 4294967295 || b.Height() != 4294967295 {
		t.Fatalf("Width/Height overflowed: %d/%d", b.Width(), b.Height())
	}
}

func TestBBox_Union(t *testing.T) {
	var a, b, empty BBox
	a.AddPolygon(Polygon{{0, 0}, {10, 10}})
	b.AddPolygon(Polygon{{-5, 20}, {5, 25}})

	a.Union(b)
	if a.MinX != -5 || a.MaxX != 10 || a.MinY != 0 || a.MaxY != 25 {
		t.Fatalf("after union: %+v", a)
	}
	before := a
	a.Union(empty)
	if a != before {
		t.Fatal("union with empty box must be a no-op")
	}
}

func TestElement_VertexCount(t *testing.T) {
	el := &Element{Polygons: []Polygon{
		{{0, 0}, {1, 0}, {1, 1}},
		{{2, 2}, {3, 3}},
	}}
	if el.VertexCount() != 5 {
		t.Fatalf("VertexCount = %d, want 5", el.VertexCount())
	}
}

func TestTransform_Flags(t *testing.T) {
	tr := Identity()
	if tr.Magnification != 1 || tr.Reflected() {
		t.Fatalf("Identity = %+v", tr)
	}
	tr.Flags = TransformReflect | TransformAbsoluteAngle
	if !tr.Reflected() || !tr.AbsoluteAngle() || tr.AbsoluteMag() {
		t.Fatalf("flag predicates wrong for %#x", tr.Flags)
	}
}
