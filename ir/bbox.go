package ir

// BBox is the axis-aligned rectangle enclosing an element's vertices,
// in database units.
type BBox struct {
	MinX, MinY int32
	MaxX, MaxY int32
	valid      bool
}

// Add folds one point into the box.
func (b *BBox) Add(p Point) {
	if !b.valid {
		b.MinX, b.MaxX = p.X, p.X
		b.MinY, b.MaxY = p.Y, p.Y
		b.valid = true
		return
	}
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
}

// AddPolygon folds every vertex of p into the box.
func (b *BBox) AddPolygon(p Polygon) {
	for _, pt := range p {
		b.Add(pt)
	}
}

// Union folds another box into this one.
func (b *BBox) Union(o BBox) {
	if !o.valid {
		return
	}
	b.Add(Point{X: o.MinX, Y: o.MinY})
	b.Add(Point{X: o.MaxX, Y: o.MaxY})
}

// Valid reports whether at least one point has been folded in.
func (b BBox) Valid() bool { return b.valid }

// Width returns the horizontal extent in database units.
func (b BBox) Width() int64 { return int64(b.MaxX) - int64(b.MinX) }

// Height returns the vertical extent in database units.
func (b BBox) Height() int64 { return int64(b.MaxY) - int64(b.MinY) }
