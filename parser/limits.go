package parser

// Limits bounds what a single structure may materialize. Zero fields
// fall back to the defaults.
type Limits struct {
	MaxElementsPerStructure int
	MaxVerticesPerElement   int
	MaxPolygonsPerElement   int
	MaxPropertiesPerElement int
	MaxNameLen              int
	MaxTextLen              int
	MaxRecordSize           int64
}

// DefaultLimits returns the bounds used when a Limits field is zero.
func DefaultLimits() Limits {
	return Limits{
		MaxElementsPerStructure: 10000,
		MaxVerticesPerElement:   8192,
		MaxPolygonsPerElement:   100,
		MaxPropertiesPerElement: 50,
		MaxNameLen:              256,
		MaxTextLen:              512,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxElementsPerStructure == 0 {
		l.MaxElementsPerStructure = d.MaxElementsPerStructure
	}
	if l.MaxVerticesPerElement == 0 {
		l.MaxVerticesPerElement = d.MaxVerticesPerElement
	}
	if l.MaxPolygonsPerElement == 0 {
		l.MaxPolygonsPerElement = d.MaxPolygonsPerElement
	}
	if l.MaxPropertiesPerElement == 0 {
		l.MaxPropertiesPerElement = d.MaxPropertiesPerElement
	}
	if l.MaxNameLen == 0 {
		l.MaxNameLen = d.MaxNameLen
	}
	if l.MaxTextLen == 0 {
		l.MaxTextLen = d.MaxTextLen
	}
	return l
}
