package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/ir"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/observability"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/recovery"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/scanner"
)

// locationSetter is implemented by scanners that report errors through
// a recovery strategy and want structure context attached.
type locationSetter interface {
	SetRecoveryLocation(recovery.Location)
}

// parseStructure materializes the elements of one scanned structure.
// Any violation inside the structure aborts only this structure: the
// error carries the offending offset, and the caller leaves the
// structure unparsed.
func (l *Library) parseStructure(s *Structure) ([]*ir.Element, error) {
	_, span := l.cfg.Tracer.StartSpan(context.Background(), "structure.parse")
	span.SetTag("structure", s.name)
	defer span.Finish()

	if ls, ok := l.scn.(locationSetter); ok {
		ls.SetRecoveryLocation(recovery.Location{Structure: s.name, Component: "elements"})
		defer ls.SetRecoveryLocation(recovery.Location{})
	}
	if err := l.scn.Seek(s.offset); err != nil {
		span.SetError(err)
		return nil, err
	}
	var elems []*ir.Element
	for {
		rec, err := l.scn.Next()
		if err == io.EOF {
			err = formatErr(l.scn.Position(), fmt.Sprintf("structure %q truncated", s.name))
		}
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		switch {
		case rec.Type == scanner.TypeEndStr:
			l.cfg.Logger.Debug("structure materialized",
				observability.String("structure", s.name),
				observability.Int("elements", len(elems)))
			return elems, nil
		case rec.IsElementOpener():
			if len(elems) >= l.cfg.Limits.MaxElementsPerStructure {
				err := &LimitError{What: "element count", Max: l.cfg.Limits.MaxElementsPerStructure}
				span.SetError(err)
				return nil, err
			}
			el, err := l.buildElement(rec, s.name)
			if err != nil {
				span.SetError(err)
				return nil, err
			}
			elems = append(elems, el)
		case rec.Type == scanner.TypeBgnStr:
			err := formatErr(rec.Pos, fmt.Sprintf("structure %q not terminated", s.name))
			span.SetError(err)
			return nil, err
		default:
			// Unrecognized records between elements are skipped; the
			// length prefix makes that safe.
		}
	}
}

func elementKind(t scanner.RecordType) ir.ElementKind {
	switch t {
	case scanner.TypeBoundary:
		return ir.KindBoundary
	case scanner.TypePath:
		return ir.KindPath
	case scanner.TypeBox:
		return ir.KindBox
	case scanner.TypeNode:
		return ir.KindNode
	case scanner.TypeText:
		return ir.KindText
	case scanner.TypeSRef:
		return ir.KindSRef
	default:
		return ir.KindARef
	}
}

func emptyPayload(k ir.ElementKind) ir.Payload {
	switch k {
	case ir.KindBoundary:
		return &ir.BoundaryPayload{}
	case ir.KindPath:
		return &ir.PathPayload{}
	case ir.KindBox:
		return &ir.BoxPayload{}
	case ir.KindNode:
		return &ir.NodePayload{}
	case ir.KindText:
		return &ir.TextPayload{}
	case ir.KindSRef:
		return &ir.SRefPayload{}
	default:
		return &ir.ARefPayload{}
	}
}

// buildElement decodes one element block, from its opener record
// through ENDEL.
func (l *Library) buildElement(open scanner.Record, structure string) (*ir.Element, error) {
	el := &ir.Element{
		Kind:      elementKind(open.Type),
		Transform: ir.Identity(),
		Payload:   emptyPayload(elementKind(open.Type)),
	}
	hasAttr := false
	var attr uint16
	for {
		rec, err := l.scn.Next()
		if err == io.EOF {
			err = formatErr(l.scn.Position(), fmt.Sprintf("%s element in %q truncated", el.Kind, structure))
		}
		if err != nil {
			return nil, err
		}
		switch rec.Type {
		case scanner.TypeEndEl:
			if hasAttr {
				return nil, formatErr(rec.Pos, "PROPATTR without PROPVALUE")
			}
			return el, nil
		case scanner.TypeLayer:
			el.Layer, _ = rec.Uint16()
		case scanner.TypeDatatype:
			el.Datatype, _ = rec.Uint16()
		case scanner.TypeElFlags:
			el.ElFlags, _ = rec.Uint16()
		case scanner.TypePlex:
			if v := rec.Int32s(); len(v) > 0 {
				el.Plex = v[0]
			}
		case scanner.TypeXY:
			if err := l.addGeometry(el, rec); err != nil {
				return nil, err
			}
		case scanner.TypeWidth:
			if p := el.Path(); p != nil {
				if v := rec.Int32s(); len(v) > 0 {
					p.Width = v[0]
				}
			}
		case scanner.TypePathType:
			if p := el.Path(); p != nil {
				p.PathType, _ = rec.Uint16()
			}
		case scanner.TypeBgnExtn:
			if p := el.Path(); p != nil {
				if v := rec.Int32s(); len(v) > 0 {
					p.BeginExtn = v[0]
				}
			}
		case scanner.TypeEndExtn:
			if p := el.Path(); p != nil {
				if v := rec.Int32s(); len(v) > 0 {
					p.EndExtn = v[0]
				}
			}
		case scanner.TypeTextType:
			if p := el.Text(); p != nil {
				p.TextType, _ = rec.Uint16()
			}
		case scanner.TypePresentation:
			if p := el.Text(); p != nil {
				p.Presentation, _ = rec.Uint16()
			}
		case scanner.TypeString:
			p := el.Text()
			if p == nil {
				break
			}
			p.Value = rec.ASCII()
			if len(p.Value) > l.cfg.Limits.MaxTextLen {
				return nil, &LimitError{What: "text length", Max: l.cfg.Limits.MaxTextLen}
			}
		case scanner.TypeBoxType:
			if p, ok := el.Payload.(*ir.BoxPayload); ok {
				p.BoxType, _ = rec.Uint16()
			}
		case scanner.TypeNodeType:
			if p, ok := el.Payload.(*ir.NodePayload); ok {
				p.NodeType, _ = rec.Uint16()
			}
		case scanner.TypeSName:
			name := rec.ASCII()
			if len(name) > l.cfg.Limits.MaxNameLen {
				return nil, &LimitError{What: "reference name length", Max: l.cfg.Limits.MaxNameLen}
			}
			switch p := el.Payload.(type) {
			case *ir.SRefPayload:
				p.Name = name
			case *ir.ARefPayload:
				p.Name = name
			}
		case scanner.TypeColRow:
			p, ok := el.Payload.(*ir.ARefPayload)
			if !ok {
				break
			}
			v := rec.Int16s()
			if len(v) < 2 {
				return nil, formatErr(rec.Pos, "COLROW payload too short")
			}
			p.Columns, p.Rows = v[0], v[1]
		case scanner.TypeSTrans:
			el.Transform.Flags, _ = rec.Uint16()
		case scanner.TypeMag:
			if v := rec.Real8s(); len(v) > 0 {
				el.Transform.Magnification = v[0]
			}
		case scanner.TypeAngle:
			if v := rec.Real8s(); len(v) > 0 {
				el.Transform.Angle = v[0]
			}
		case scanner.TypePropAttr:
			if hasAttr {
				return nil, formatErr(rec.Pos, "PROPATTR without PROPVALUE")
			}
			attr, _ = rec.Uint16()
			hasAttr = true
		case scanner.TypePropValue:
			if !hasAttr {
				return nil, formatErr(rec.Pos, "PROPVALUE without PROPATTR")
			}
			if len(el.Properties) >= l.cfg.Limits.MaxPropertiesPerElement {
				return nil, &LimitError{What: "property count", Max: l.cfg.Limits.MaxPropertiesPerElement}
			}
			val := rec.ASCII()
			if len(val) > l.cfg.Limits.MaxTextLen {
				return nil, &LimitError{What: "property value length", Max: l.cfg.Limits.MaxTextLen}
			}
			el.Properties = append(el.Properties, ir.Property{Attr: attr, Value: val})
			hasAttr = false
		case scanner.TypeEndStr, scanner.TypeBgnStr, scanner.TypeEndLib:
			return nil, formatErr(rec.Pos, fmt.Sprintf("%s element in %q not terminated", el.Kind, structure))
		default:
			// Unknown records inside an element are skipped.
		}
	}
}

// addGeometry decodes one XY record into the element. Boundary, path,
// box and node elements accumulate vertex lists; text and references
// take placement points.
func (l *Library) addGeometry(el *ir.Element, rec scanner.Record) error {
	if len(rec.Data)%8 != 0 {
		return formatErr(rec.Pos, "XY payload is not a whole number of points")
	}
	coords := rec.Int32s()
	pts := make(ir.Polygon, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, ir.Point{X: coords[i], Y: coords[i+1]})
	}
	if len(pts) == 0 {
		return formatErr(rec.Pos, "empty XY record")
	}
	switch p := el.Payload.(type) {
	case *ir.TextPayload:
		p.Origin = pts[0]
		el.Bounds.Add(pts[0])
	case *ir.SRefPayload:
		p.Origin = pts[0]
		el.Bounds.Add(pts[0])
	case *ir.ARefPayload:
		if len(pts) < 3 {
			return formatErr(rec.Pos, "AREF XY record needs three points")
		}
		copy(p.Corners[:], pts[:3])
		for _, pt := range pts[:3] {
			el.Bounds.Add(pt)
		}
	default:
		if len(el.Polygons) >= l.cfg.Limits.MaxPolygonsPerElement {
			return &LimitError{What: "polygon count", Max: l.cfg.Limits.MaxPolygonsPerElement}
		}
		if el.VertexCount()+len(pts) > l.cfg.Limits.MaxVerticesPerElement {
			return &LimitError{What: "vertex count", Max: l.cfg.Limits.MaxVerticesPerElement}
		}
		el.Polygons = append(el.Polygons, pts)
		el.Bounds.AddPolygon(pts)
	}
	return nil
}
