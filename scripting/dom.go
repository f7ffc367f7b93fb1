package scripting

import (
	"fmt"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/ir"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/observability"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/parser"
)

// LibraryDOM adapts an opened library to the LayoutDOM interface.
// Scripts see a read-only view; element materialization stays lazy and
// happens on first access from the script.
type LibraryDOM struct {
	lib *parser.Library
	log observability.Logger
}

// NewLibraryDOM wraps a scanned library. A nil logger silences script
// console output.
func NewLibraryDOM(lib *parser.Library, log observability.Logger) *LibraryDOM {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &LibraryDOM{lib: lib, log: log}
}

func (d *LibraryDOM) LibraryName() string { return d.lib.Name() }

func (d *LibraryDOM) StructureCount() int { return d.lib.StructureCount() }

func (d *LibraryDOM) GetStructure(index int) (StructureProxy, error) {
	s, err := d.lib.Structure(index)
	if err != nil {
		return nil, err
	}
	return &structureProxy{s: s, index: index}, nil
}

func (d *LibraryDOM) Log(message string) {
	d.log.Info("script", observability.String("message", message))
}

type structureProxy struct {
	s     *parser.Structure
	index int
}

func (p *structureProxy) GetName() string { return p.s.Name() }
func (p *structureProxy) GetIndex() int   { return p.index }

func (p *structureProxy) ElementCount() (int, error) {
	elems, err := p.s.Elements()
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}

func (p *structureProxy) GetElement(index int) (ElementProxy, error) {
	elems, err := p.s.Elements()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(elems) {
		return nil, &parser.InputError{Reason: fmt.Sprintf("element index %d out of range [0,%d)", index, len(elems))}
	}
	return &elementProxy{el: elems[index]}, nil
}

type elementProxy struct {
	el *ir.Element
}

func (p *elementProxy) GetKind() string     { return p.el.Kind.String() }
func (p *elementProxy) GetLayer() int       { return int(p.el.Layer) }
func (p *elementProxy) GetVertexCount() int { return p.el.VertexCount() }

func (p *elementProxy) GetBounds() (minX, minY, maxX, maxY int) {
	b := p.el.Bounds
	return int(b.MinX), int(b.MinY), int(b.MaxX), int(b.MaxY)
}
