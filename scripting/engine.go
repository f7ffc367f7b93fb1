package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script in the context of the opened library.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDOM registers the layout object model with the engine.
	RegisterDOM(dom LayoutDOM) error
}

// LayoutDOM exposes an opened library to the scripting engine. It
// provides a safe, read-only API for scripts to query the layout.
type LayoutDOM interface {
	// LibraryName returns the library name.
	LibraryName() string

	// StructureCount returns the number of structures.
	StructureCount() int

	// GetStructure returns a structure by index (0-based).
	GetStructure(index int) (StructureProxy, error)

	// Log emits a message from the script (if supported by the runner).
	Log(message string)
}

// StructureProxy represents a structure exposed to scripts.
type StructureProxy interface {
	GetName() string
	GetIndex() int
	ElementCount() (int, error)
	GetElement(index int) (ElementProxy, error)
}

// ElementProxy represents one decoded element exposed to scripts.
type ElementProxy interface {
	GetKind() string
	GetLayer() int
	GetVertexCount() int
	GetBounds() (minX, minY, maxX, maxY int)
}
