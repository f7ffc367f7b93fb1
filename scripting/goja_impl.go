package scripting

import (
	"context"

	"github.com/dop251/goja"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

func (e *GojaEngine) RegisterDOM(dom LayoutDOM) error {
	// Expose 'console' object
	consoleObj := e.vm.NewObject()
	err := consoleObj.Set("log", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		dom.Log(msg)
		return goja.Undefined()
	})
	if err != nil {
		return err
	}
	e.vm.Set("console", consoleObj)

	// Expose library accessors globally (as if 'this' is the library)
	e.vm.Set("libraryName", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.LibraryName())
	})

	e.vm.Set("structureCount", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.StructureCount())
	})

	e.vm.Set("getStructure", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		idx := int(call.Arguments[0].ToInteger())
		str, err := dom.GetStructure(idx)
		if err != nil || str == nil {
			return goja.Null()
		}

		obj := e.vm.NewObject()
		obj.Set("name", str.GetName())
		obj.Set("index", str.GetIndex())
		obj.Set("elementCount", func(call goja.FunctionCall) goja.Value {
			n, err := str.ElementCount()
			if err != nil {
				return goja.Null()
			}
			return e.vm.ToValue(n)
		})
		obj.Set("getElement", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				return goja.Undefined()
			}
			el, err := str.GetElement(int(call.Arguments[0].ToInteger()))
			if err != nil || el == nil {
				return goja.Null()
			}
			return e.elementValue(el)
		})
		return obj
	})

	return nil
}

func (e *GojaEngine) elementValue(el ElementProxy) goja.Value {
	obj := e.vm.NewObject()
	obj.Set("kind", el.GetKind())
	obj.Set("layer", el.GetLayer())
	obj.Set("vertexCount", el.GetVertexCount())
	minX, minY, maxX, maxY := el.GetBounds()
	bounds := e.vm.NewObject()
	bounds.Set("minX", minX)
	bounds.Set("minY", minY)
	bounds.Set("maxX", maxX)
	bounds.Set("maxY", maxY)
	obj.Set("bounds", bounds)
	return obj
}
