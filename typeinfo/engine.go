package typeinfo

import (
	"github.com/wippyai/script-array/errors"
)

// Context executes methods on behalf of a single operation. An operation
// requests one context and reuses it for every call it makes.
type Context interface {
	Execute(m *Method, this, arg Ref) (uint64, error)
}

// Engine hands out execution contexts.
type Engine interface {
	RequestContext() (Context, error)
	ReturnContext(Context)
}

// NativeEngine executes methods implemented in Go. It keeps no per-call
// state, so every request shares one context.
type NativeEngine struct{}

func (NativeEngine) RequestContext() (Context, error) {
	return nativeContext{}, nil
}

func (NativeEngine) ReturnContext(Context) {}

type nativeContext struct{}

func (nativeContext) Execute(m *Method, this, arg Ref) (uint64, error) {
	if m.Native == nil {
		return 0, errors.NotFound(errors.PhaseScript, "native implementation", m.Name)
	}
	return m.Native(this, arg)
}
