package script

import (
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// callContext executes methods for one array operation at a time.
type callContext struct {
	rt    *Runtime
	funcs map[string]api.Function
	stack []uint64
}

// Execute runs m with the receiver this and argument arg. Methods without an
// export run their native implementation.
func (c *callContext) Execute(m *typeinfo.Method, this, arg typeinfo.Ref) (uint64, error) {
	if m.Export == "" {
		if m.Native == nil {
			return 0, errors.NotFound(errors.PhaseScript, "native implementation", m.Name)
		}
		return m.Native(this, arg)
	}

	fn, err := c.function(m.Export)
	if err != nil {
		return 0, err
	}

	c.stack[0] = api.EncodeU32(uint32(this))
	c.stack[1] = api.EncodeU32(uint32(arg))
	c.rt.calls.Add(1)
	if err := fn.CallWithStack(c.rt.ctx, c.stack); err != nil {
		Logger().Debug("guest call failed",
			zap.String("method", m.Name),
			zap.String("export", m.Export),
			zap.Error(err))
		return 0, errors.Script(m.Export, err)
	}
	return uint64(api.DecodeU32(c.stack[0])), nil
}

// function returns this context's handle to a guest export. Handles are
// not shared between contexts.
func (c *callContext) function(export string) (api.Function, error) {
	if fn, ok := c.funcs[export]; ok {
		return fn, nil
	}
	c.rt.mu.RLock()
	guest := c.rt.guest
	c.rt.mu.RUnlock()
	if guest == nil {
		return nil, errors.InvalidInput(errors.PhaseScript, "no guest module loaded")
	}
	fn := guest.ExportedFunction(export)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseScript, "export", export)
	}
	c.funcs[export] = fn
	return fn, nil
}
