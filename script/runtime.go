package script

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// Config holds configuration for runtime creation
type Config struct {
	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// ModuleName is the instance name of the guest. Defaults to "guest".
	ModuleName string

	// HostModule is the module name guests import host functions from.
	// Defaults to "env".
	HostModule string
}

// DefaultConfig returns default runtime configuration.
func DefaultConfig() Config {
	return Config{
		ModuleName: "guest",
		HostModule: "env",
	}
}

// Lookup reports the scalar value of the host object behind a ref. Guests
// read it through the "value" import.
type Lookup func(r typeinfo.Ref) int64

// HostFunc is an additional (i32) -> i32 host function exposed to guests.
type HostFunc func(ctx context.Context, arg uint32) uint32

var _ typeinfo.Engine = (*Runtime)(nil)

// Runtime hosts one guest module and executes its exported methods.
type Runtime struct {
	ctx     context.Context
	runtime wazero.Runtime
	cfg     Config
	lookup  Lookup
	host    api.Module
	guest   api.Module
	defined map[string]HostFunc
	pool    sync.Pool
	calls   atomic.Int64
	mu      sync.RWMutex
}

// New creates a runtime. ctx is used for every guest call made through the
// runtime's contexts. A nil cfg uses DefaultConfig.
func New(ctx context.Context, cfg *Config, lookup Lookup) (*Runtime, error) {
	if lookup == nil {
		return nil, errors.InvalidInput(errors.PhaseScript, "lookup function is nil")
	}
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			c.MemoryLimitPages = cfg.MemoryLimitPages
		}
		if cfg.ModuleName != "" {
			c.ModuleName = cfg.ModuleName
		}
		if cfg.HostModule != "" {
			c.HostModule = cfg.HostModule
		}
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}

	r := &Runtime{
		ctx:     ctx,
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cfg:     c,
		lookup:  lookup,
		defined: make(map[string]HostFunc),
	}
	r.pool.New = func() any {
		return &callContext{rt: r, funcs: make(map[string]api.Function), stack: make([]uint64, 2)}
	}
	return r, nil
}

// Define adds a host function guests can import. It must be called before
// Load.
func (r *Runtime) Define(name string, fn HostFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.host != nil {
		return errors.InvalidInput(errors.PhaseScript, "host functions must be defined before Load")
	}
	if name == "value" {
		return errors.InvalidInput(errors.PhaseScript, `"value" is reserved`)
	}
	r.defined[name] = fn
	return nil
}

// Load compiles and instantiates the guest module. A runtime loads at most
// one guest.
func (r *Runtime) Load(ctx context.Context, wasm []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.guest != nil {
		return errors.InvalidInput(errors.PhaseScript, "guest module already loaded")
	}

	if r.host == nil {
		host, err := r.instantiateHost(ctx)
		if err != nil {
			return errors.Wrap(errors.PhaseScript, errors.KindScript, err, "instantiate host module")
		}
		r.host = host
	}

	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Wrap(errors.PhaseScript, errors.KindScript, err, "compile guest module")
	}
	guest, err := r.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(r.cfg.ModuleName))
	if err != nil {
		return errors.Wrap(errors.PhaseScript, errors.KindScript, err, "instantiate guest module")
	}
	r.guest = guest

	Logger().Debug("guest module loaded",
		zap.String("module", r.cfg.ModuleName),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return nil
}

func (r *Runtime) instantiateHost(ctx context.Context) (api.Module, error) {
	builder := r.runtime.NewHostModuleBuilder(r.cfg.HostModule)

	lookup := r.lookup
	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI64(lookup(typeinfo.Ref(api.DecodeU32(stack[0]))))
		}), []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI64}).
		Export("value")

	for name, fn := range r.defined {
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(fn(ctx, api.DecodeU32(stack[0])))
			}), []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
			Export(name)
	}
	return builder.Instantiate(ctx)
}

// Bind checks that the guest exports a method function named export and
// adds a method called name backed by it to t. The method takes a const
// reference to t and does not modify its receiver.
func (r *Runtime) Bind(t *typeinfo.Type, name, export string, ret typeinfo.ReturnKind) (*typeinfo.Method, error) {
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseScript, "bind to nil type")
	}
	if ret != typeinfo.ReturnBool && ret != typeinfo.ReturnInt32 {
		return nil, errors.InvalidInput(errors.PhaseScript, "scripted methods return bool or int32")
	}

	r.mu.RLock()
	guest := r.guest
	r.mu.RUnlock()
	if guest == nil {
		return nil, errors.InvalidInput(errors.PhaseScript, "no guest module loaded")
	}

	fn := guest.ExportedFunction(export)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseScript, "export", export)
	}
	def := fn.Definition()
	if !signature(def.ParamTypes(), api.ValueTypeI32, api.ValueTypeI32) || !signature(def.ResultTypes(), api.ValueTypeI32) {
		return nil, errors.TypeMismatch(errors.PhaseScript, []string{r.cfg.ModuleName, export},
			fmt.Sprintf("%v -> %v", valueTypeNames(def.ParamTypes()), valueTypeNames(def.ResultTypes())),
			"[i32 i32] -> [i32]")
	}

	m := &typeinfo.Method{
		Name:     name,
		Export:   export,
		Return:   ret,
		ReadOnly: true,
		Params:   []typeinfo.Param{{Type: t, Mode: typeinfo.ParamInRef, Const: true}},
	}
	t.AddMethod(m)

	Logger().Debug("method bound",
		zap.String("type", t.Name()),
		zap.String("method", name),
		zap.String("export", export))
	return m, nil
}

func signature(got []api.ValueType, want ...api.ValueType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func valueTypeNames(types []api.ValueType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = api.ValueTypeName(t)
	}
	return out
}

// Calls returns the number of guest calls made so far.
func (r *Runtime) Calls() int64 { return r.calls.Load() }

// RequestContext returns a pooled execution context.
func (r *Runtime) RequestContext() (typeinfo.Context, error) {
	return r.pool.Get().(*callContext), nil
}

// ReturnContext hands a context back to the pool.
func (r *Runtime) ReturnContext(c typeinfo.Context) {
	if cc, ok := c.(*callContext); ok && cc.rt == r {
		r.pool.Put(cc)
	}
}

// Close releases the guest and host modules.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guest = nil
	r.host = nil
	return r.runtime.Close(ctx)
}
