package typeinfo

import (
	"sort"
	"sync"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/script-array/errors"
)

// Options configures a Registry.
type Options struct {
	// Logger receives registration diagnostics. Defaults to Logger().
	Logger *zap.Logger
	// Engine executes type methods. Defaults to NativeEngine.
	Engine Engine
	// Collector tracks objects that may form reference cycles. Nil disables
	// tracking.
	Collector Collector
}

// DefaultOptions returns default registry configuration.
func DefaultOptions() Options {
	return Options{
		Engine: NativeEngine{},
	}
}

// CleanupFunc tears down a user data entry when its type is unregistered.
type CleanupFunc func(t *Type, value any)

// Diagnostic is a registration-time message.
type Diagnostic struct {
	Section string
	Message string
}

// TypeOption customizes a type at registration.
type TypeOption func(*Type)

// WithGC marks the type as able to take part in reference cycles.
func WithGC() TypeOption {
	return func(t *Type) { t.flags |= FlagGC }
}

// WithMethods exposes methods on the type.
func WithMethods(ms ...*Method) TypeOption {
	return func(t *Type) { t.methods = append(t.methods, ms...) }
}

// WithFactory sets the instance factory of a WIT value type.
func WithFactory(f Factory) TypeOption {
	return func(t *Type) { t.factory = f }
}

// WithCounter sets the reference counter of a WIT handle type.
func WithCounter(c Counter) TypeOption {
	return func(t *Type) { t.counter = c }
}

// Registry owns type descriptors, their user data cleanup hooks, and the
// engine and collector shared by the types.
// Thread-safe.
type Registry struct {
	logger      *zap.Logger
	engine      Engine
	collector   Collector
	byName      map[string]*Type
	byID        map[ID]*Type
	cleanup     map[UserDataKey]CleanupFunc
	diagnostics []func(Diagnostic)
	primitives  [KindObject]*Type
	nextID      ID
	mu          sync.RWMutex
}

// NewRegistry creates a registry with the primitive types pre-registered.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		logger:    opts.Logger,
		engine:    opts.Engine,
		collector: opts.Collector,
		byName:    make(map[string]*Type),
		byID:      make(map[ID]*Type),
		cleanup:   make(map[UserDataKey]CleanupFunc),
	}
	if r.logger == nil {
		r.logger = Logger()
	}
	if r.engine == nil {
		r.engine = NativeEngine{}
	}

	for k := KindBool; k <= KindChar; k++ {
		t, err := r.RegisterWIT(k.String(), witPrimitive(k))
		if err != nil {
			// primitive WIT types always classify
			panic(err)
		}
		r.primitives[k] = t
	}
	return r
}

// Primitive returns the builtin type of a primitive kind.
func (r *Registry) Primitive(k Kind) *Type {
	if !k.IsPrimitive() {
		return nil
	}
	return r.primitives[k]
}

// RegisterValue registers a value type whose instances are managed by f.
func (r *Registry) RegisterValue(name string, f Factory, opts ...TypeOption) (*Type, error) {
	t := &Type{
		name:    name,
		kind:    KindObject,
		flags:   FlagValue,
		size:    RefSize,
		align:   RefSize,
		factory: f,
	}
	return r.register(t, opts)
}

// RegisterRef registers a reference type whose handles are counted by c.
func (r *Registry) RegisterRef(name string, c Counter, opts ...TypeOption) (*Type, error) {
	t := &Type{
		name:    name,
		kind:    KindObject,
		flags:   FlagRef,
		size:    RefSize,
		align:   RefSize,
		counter: c,
	}
	return r.register(t, opts)
}

// RegisterWIT registers a type described by a WIT type. Primitive, enum, and
// flags types become primitives; own and borrow become reference types that
// need WithCounter; strings, lists, and other aggregates become value types
// that need WithFactory.
func (r *Registry) RegisterWIT(name string, w wit.Type, opts ...TypeOption) (*Type, error) {
	class, err := classifyWIT(w)
	if err != nil {
		return nil, errors.New(errors.PhaseRegister, errors.KindRegistration).
			TypeName(name).
			Cause(err).
			Detail("unsupported WIT type").
			Build()
	}
	t := &Type{
		name:    name,
		kind:    class.kind,
		flags:   class.flags,
		size:    class.size,
		align:   class.align,
		witType: w,
	}
	return r.register(t, opts)
}

func (r *Registry) register(t *Type, opts []TypeOption) (*Type, error) {
	if t.name == "" {
		return nil, errors.Registration("", "type name is empty")
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.flags&FlagValue != 0 && t.factory == nil {
		return nil, errors.Registration(t.name, "value type has no factory")
	}
	if t.flags&FlagRef != 0 && t.counter == nil {
		return nil, errors.Registration(t.name, "reference type has no counter")
	}
	if t.IsPrimitive() && t.flags&FlagGC != 0 {
		r.Warn(t.name, "primitive types never take part in cycles; GC flag ignored")
		t.flags &^= FlagGC
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[t.name]; exists {
		return nil, errors.Registration(t.name, "type already registered")
	}
	r.nextID++
	t.id = r.nextID
	t.registry = r
	r.byName[t.name] = t
	r.byID[t.id] = t

	r.logger.Debug("type registered",
		zap.String("type", t.name),
		zap.Uint32("id", uint32(t.id)),
		zap.Stringer("kind", t.kind))
	return t, nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// ByID returns the type registered under id.
func (r *Registry) ByID(id ID) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	return t, ok
}

// Types returns all registered types ordered by ID.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	out := make([]*Type, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Unregister discards a type and runs the cleanup hook of every user data
// entry attached to it. Types still referenced cannot be unregistered.
func (r *Registry) Unregister(t *Type) error {
	if t == nil || t.registry != r {
		return errors.InvalidInput(errors.PhaseRegister, "type does not belong to this registry")
	}
	if t.IsPrimitive() && r.primitives[t.kind] == t {
		return errors.Registration(t.name, "builtin primitive types cannot be unregistered")
	}
	if n := t.RefCount(); n > 0 {
		return errors.New(errors.PhaseRegister, errors.KindRegistration).
			TypeName(t.name).
			Value(n).
			Detail("type still referenced by %d holders", n).
			Build()
	}

	r.mu.Lock()
	if r.byID[t.id] != t {
		r.mu.Unlock()
		return errors.NotFound(errors.PhaseRegister, "type", t.name)
	}
	delete(r.byName, t.name)
	delete(r.byID, t.id)
	hooks := make(map[UserDataKey]CleanupFunc, len(r.cleanup))
	for k, fn := range r.cleanup {
		hooks[k] = fn
	}
	r.mu.Unlock()

	t.userMu.Lock()
	data := t.userData
	t.userData = nil
	t.userMu.Unlock()

	for key, value := range data {
		if fn := hooks[key]; fn != nil {
			fn(t, value)
		}
	}

	r.logger.Debug("type unregistered", zap.String("type", t.name))
	return nil
}

// SetCleanup installs the hook that tears down user data stored under key
// when a type is unregistered.
func (r *Registry) SetCleanup(key UserDataKey, fn CleanupFunc) {
	r.mu.Lock()
	r.cleanup[key] = fn
	r.mu.Unlock()
}

// HasCleanup reports whether a cleanup hook is installed for key.
func (r *Registry) HasCleanup(key UserDataKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cleanup[key] != nil
}

// OnDiagnostic subscribes fn to registration-time messages.
func (r *Registry) OnDiagnostic(fn func(Diagnostic)) {
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, fn)
	r.mu.Unlock()
}

// Warn reports a registration-time warning.
func (r *Registry) Warn(section, message string) {
	r.logger.Warn(message, zap.String("section", section))

	r.mu.RLock()
	subs := r.diagnostics
	r.mu.RUnlock()
	for _, fn := range subs {
		fn(Diagnostic{Section: section, Message: message})
	}
}

// Engine returns the engine executing type methods.
func (r *Registry) Engine() Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine
}

// SetEngine replaces the engine executing type methods.
func (r *Registry) SetEngine(e Engine) {
	r.mu.Lock()
	r.engine = e
	r.mu.Unlock()
}

// Collector returns the cycle collector, or nil.
func (r *Registry) Collector() Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collector
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *zap.Logger {
	return r.logger
}
