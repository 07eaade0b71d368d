package cymometer

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Def declares one named counter on a [Schema]. Limit and Window of zero
// take the schema-independent defaults, exactly as in [CounterConfig].
type Def[T any] struct {
	// Key is a fixed identifier. Every owner bound to the schema shares
	// one window under it. Leave Key and KeyFunc both unset to use the
	// declared name itself, which is the common shared-counter case.
	Key string

	// KeyFunc derives the identifier from the owner, giving each owner
	// its own window. It runs at most once per binding and name, on the
	// first [Binding.Counter] call, and must not call back into the
	// binding. An empty result falls back to the declared name.
	// Setting both Key and KeyFunc is an error.
	KeyFunc func(T) string

	// Limit is the maximum number of admitted events per window.
	Limit int64

	// Window is the trailing span events are counted over.
	Window time.Duration

	// Namespace overrides the schema's namespace for this counter only.
	Namespace string

	// Store overrides the schema's store for this counter only, letting
	// one schema spread its counters over several backends.
	Store Store
}

// Schema declares a set of named counters for owners of type T. Declare
// the names once, near the type they guard, then [Schema.Bind] each
// owner to get live counters:
//
//	var apiLimits = cymometer.NewSchema[*Client]().
//		Namespace("api").
//		Declare("requests", cymometer.Def[*Client]{
//			KeyFunc: func(c *Client) string { return c.TenantID },
//			Limit:   100,
//			Window:  time.Minute,
//		})
//
// Schemas are safe for concurrent use. Declarations normally all happen
// during initialization; a redeclared name replaces the previous one but
// does not touch counters already handed out by existing bindings.
type Schema[T any] struct {
	mu        sync.RWMutex
	namespace string
	store     Store
	logger    *zap.Logger
	metrics   *Metrics
	defs      map[string]Def[T]
}

// NewSchema returns an empty schema for owners of type T.
func NewSchema[T any]() *Schema[T] {
	return &Schema[T]{defs: make(map[string]Def[T])}
}

// Namespace sets the key namespace for every counter the schema builds.
func (s *Schema[T]) Namespace(ns string) *Schema[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namespace = ns
	return s
}

// Store sets the backing store for every counter the schema builds,
// overriding the process default.
func (s *Schema[T]) Store(st Store) *Schema[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = st
	return s
}

// Logger sets the logger for every counter the schema builds.
func (s *Schema[T]) Logger(l *zap.Logger) *Schema[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
	return s
}

// Metrics sets the metrics sink for every counter the schema builds.
func (s *Schema[T]) Metrics(m *Metrics) *Schema[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
	return s
}

// Declare registers def under name. Declaring a name again replaces the
// earlier definition for bindings created afterwards.
func (s *Schema[T]) Declare(name string, def Def[T]) *Schema[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[name] = def
	return s
}

// Bind attaches an owner to the schema. The binding resolves counters
// lazily and memoizes them, so repeated [Binding.Counter] calls for one
// name return the same *Counter.
func (s *Schema[T]) Bind(owner T) *Binding[T] {
	return &Binding[T]{
		schema: s,
		owner:  owner,
		cache:  make(map[string]*Counter),
	}
}

// Binding is one owner's view of a [Schema]. It is safe for concurrent
// use; a Binding is typically stored in the owner it was built for and
// shares that value's lifetime.
type Binding[T any] struct {
	schema *Schema[T]
	owner  T

	mu    sync.Mutex
	cache map[string]*Counter
}

// Counter returns the owner's counter for a declared name, building it
// on first use. An undeclared name yields a [*UnknownCounterError];
// match it with errors.Is(err, ErrUnknownCounter).
func (b *Binding[T]) Counter(name string) (*Counter, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.cache[name]; ok {
		return c, nil
	}

	b.schema.mu.RLock()
	def, ok := b.schema.defs[name]
	cfg := CounterConfig{
		Namespace: b.schema.namespace,
		Store:     b.schema.store,
		Logger:    b.schema.logger,
		Metrics:   b.schema.metrics,
	}
	b.schema.mu.RUnlock()

	if !ok {
		return nil, &UnknownCounterError{Name: name}
	}
	if def.Key != "" && def.KeyFunc != nil {
		return nil, fmt.Errorf("%w: counter %q declares both Key and KeyFunc", ErrInvalidDefinition, name)
	}

	id := def.Key
	if def.KeyFunc != nil {
		id = def.KeyFunc(b.owner)
	}
	if id == "" {
		id = name
	}

	// Definition-level overrides win over the schema's values; whatever is
	// still unset falls to the process defaults inside NewCounter.
	if def.Namespace != "" {
		cfg.Namespace = def.Namespace
	}
	if def.Store != nil {
		cfg.Store = def.Store
	}

	cfg.ID = id
	cfg.Limit = def.Limit
	cfg.Window = def.Window

	c, err := NewCounter(cfg)
	if err != nil {
		return nil, err
	}
	b.cache[name] = c
	return c, nil
}

// MustCounter is [Binding.Counter] for initialization paths where an
// undeclared name is a bug; it panics instead of returning the error.
func (b *Binding[T]) MustCounter(name string) *Counter {
	c, err := b.Counter(name)
	if err != nil {
		panic(err)
	}
	return c
}
