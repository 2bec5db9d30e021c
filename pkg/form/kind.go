package form

import (
	"log/slog"
	"sync"
)

// ValueCheck validates one value. It runs once per element on
// multi-valued fields.
type ValueCheck func(value any, args ...any) bool

// SetCheck validates all values of a multi-valued field at once.
type SetCheck func(values []any, args ...any) bool

type helper struct {
	value ValueCheck
	set   SetCheck
}

// Kind describes a family of nodes: the helpers their fields can call by
// name, the extractor used to read input and the logger used to trace
// validation. Kinds form a chain: a kind created with Extend sees every
// helper of its ancestors, while helpers registered on it stay invisible to
// the ancestors.
//
// A Kind is safe for concurrent use. Nodes are not.
type Kind struct {
	name      string
	parent    *Kind
	extractor Extractor
	logger    *slog.Logger

	mu      sync.RWMutex
	helpers map[string]helper
}

// KindOption configures a Kind.
type KindOption func(*Kind)

// WithExtractor sets the extractor used by nodes of the kind. Nil is ignored.
func WithExtractor(e Extractor) KindOption {
	return func(k *Kind) {
		if e != nil {
			k.extractor = e
		}
	}
}

// WithLogger sets the logger used by nodes of the kind. Nil is ignored.
func WithLogger(l *slog.Logger) KindOption {
	return func(k *Kind) {
		if l != nil {
			k.logger = l
		}
	}
}

// NewKind creates a root kind with no helpers.
func NewKind(name string, opts ...KindOption) *Kind {
	k := &Kind{
		name:      name,
		extractor: MapExtractor{},
		logger:    slog.New(slog.DiscardHandler),
		helpers:   make(map[string]helper),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Extend creates a kind that inherits helpers, extractor and logger from k.
func (k *Kind) Extend(name string, opts ...KindOption) *Kind {
	child := &Kind{
		name:      name,
		parent:    k,
		extractor: k.extractor,
		logger:    k.logger,
		helpers:   make(map[string]helper),
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

func (k *Kind) Name() string  { return k.name }
func (k *Kind) Parent() *Kind { return k.parent }

// Register adds a value validation reachable through Field.Check(name, ...).
// A name already registered on k is replaced; one registered on an ancestor
// is shadowed.
func (k *Kind) Register(name string, fn ValueCheck) *Kind {
	if name == "" || fn == nil {
		panic(contractViolation("register", name, ErrInvalidHelper))
	}
	k.mu.Lock()
	k.helpers[name] = helper{value: fn}
	k.mu.Unlock()
	return k
}

// RegisterSet adds a set validation reachable through Field.Check(name, ...).
func (k *Kind) RegisterSet(name string, fn SetCheck) *Kind {
	if name == "" || fn == nil {
		panic(contractViolation("register", name, ErrInvalidHelper))
	}
	k.mu.Lock()
	k.helpers[name] = helper{set: fn}
	k.mu.Unlock()
	return k
}

// Has reports whether name resolves on k or one of its ancestors.
func (k *Kind) Has(name string) bool {
	_, ok := k.lookup(name)
	return ok
}

// New creates a node of this kind over input.
func (k *Kind) New(input any) *Node {
	return newNode(k, input)
}

func (k *Kind) lookup(name string) (helper, bool) {
	for cur := k; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		h, ok := cur.helpers[name]
		cur.mu.RUnlock()
		if ok {
			return h, true
		}
	}
	return helper{}, false
}
