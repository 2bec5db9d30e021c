package form

import (
	"log/slog"
	"slices"
)

// link is the propagation record a child node holds: where in the parent
// its errors surface.
type link struct {
	parent  *Node
	name    string
	index   int
	indexed bool
}

// Node validates one input structure, the root of a request or a nested
// object inside it. Declare fields on it, chain checks on the fields, then
// read Valid and Output.
//
// A Node is used by a single goroutine for a single input.
type Node struct {
	kind  *Kind
	input any

	fields   map[string]*Field
	children map[string]*Node
	sets     map[string]*Field
	declared map[string]struct{}

	errors Errors
	mapper func(map[string]any) any

	up       *link
	notified bool
}

// New creates a node of the Base kind.
func New(input any) *Node {
	return Base.New(input)
}

func newNode(k *Kind, input any) *Node {
	return &Node{
		kind:     k,
		input:    input,
		fields:   make(map[string]*Field),
		children: make(map[string]*Node),
		sets:     make(map[string]*Field),
		declared: make(map[string]struct{}),
		errors:   make(Errors),
	}
}

func (n *Node) Kind() *Kind { return n.kind }
func (n *Node) Input() any  { return n.input }

// Field declares a single-valued field.
func (n *Node) Field(name string) *Field {
	n.declare("field", name)
	f := newField(n, name, n.kind.extractor.Value(n.input, name))
	n.fields[name] = f
	return f
}

// FieldSet declares a multi-valued field. Its value is always a slice.
func (n *Node) FieldSet(name string) *Field {
	n.declare("fieldset", name)
	f := newFieldSet(n, name, n.kind.extractor.ValueSet(n.input, name))
	n.fields[name] = f
	return f
}

// Group builds a multi-valued view over the current values of already
// declared fields, for cross-field checks. Errors land under the first
// name. The group is not a declaration and does not appear in Output.
//
//	n.Group("password", "password_confirmation").Check("confirmation")
func (n *Node) Group(names ...string) *Field {
	if len(names) == 0 {
		n.fail("group", "", ErrUnknownField)
	}
	values := make([]any, 0, len(names))
	for _, name := range names {
		f, ok := n.fields[name]
		if !ok {
			n.fail("group", name, ErrUnknownField)
		}
		values = append(values, f.Value())
	}
	return newFieldSet(n, names[0], values)
}

// Form declares a nested object validated by a child node of the same kind.
func (n *Node) Form(name string) *Node {
	return n.FormOf(name, n.kind)
}

// FormOf declares a nested object validated by a child node of kind k.
func (n *Node) FormOf(name string, k *Kind) *Node {
	n.declare("form", name)
	child := k.New(n.kind.extractor.Struct(n.input, name))
	child.up = &link{parent: n, name: name}
	n.children[name] = child
	return child
}

// FormSet declares a list of nested objects, one child node of the same
// kind per element, in order.
func (n *Node) FormSet(name string) *Field {
	return n.FormSetOf(name, n.kind)
}

// FormSetOf declares a list of nested objects validated by child nodes of kind k.
func (n *Node) FormSetOf(name string, k *Kind) *Field {
	n.declare("formset", name)
	raw := n.kind.extractor.StructSet(n.input, name)
	nodes := make([]any, len(raw))
	for i, item := range raw {
		child := k.New(item)
		child.up = &link{parent: n, name: name, index: i, indexed: true}
		nodes[i] = child
	}
	f := newFieldSet(n, name, nodes)
	n.sets[name] = f
	return f
}

// MapOutput registers the function applied to the result of Output. Only
// one mapper may be registered per node.
func (n *Node) MapOutput(fn func(map[string]any) any) *Node {
	if n.mapper != nil {
		n.fail("map output", "", ErrMapperAlreadySet)
	}
	n.mapper = fn
	return n
}

// Valid reports whether no error was reported on this node or below it.
func (n *Node) Valid() bool {
	return len(n.errors) == 0
}

// HasErrors is the negation of Valid.
func (n *Node) HasErrors() bool {
	return !n.Valid()
}

// Errors returns the live error map.
func (n *Node) Errors() Errors {
	return n.errors
}

// Err returns the errors as an error value, or nil when the node is valid.
func (n *Node) Err() error {
	if n.Valid() {
		return nil
	}
	return n.errors
}

// Output builds the filtered result: declared, non-ignored fields under
// their current names and nested nodes under their declared names. It does
// not check validity.
func (n *Node) Output() any {
	result := make(map[string]any, len(n.fields)+len(n.children)+len(n.sets))
	for _, f := range n.fields {
		if f.ignored {
			continue
		}
		if f.multiple {
			result[f.name] = slices.Clone(f.values)
			continue
		}
		result[f.name] = f.value
	}
	for name, child := range n.children {
		result[name] = child.Output()
	}
	for name, f := range n.sets {
		if f.ignored {
			continue
		}
		items := make([]any, 0, len(f.values))
		for _, v := range f.values {
			if child, ok := v.(*Node); ok {
				items = append(items, child.Output())
				continue
			}
			items = append(items, v)
		}
		result[name] = items
	}

	if n.mapper != nil {
		return n.mapper(result)
	}
	return result
}

func (n *Node) declare(op, name string) {
	if _, exists := n.declared[name]; exists {
		n.fail(op, name, ErrDuplicateField)
	}
	n.declared[name] = struct{}{}
}

func (n *Node) fail(op, name string, err error) {
	ce := contractViolation(op, name, err)
	n.kind.logger.Error("form declaration failed",
		slog.String("kind", n.kind.name),
		slog.String("op", op),
		slog.String("field", name),
		slog.Any("error", err),
	)
	panic(ce)
}

// report stores entry under name, at position index when indexed. Plain
// and positional entries on the same name are kept side by side in an
// Indexed, the plain one under Whole. The first report on a node notifies its parent once, handing over the live
// error map so later reports stay visible upward.
func (n *Node) report(name string, entry Entry, index int, indexed bool) {
	switch prev := n.errors[name].(type) {
	case Indexed:
		if indexed {
			prev[index] = entry
		} else {
			prev[Whole] = entry
		}
	default:
		if !indexed {
			n.errors[name] = entry
			break
		}
		ix := Indexed{index: entry}
		if prev != nil {
			ix[Whole] = prev
		}
		n.errors[name] = ix
	}

	if msg, ok := entry.(Message); ok {
		n.kind.logger.Debug("validation failed",
			slog.String("kind", n.kind.name),
			slog.String("field", name),
			slog.String("message", msg.String()),
		)
	}

	if n.up != nil && !n.notified {
		n.notified = true
		n.up.parent.report(n.up.name, n.errors, n.up.index, n.up.indexed)
	}
}
