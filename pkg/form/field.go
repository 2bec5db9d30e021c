package form

// Field is a declared value, or list of values, with its chain of checks
// and transforms. Every chained call is skipped once the field is invalid,
// so the first failing check wins.
type Field struct {
	node *Node
	key  string
	name string

	value    any
	values   []any
	multiple bool
	ignored  bool
}

func newField(n *Node, key string, value any) *Field {
	return &Field{node: n, key: key, name: key, value: value}
}

func newFieldSet(n *Node, key string, values []any) *Field {
	return &Field{node: n, key: key, name: key, values: values, multiple: true}
}

// Name is the output name; it changes with As.
func (f *Field) Name() string { return f.name }

// Key is the declared name. Errors are always reported under it.
func (f *Field) Key() string { return f.key }

func (f *Field) Multiple() bool { return f.multiple }
func (f *Field) Ignored() bool  { return f.ignored }

// Valid reports whether the owning node has no entry under the field's key.
func (f *Field) Valid() bool {
	_, failed := f.node.errors[f.key]
	return !failed
}

// Value returns the single value, or the []any of a multi-valued field.
func (f *Field) Value() any {
	if f.multiple {
		return f.values
	}
	return f.value
}

// Values returns the values of a multi-valued field, nil otherwise.
func (f *Field) Values() []any {
	return f.values
}

// Nodes returns the child nodes of a form set.
func (f *Field) Nodes() []*Node {
	var nodes []*Node
	for _, v := range f.values {
		if child, ok := v.(*Node); ok {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// Validate reports msg when fn returns false. On multi-valued fields fn
// runs against every element, and each failing element is reported at its
// position.
func (f *Field) Validate(msg MessageSource, fn func(any) bool) *Field {
	if !f.Valid() {
		return f
	}
	if !f.multiple {
		if !fn(f.value) {
			f.ReportError(msg)
		}
		return f
	}
	for i, v := range f.values {
		if !fn(v) {
			f.ReportErrorAt(msg, i)
		}
	}
	return f
}

// ValidateSet runs fn once against all values and reports msg without a
// position when it returns false. Only valid on multi-valued fields.
func (f *Field) ValidateSet(msg MessageSource, fn func([]any) bool) *Field {
	if !f.multiple {
		f.node.fail("validate set", f.key, ErrNotMultiple)
	}
	if !f.Valid() {
		return f
	}
	if !fn(f.values) {
		f.ReportError(msg)
	}
	return f
}

// Check runs the helper registered as name on the node's kind. A failure
// is reported as Tag(name, args...).
//
//	n.Field("login").Check("required").Check("length", 3, 32)
func (f *Field) Check(name string, args ...any) *Field {
	return f.CheckMsg(name, Message{Key: name, Args: args}, args...)
}

// CheckMsg is Check with a custom message.
func (f *Field) CheckMsg(name string, msg MessageSource, args ...any) *Field {
	h, ok := f.node.kind.lookup(name)
	if !ok {
		f.node.fail("check", name, ErrUnknownHelper)
	}
	if h.set != nil {
		return f.ValidateSet(msg, func(values []any) bool {
			return h.set(values, args...)
		})
	}
	return f.Validate(msg, func(v any) bool {
		return h.value(v, args...)
	})
}

// Map replaces the value, or each element in place, with fn's result.
func (f *Field) Map(fn func(any) any) *Field {
	if !f.Valid() {
		return f
	}
	if !f.multiple {
		f.value = fn(f.value)
		return f
	}
	for i, v := range f.values {
		f.values[i] = fn(v)
	}
	return f
}

// Each calls fn with the value, or with each element in order.
func (f *Field) Each(fn func(any)) *Field {
	if !f.Valid() {
		return f
	}
	if !f.multiple {
		fn(f.value)
		return f
	}
	for _, v := range f.values {
		fn(v)
	}
	return f
}

// As renames the field in Output. Errors keep using the declared key.
func (f *Field) As(name string) *Field {
	f.name = name
	return f
}

// Ignore drops the field from Output.
func (f *Field) Ignore() *Field {
	f.ignored = true
	return f
}

// ReportError records msg for the field.
func (f *Field) ReportError(msg MessageSource) {
	f.node.report(f.key, msg.Resolve(), 0, false)
}

// ReportErrorAt records msg for the element at index.
func (f *Field) ReportErrorAt(msg MessageSource, index int) {
	f.node.report(f.key, msg.Resolve(), index, true)
}
