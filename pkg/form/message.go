package form

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Message is a validation message: either a tag with the arguments the
// check was declared with, or a caller supplied text.
type Message struct {
	Key  string
	Args []any
	Text string
}

// Text creates a message carrying a literal text.
func Text(text string) Message {
	return Message{Text: text}
}

// Tag creates a tagged message.
func Tag(key string, args ...any) Message {
	return Message{Key: key, Args: args}
}

// Resolve implements MessageSource.
func (m Message) Resolve() Message {
	return m
}

func (m Message) String() string {
	if m.Text != "" {
		return m.Text
	}
	if len(m.Args) == 0 {
		return m.Key
	}
	args := make([]string, 0, len(m.Args))
	for _, a := range m.Args {
		args = append(args, fmt.Sprint(a))
	}
	return m.Key + "(" + strings.Join(args, ", ") + ")"
}

// MarshalJSON renders tagged messages as ["key", args...] and text messages as a string.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Text != "" {
		return json.Marshal(m.Text)
	}
	tuple := make([]any, 0, len(m.Args)+1)
	tuple = append(tuple, m.Key)
	tuple = append(tuple, m.Args...)
	return json.Marshal(tuple)
}

// MessageFunc produces a message lazily, when the error is reported.
type MessageFunc func() Message

// Resolve implements MessageSource.
func (f MessageFunc) Resolve() Message {
	return f()
}

// MessageSource is anything a validation message can be obtained from.
type MessageSource interface {
	Resolve() Message
}

// Entry is one value of an error map: a Message, an Indexed set of
// per-position entries, or the nested Errors of a child node.
type Entry interface {
	entry()
}

func (Message) entry() {}
func (Indexed) entry() {}
func (Errors) entry()  {}

// Indexed holds per-position entries of a multi-valued field. Positions
// that passed validation are absent. A message about the sequence as a
// whole, such as a failed count, is kept under Whole.
type Indexed map[int]Entry

// Whole is the Indexed key of the message reported for the entire sequence.
const Whole = -1

// Positions returns the failing element positions in ascending order.
func (ix Indexed) Positions() []int {
	positions := make([]int, 0, len(ix))
	for i := range ix {
		if i >= 0 {
			positions = append(positions, i)
		}
	}
	slices.Sort(positions)
	return positions
}

// Errors maps field names to their error entries.
type Errors map[string]Entry

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	flat := e.Flatten()
	paths := slices.Sorted(maps.Keys(flat))
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, fmt.Sprintf("%s: %s", p, strings.Join(flat[p], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether name has an entry.
func (e Errors) Has(name string) bool {
	_, ok := e[name]
	return ok
}

// Get returns the entry stored under name, or nil.
func (e Errors) Get(name string) Entry {
	return e[name]
}

// Fields returns the names with entries, sorted.
func (e Errors) Fields() []string {
	return slices.Sorted(maps.Keys(e))
}

// IsEmpty reports whether there are no entries.
func (e Errors) IsEmpty() bool {
	return len(e) == 0
}

// Flatten converts the tree into dot separated paths, for example
// "company.name" or "pictures.1.title".
func (e Errors) Flatten() map[string][]string {
	out := make(map[string][]string)
	flattenInto(out, "", e)
	return out
}

func flattenInto(out map[string][]string, path string, entry Entry) {
	switch v := entry.(type) {
	case Message:
		out[path] = append(out[path], v.String())
	case Indexed:
		if whole, ok := v[Whole]; ok {
			flattenInto(out, path, whole)
		}
		for _, i := range v.Positions() {
			flattenInto(out, joinPath(path, strconv.Itoa(i)), v[i])
		}
	case Errors:
		for _, name := range v.Fields() {
			flattenInto(out, joinPath(path, name), v[name])
		}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
