package form

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode copies the output of a valid node into target, a pointer to a
// struct or map. Struct fields are matched by their `form` tag, falling back
// to a case-insensitive field name match. Scalars are converted weakly, so
// "42" decodes into an int field.
//
// An invalid node returns ErrInvalid joined with its errors and leaves
// target untouched.
func (n *Node) Decode(target any) error {
	if !n.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalid, n.errors)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("form: decode: %w", err)
	}
	if err := dec.Decode(n.Output()); err != nil {
		return fmt.Errorf("form: decode: %w", err)
	}
	return nil
}
