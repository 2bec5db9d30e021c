package formkit

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/formkit/pkg/form"
)

// ValidationError holds flattened field errors keyed by dot path
// ("company.name", "pictures.0.title"). It is based on url.Values to reuse its
// string slice handling.
type ValidationError url.Values

// FromErrors flattens a form error tree. An empty tree yields an empty
// ValidationError.
func FromErrors(errs form.Errors) ValidationError {
	return ValidationError(errs.Flatten())
}

// Error summarizes the first message of each field in path order.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e))
	for _, field := range slices.Sorted(maps.Keys(e)) {
		if msgs := e[field]; len(msgs) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msgs[0]))
		}
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewValidationError() ValidationError {
	return make(ValidationError)
}

// Add appends a message for a field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first message for a field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}
