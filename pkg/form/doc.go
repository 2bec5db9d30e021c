// Package form validates and coerces arbitrary nested input: scalars, lists
// of scalars, nested objects and lists of nested objects.
//
// A Node wraps one input structure. Fields are declared on it by name, the
// value is pulled from the input through the node kind's Extractor, and
// checks are chained on the returned Field. The first failing check of a
// field records an error and turns every later call on that field into a
// no-op. Nested objects get their own child Node; the first error inside a
// child surfaces in the parent under the declared name, and the entry stays
// live as the child keeps reporting.
//
// # Usage
//
//	n := form.New(input)
//	n.Field("name").Map(form.Trim).Check("required").Check("length", 3, 64)
//	n.Field("email").Map(form.Lower).Check("required").Check("email")
//	n.Field("password").Check("length", 8, 128)
//	n.Field("password_confirmation").Ignore()
//	n.Group("password", "password_confirmation").Check("confirmation")
//	n.FieldSet("tags").Check("required").Check("distinct")
//
//	company := n.Form("company")
//	company.Field("name").Check("required")
//
//	for _, picture := range n.FormSet("pictures").Nodes() {
//	    picture.Field("title").Check("required")
//	}
//
//	if !n.Valid() {
//	    return n.Err() // form.Errors
//	}
//	out := n.Output()
//
// # Errors
//
// Errors is a map from field name to an Entry: a Message for plain fields,
// an Indexed map of positions for multi-valued fields, or the nested Errors
// of a child node. Indexed entries are sparse; positions that passed are
// absent. A message about the whole sequence, such as a failed count on a
// form set whose children also failed, sits under the Whole key next to
// the positions. Errors.Flatten turns the tree into dot paths such as
// "pictures.1.title".
//
// Mistakes in the declaration itself (declaring a name twice, set checks
// on single fields, unknown helpers, a second output mapper) are contract
// violations: they panic with *ContractError. Wrap a declaration pass in
// Declare to get them back as errors.
//
// # Helpers
//
// Check dispatches by name to helpers registered on the node's Kind. Base
// ships required, length, min_length, max_length, min, max, between,
// numeric, integer, format, email, url, uuid, in, not_in, acceptance, alpha
// and alphanumeric value checks plus the confirmation, distinct, count and
// present set checks. Extend a kind to add more without touching Base:
//
//	signup := form.Base.Extend("signup")
//	signup.Register("slug", func(v any, _ ...any) bool { ... })
//	n := signup.New(input)
//
// # Concurrency
//
// Kinds are safe for concurrent use. A Node is not: give every input its
// own Node.
package form
