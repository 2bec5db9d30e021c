// Package formkit is a hierarchical validation and coercion engine for
// untyped input such as decoded JSON, form posts and query strings.
//
// The engine lives in pkg/form: a Node declares fields, nested forms and
// formsets over a map input, runs chained checks and transforms, and collects
// a tree of errors alongside a filtered output map.
//
//	in, err := source.Request(r)
//	if err != nil {
//		return err
//	}
//	n := form.New(in)
//	n.Field("email").Map(form.Trim, form.Lower).Check("required").Check("email")
//	n.Field("password").Check("length", 8, 72)
//	n.Group("password", "password_confirmation").Check("confirmation")
//	n.Field("password_confirmation").Ignore()
//	if !n.Valid() {
//		return formkit.FromErrors(n.Errors())
//	}
//	save(n.Output())
//
// Supporting packages:
//
//   - pkg/source converts HTTP requests, JSON, YAML, bracket params and structs
//     into input maps
//   - pkg/metrics records validation outcomes with Prometheus
//   - pkg/logger builds the slog loggers used by kinds and services
//
// ValidationError in this package is the flattened, transport-friendly form
// of form.Errors.
package formkit
