// Package source turns raw input into the nested map[string]any values that
// form.New and form.MapExtractor understand.
//
// Each adapter returns plain maps, []any sequences and scalars:
//
//	in, err := source.Request(r)
//	if err != nil {
//		return err
//	}
//	n := form.New(in)
//
// Params expands bracket keys from url.Values:
//
//	company[name]=Acme      -> {"company": {"name": "Acme"}}
//	pictures[0][title]=Sea  -> {"pictures": [{"title": "Sea"}]}
//	tags[]=go&tags[]=web    -> {"tags": ["go", "web"]}
//
// JSON numbers are kept as json.Number so large integers survive intact; the
// built-in numeric checks and Decode accept them.
package source
