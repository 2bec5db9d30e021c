package source

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DefaultMaxMemory is the memory budget for multipart forms (10MB).
const DefaultMaxMemory = 10 << 20

type requestOptions struct {
	maxBodySize int64
	maxMemory   int64
	query       bool
	pathParams  bool
}

// RequestOption configures Request.
type RequestOption func(*requestOptions)

// WithMaxBodySize limits JSON and YAML bodies.
func WithMaxBodySize(n int64) RequestOption {
	return func(o *requestOptions) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// WithMaxMemory sets the in-memory budget for multipart parsing.
func WithMaxMemory(n int64) RequestOption {
	return func(o *requestOptions) {
		if n > 0 {
			o.maxMemory = n
		}
	}
}

// WithoutQuery skips merging query parameters into the body input.
func WithoutQuery() RequestOption {
	return func(o *requestOptions) { o.query = false }
}

// WithoutPathParams skips merging chi URL parameters.
func WithoutPathParams() RequestOption {
	return func(o *requestOptions) { o.pathParams = false }
}

// Request builds form input from r. The body is decoded according to its
// content type: JSON, YAML, urlencoded or multipart form values. A request
// without a body yields its query parameters. Query parameters fill keys the
// body did not set and chi URL parameters override both.
func Request(r *http.Request, opts ...RequestOption) (map[string]any, error) {
	o := requestOptions{
		maxBodySize: DefaultMaxBodySize,
		maxMemory:   DefaultMaxMemory,
		query:       true,
		pathParams:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	out, err := body(r, o)
	if err != nil {
		return nil, err
	}

	if o.query {
		for k, v := range Params(r.URL.Query()) {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}

	if o.pathParams {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, k := range rctx.URLParams.Keys {
				if k == "" || k == "*" || i >= len(rctx.URLParams.Values) {
					continue
				}
				out[k] = rctx.URLParams.Values[i]
			}
		}
	}

	return out, nil
}

func body(r *http.Request, o requestOptions) (map[string]any, error) {
	contentType := r.Header.Get("Content-Type")
	if r.Body == nil || r.Body == http.NoBody || contentType == "" {
		return map[string]any{}, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return JSONWithLimit(r.Body, o.maxBodySize)

	case mediaType == "application/yaml" || mediaType == "application/x-yaml" || mediaType == "text/yaml":
		return YAMLWithLimit(r.Body, o.maxBodySize)

	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, formError(err)
		}
		return Params(r.PostForm), nil

	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(o.maxMemory); err != nil {
			return nil, formError(err)
		}
		if r.MultipartForm == nil {
			return map[string]any{}, nil
		}
		return Params(r.MultipartForm.Value), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
}
