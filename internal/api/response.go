package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/source"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Code  string       `json:"code,omitempty"`
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
	Fields  form.Errors         `json:"fields,omitempty"`
}

// HTTPError carries a status code and a machine readable key.
type HTTPError struct {
	Status int
	Key    string
}

func (e HTTPError) Error() string { return e.Key }

var (
	ErrBadRequest           = HTTPError{Status: http.StatusBadRequest, Key: "bad_request"}
	ErrNotFound             = HTTPError{Status: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed     = HTTPError{Status: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrRequestTooLarge      = HTTPError{Status: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnsupportedMediaType = HTTPError{Status: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrInternal             = HTTPError{Status: http.StatusInternalServerError, Key: "internal_error"}
)

// JSON writes data inside the envelope.
func JSON(w http.ResponseWriter, status int, code string, data any) {
	write(w, status, Response{Code: code, Data: data})
}

// Error maps err onto a status and writes the error envelope. Validation
// errors become 422 with flattened details plus the nested error tree.
func Error(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	write(w, status, body)
}

func errorResponse(err error) (int, Response) {
	var errs form.Errors
	if errors.As(err, &errs) {
		return http.StatusUnprocessableEntity, Response{
			Code: "validation_error",
			Error: &ErrorDetail{
				Code:    "validation_error",
				Message: "validation failed",
				Details: formkit.FromErrors(errs),
				Fields:  errs,
			},
		}
	}

	he := classify(err)
	msg := http.StatusText(he.Status)
	if he.Status < http.StatusInternalServerError {
		msg = err.Error()
	}
	return he.Status, Response{
		Code:  he.Key,
		Error: &ErrorDetail{Code: he.Key, Message: msg},
	}
}

func classify(err error) HTTPError {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, source.ErrBodyTooLarge):
		return ErrRequestTooLarge
	case errors.Is(err, source.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType
	case errors.Is(err, source.ErrFailedToParseJSON),
		errors.Is(err, source.ErrFailedToParseYAML),
		errors.Is(err, source.ErrFailedToParseForm):
		return ErrBadRequest
	}
	return ErrInternal
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
