package source

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON body")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML body")
	ErrFailedToParseForm    = errors.New("failed to parse form data")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrFailedToDecodeStruct = errors.New("failed to decode struct")
)
