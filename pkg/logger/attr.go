package logger

import (
	"log/slog"
	"time"
)

// Form records the form or kind name under the key "form".
func Form(name string) slog.Attr {
	return slog.String("form", name)
}

// Field records a field path under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// ErrorCount records the number of failing fields under "error_count".
func ErrorCount(n int) slog.Attr {
	return slog.Int("error_count", n)
}

// Error records err under the key "error". A nil error yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}
