package form

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Base is the root kind used by New. It carries the built-in helpers.
var Base = newBaseKind()

var (
	alphaRegex        = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

func newBaseKind() *Kind {
	k := NewKind("form")

	k.Register("required", func(v any, _ ...any) bool { return !isBlank(v) })
	k.Register("length", checkLength)
	k.Register("min_length", func(v any, args ...any) bool {
		limit := intArg("min_length", args, 0)
		n, ok := size(v)
		return ok && n >= limit
	})
	k.Register("max_length", func(v any, args ...any) bool {
		limit := intArg("max_length", args, 0)
		n, ok := size(v)
		return ok && n <= limit
	})
	k.Register("min", func(v any, args ...any) bool {
		limit := floatArg("min", args, 0)
		f, ok := toFloat(v)
		return ok && f >= limit
	})
	k.Register("max", func(v any, args ...any) bool {
		limit := floatArg("max", args, 0)
		f, ok := toFloat(v)
		return ok && f <= limit
	})
	k.Register("between", func(v any, args ...any) bool {
		lo, hi := floatArg("between", args, 0), floatArg("between", args, 1)
		f, ok := toFloat(v)
		return ok && f >= lo && f <= hi
	})
	k.Register("numeric", func(v any, _ ...any) bool {
		_, ok := toFloat(v)
		return ok
	})
	k.Register("integer", func(v any, _ ...any) bool {
		_, ok := toInt(v)
		return ok
	})
	k.Register("format", checkFormat)
	k.Register("email", func(v any, _ ...any) bool {
		s, ok := v.(string)
		return ok && validEmail(s)
	})
	k.Register("url", func(v any, _ ...any) bool {
		s, ok := v.(string)
		return ok && validURL(s)
	})
	k.Register("uuid", func(v any, _ ...any) bool {
		s, ok := v.(string)
		if !ok || len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
	k.Register("in", func(v any, args ...any) bool { return contains(args, v) })
	k.Register("not_in", func(v any, args ...any) bool { return !contains(args, v) })
	k.Register("acceptance", func(v any, _ ...any) bool {
		b, ok := toBool(v)
		return ok && b
	})
	k.Register("alpha", func(v any, _ ...any) bool {
		s, ok := v.(string)
		return ok && alphaRegex.MatchString(s)
	})
	k.Register("alphanumeric", func(v any, _ ...any) bool {
		s, ok := v.(string)
		return ok && alphanumericRegex.MatchString(s)
	})

	k.RegisterSet("confirmation", func(values []any, _ ...any) bool {
		for i := 1; i < len(values); i++ {
			if !reflect.DeepEqual(values[0], values[i]) {
				return false
			}
		}
		return true
	})
	k.RegisterSet("distinct", func(values []any, _ ...any) bool {
		for i := range values {
			for j := i + 1; j < len(values); j++ {
				if reflect.DeepEqual(values[i], values[j]) {
					return false
				}
			}
		}
		return true
	})
	k.RegisterSet("count", func(values []any, args ...any) bool {
		return inRange("count", len(values), args)
	})
	k.RegisterSet("present", func(values []any, _ ...any) bool { return len(values) > 0 })

	return k
}

// isBlank treats nil, whitespace-only strings and empty collections as blank.
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// size is the rune count of strings and the length of collections.
func size(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}

// checkLength accepts length(exact) or length(min, max).
func checkLength(v any, args ...any) bool {
	lo, hi := bounds("length", args)
	n, ok := size(v)
	return ok && n >= lo && n <= hi
}

func inRange(helper string, n int, args []any) bool {
	lo, hi := bounds(helper, args)
	return n >= lo && n <= hi
}

// bounds reads (exact) or (min, max) arguments.
func bounds(helper string, args []any) (int, int) {
	switch len(args) {
	case 1:
		n := intArg(helper, args, 0)
		return n, n
	case 2:
		return intArg(helper, args, 0), intArg(helper, args, 1)
	}
	panic(contractViolation("check", helper, fmt.Errorf("%w: expected 1 or 2 arguments, got %d", ErrInvalidArgument, len(args))))
}

func checkFormat(v any, args ...any) bool {
	if len(args) != 1 {
		panic(contractViolation("check", "format", fmt.Errorf("%w: expected a pattern", ErrInvalidArgument)))
	}
	var re *regexp.Regexp
	switch p := args[0].(type) {
	case *regexp.Regexp:
		re = p
	case string:
		var err error
		if re, err = regexp.Compile(p); err != nil {
			panic(contractViolation("check", "format", fmt.Errorf("%w: %v", ErrInvalidArgument, err)))
		}
	default:
		panic(contractViolation("check", "format", fmt.Errorf("%w: pattern must be a string or *regexp.Regexp", ErrInvalidArgument)))
	}
	s, ok := v.(string)
	return ok && re.MatchString(s)
}

// validEmail parses with net/mail and then requires a dotted domain,
// rejecting display-name forms.
func validEmail(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func contains(list []any, v any) bool {
	for _, x := range list {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}

func intArg(helper string, args []any, i int) int {
	if i < len(args) {
		if n, ok := toInt(args[i]); ok {
			return int(n)
		}
	}
	panic(contractViolation("check", helper, fmt.Errorf("%w: argument %d must be an integer", ErrInvalidArgument, i)))
}

func floatArg(helper string, args []any, i int) float64 {
	if i < len(args) {
		if f, ok := toFloat(args[i]); ok {
			return f
		}
	}
	panic(contractViolation("check", helper, fmt.Errorf("%w: argument %d must be a number", ErrInvalidArgument, i)))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case interface{ Float64() (float64, error) }: // json.Number
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case float32:
		if float64(x) != math.Trunc(float64(x)) {
			return 0, false
		}
		return int64(x), true
	case interface{ Int64() (int64, error) }: // json.Number
		n, err := x.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "yes", "on", "y", "t":
			return true, true
		case "0", "false", "no", "off", "n", "f", "":
			return false, true
		}
	}
	if n, ok := toInt(v); ok {
		return n != 0, true
	}
	return false, false
}
