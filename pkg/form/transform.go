package form

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Strings lifts a string function into a transform for Field.Map.
// Non-string values pass through unchanged.
//
//	n.Field("email").Map(form.Strings(strings.TrimSpace))
func Strings(fn func(string) string) func(any) any {
	return func(v any) any {
		if s, ok := v.(string); ok {
			return fn(s)
		}
		return v
	}
}

var (
	// Trim removes leading and trailing whitespace.
	Trim = Strings(strings.TrimSpace)
	// Lower converts to lowercase.
	Lower = Strings(strings.ToLower)
	// Upper converts to uppercase.
	Upper = Strings(strings.ToUpper)
	// Squish trims and collapses inner whitespace runs to a single space.
	Squish = Strings(func(s string) string { return strings.Join(strings.Fields(s), " ") })
)

// Title converts each word to title case using Unicode rules.
func Title(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return cases.Title(language.Und).String(s)
}

// Slug turns text into a lowercase ASCII slug. Diacritics are folded
// ("Crème" becomes "creme") and every run of other characters becomes a
// single dash.
func Slug(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	// Chains carry state, so each call builds its own.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// ToInt coerces numeric strings and numbers into int64.
func ToInt(v any) any {
	if n, ok := toInt(v); ok {
		return n
	}
	return v
}

// ToFloat coerces numeric strings and numbers into float64.
func ToFloat(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

// ToBool coerces "1", "true", "yes", "on" and their negatives into bool.
func ToBool(v any) any {
	if b, ok := toBool(v); ok {
		return b
	}
	return v
}

// Default replaces blank values with def.
func Default(def any) func(any) any {
	return func(v any) any {
		if isBlank(v) {
			return def
		}
		return v
	}
}
