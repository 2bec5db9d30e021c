package source

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Params expands bracket-notation keys into nested maps and slices.
// Maps whose keys are all non-negative integers become slices ordered by
// index. Missing indices are not padded: the slice is compacted, so
// "pictures[3][title]" alone becomes the first element and its errors are
// reported at position 0. A repeated plain key keeps every value as a []any.
func Params(values url.Values) map[string]any {
	root := make(map[string]any, len(values))
	for _, key := range slices.Sorted(maps.Keys(values)) {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		assign(root, splitKey(key), vals)
	}
	for k, v := range root {
		root[k] = collapse(v)
	}
	return root
}

// splitKey turns "a[b][]" into ["a", "b", ""]. Malformed keys are returned
// whole.
func splitKey(key string) []string {
	head, rest, ok := strings.Cut(key, "[")
	if !ok || head == "" {
		return []string{key}
	}
	segs := []string{head}
	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		segs = append(segs, rest[1:end])
		rest = rest[end+1:]
	}
	return segs
}

func assign(m map[string]any, segs []string, vals []string) {
	last := len(segs) - 1
	for i, seg := range segs[:last] {
		if segs[i+1] == "" && i+1 == last {
			list, _ := m[seg].([]any)
			for _, v := range vals {
				list = append(list, v)
			}
			m[seg] = list
			return
		}
		child, ok := m[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[seg] = child
		}
		m = child
	}

	if len(vals) == 1 {
		m[segs[last]] = vals[0]
		return
	}
	list := make([]any, len(vals))
	for i, v := range vals {
		list[i] = v
	}
	m[segs[last]] = list
}

func collapse(v any) any {
	switch x := v.(type) {
	case []any:
		for i := range x {
			x[i] = collapse(x[i])
		}
		return x
	case map[string]any:
		for k, child := range x {
			x[k] = collapse(child)
		}
		if idx, ok := indexKeys(x); ok {
			list := make([]any, len(idx))
			for i, n := range idx {
				list[i] = x[strconv.Itoa(n)]
			}
			return list
		}
		return x
	}
	return v
}

// indexKeys reports the sorted integer keys of m when every key is one.
func indexKeys(m map[string]any) ([]int, bool) {
	if len(m) == 0 {
		return nil, false
	}
	idx := make([]int, 0, len(m))
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 || strconv.Itoa(n) != k {
			return nil, false
		}
		idx = append(idx, n)
	}
	slices.Sort(idx)
	return idx, true
}
