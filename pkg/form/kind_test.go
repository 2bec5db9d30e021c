package form_test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
)

func TestKind_Extend(t *testing.T) {
	t.Parallel()

	base := form.NewKind("base")
	base.Register("even", func(v any, _ ...any) bool { return v.(int)%2 == 0 })

	child := base.Extend("child")
	child.Register("odd", func(v any, _ ...any) bool { return v.(int)%2 == 1 })

	t.Run("child sees parent helpers", func(t *testing.T) {
		assert.True(t, child.Has("even"))
		assert.True(t, child.Has("odd"))
		assert.Same(t, base, child.Parent())
		assert.Equal(t, "child", child.Name())
	})

	t.Run("parent does not see child helpers", func(t *testing.T) {
		assert.False(t, base.Has("odd"))

		n := base.New(map[string]any{"x": 1})
		err := form.Declare(n, func(n *form.Node) { n.Field("x").Check("odd") })
		assert.ErrorIs(t, err, form.ErrUnknownHelper)
	})

	t.Run("child may shadow a parent helper", func(t *testing.T) {
		shadow := base.Extend("shadow")
		shadow.Register("even", func(any, ...any) bool { return true })

		n := shadow.New(map[string]any{"x": 1})
		n.Field("x").Check("even")
		assert.True(t, n.Valid())

		m := base.New(map[string]any{"x": 1})
		m.Field("x").Check("even")
		assert.False(t, m.Valid())
	})

	t.Run("nested forms default to the parent's kind", func(t *testing.T) {
		n := child.New(map[string]any{"c": map[string]any{"x": 2}})
		c := n.Form("c")
		c.Field("x").Check("odd")

		assert.Same(t, child, c.Kind())
		assert.Equal(t, form.Errors{"x": form.Tag("odd")}, n.Errors()["c"])
	})

	t.Run("set helpers", func(t *testing.T) {
		k := form.NewKind("sets")
		k.RegisterSet("sum_below", func(vs []any, args ...any) bool {
			total := 0
			for _, v := range vs {
				total += v.(int)
			}
			return total < args[0].(int)
		})

		n := k.New(map[string]any{"n": []int{3, 4}})
		n.FieldSet("n").Check("sum_below", 5)
		assert.Equal(t, form.Tag("sum_below", 5), n.Errors()["n"])
	})
}

func TestKind_Register(t *testing.T) {
	t.Parallel()

	k := form.NewKind("k")

	assert.PanicsWithError(t, "form: register: invalid helper", func() {
		k.Register("", func(any, ...any) bool { return true })
	})
	assert.Panics(t, func() { k.Register("x", nil) })
	assert.Panics(t, func() { k.RegisterSet("x", nil) })
}

func TestKind_ConcurrentUse(t *testing.T) {
	t.Parallel()

	k := form.Base.Extend("concurrent")

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%4 == 0 {
				k.Register("noop", func(any, ...any) bool { return true })
			}
			n := k.New(map[string]any{"email": "user@example.com"})
			n.Field("email").Check("required").Check("email")
			assert.True(t, n.Valid())
		}()
	}
	wg.Wait()
}

type prefixExtractor struct {
	form.MapExtractor
	prefix string
}

func (e prefixExtractor) Value(input any, name string) any {
	return e.MapExtractor.Value(input, e.prefix+name)
}

func TestKind_WithExtractor(t *testing.T) {
	t.Parallel()

	k := form.NewKind("prefixed", form.WithExtractor(prefixExtractor{prefix: "user_"}))
	n := k.New(map[string]any{"user_name": "Jane", "name": "ignored"})
	n.Field("name")

	assert.Equal(t, map[string]any{"name": "Jane"}, n.Output())

	t.Run("extended kinds inherit the extractor", func(t *testing.T) {
		n := k.Extend("child").New(map[string]any{"user_name": "Joe"})
		n.Field("name")
		assert.Equal(t, map[string]any{"name": "Joe"}, n.Output())
	})
}

func TestKind_WithLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	k := form.Base.Extend("logged", form.WithLogger(log))

	n := k.New(map[string]any{"x": ""})
	n.Field("x").Check("required")
	err := form.Declare(n, func(n *form.Node) { n.Field("x") })
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "validation failed")
	assert.Contains(t, out, "field=x")
	assert.Contains(t, out, "form declaration failed")
	assert.True(t, strings.Contains(out, "kind=logged"))
}

func TestNewKind_DefaultLogger(t *testing.T) {
	t.Parallel()

	k := form.NewKind("quiet", form.WithLogger(nil))
	k.Register("never", func(any, ...any) bool { return false })

	n := k.New(map[string]any{"x": 1})
	err := form.Declare(n, func(n *form.Node) {
		n.Field("x").Check("never")
		n.Field("x")
	})

	assert.ErrorIs(t, err, form.ErrDuplicateField)
	assert.Equal(t, form.Tag("never"), n.Errors()["x"])
}
