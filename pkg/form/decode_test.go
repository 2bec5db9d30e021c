package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
)

type picture struct {
	Title string `form:"title"`
}

type account struct {
	Name     string    `form:"name"`
	Age      int       `form:"age"`
	Tags     []string  `form:"tags"`
	Company  company   `form:"company"`
	Pictures []picture `form:"pictures"`
}

type company struct {
	Name string
}

func TestNode_Decode(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"name":     " Jane ",
		"age":      "33",
		"tags":     []any{"go"},
		"company":  map[string]any{"name": "Acme"},
		"pictures": []any{map[string]any{"title": "a"}, map[string]any{"title": "b"}},
	}

	t.Run("decodes a valid node", func(t *testing.T) {
		n := form.New(input)
		n.Field("name").Map(form.Trim).Check("required")
		n.Field("age").Check("integer")
		n.FieldSet("tags")
		n.Form("company").Field("name")
		for _, p := range n.FormSet("pictures").Nodes() {
			p.Field("title").Check("required")
		}

		var got account
		require.NoError(t, n.Decode(&got))
		assert.Equal(t, account{
			Name:     "Jane",
			Age:      33,
			Tags:     []string{"go"},
			Company:  company{Name: "Acme"},
			Pictures: []picture{{Title: "a"}, {Title: "b"}},
		}, got)
	})

	t.Run("refuses an invalid node", func(t *testing.T) {
		n := form.New(map[string]any{"name": ""})
		n.Field("name").Check("required")

		var got account
		err := n.Decode(&got)
		require.Error(t, err)
		assert.ErrorIs(t, err, form.ErrInvalid)

		var errs form.Errors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("name"))
		assert.Equal(t, account{}, got)
	})

	t.Run("rejects a non-pointer target", func(t *testing.T) {
		n := form.New(map[string]any{"name": "x"})
		n.Field("name")

		assert.Error(t, n.Decode(account{}))
	})
}
