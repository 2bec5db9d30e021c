package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/source"
)

type address struct {
	City string `form:"city"`
}

type picture struct {
	Title string `form:"title"`
}

type profile struct {
	Name     string    `form:"name"`
	Tags     []string  `form:"tags"`
	Address  address   `form:"address"`
	Pictures []picture `form:"pictures"`
	Manager  *address  `form:"manager"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	t.Run("converts nested values", func(t *testing.T) {
		t.Parallel()
		got, err := source.Struct(&profile{
			Name:     "Jane",
			Tags:     []string{"a", "b"},
			Address:  address{City: "Oslo"},
			Pictures: []picture{{Title: "sea"}},
			Manager:  &address{City: "Bergen"},
		})
		require.NoError(t, err)

		assert.Equal(t, "Jane", got["name"])
		assert.Equal(t, []any{"a", "b"}, got["tags"])
		assert.Equal(t, map[string]any{"city": "Oslo"}, got["address"])
		assert.Equal(t, []any{map[string]any{"title": "sea"}}, got["pictures"])
		assert.Equal(t, map[string]any{"city": "Bergen"}, got["manager"])
	})

	t.Run("rejects non-structs", func(t *testing.T) {
		t.Parallel()
		_, err := source.Struct(map[string]any{"a": 1})
		assert.ErrorIs(t, err, source.ErrFailedToDecodeStruct)
	})
}
