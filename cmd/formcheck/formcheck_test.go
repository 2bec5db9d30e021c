package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid yaml file prints the output", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "", "validate", "testdata/valid.yaml")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "jane@example.com", got["email"])
		assert.Contains(t, got, "password_hash")
		assert.NotContains(t, got, "password_confirmation")
	})

	t.Run("invalid json file lists the fields", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "", "validate", "testdata/invalid.json")
		require.ErrorIs(t, err, errInvalid)

		assert.Contains(t, out, "testdata/invalid.json: 4 invalid field(s)")
		assert.Contains(t, out, "  company.slug: slug\n")
		assert.Contains(t, out, "  name: length(2, 64)\n")
		assert.Contains(t, out, "  password: length(8, 72)\n")
		assert.Contains(t, out, "  pictures.0.title: required\n")
	})

	t.Run("stdin with explicit format and taken emails", func(t *testing.T) {
		t.Parallel()
		doc := `{"name":"Jane","email":"jane@example.com","password":"s3cret-pass","password_confirmation":"s3cret-pass",` +
			`"company":{"name":"Acme","slug":"acme"},"terms":"yes"}`
		out, _, err := run(t, doc, "validate", "--format", "json", "--taken", "jane@example.com")
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "email: unique_email")
	})

	t.Run("quiet valid run prints nothing", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "", "validate", "-q", "testdata/valid.yaml")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("verbose logs to stderr", func(t *testing.T) {
		t.Parallel()
		_, errOut, err := run(t, "", "validate", "-v", "-q", "testdata/valid.yaml")
		require.NoError(t, err)
		assert.Contains(t, errOut, "form validated")
	})

	t.Run("decode errors", func(t *testing.T) {
		t.Parallel()
		_, _, err := run(t, "{", "validate")
		assert.ErrorContains(t, err, "stdin: failed to parse JSON body")

		_, _, err = run(t, "", "validate", "--format", "xml")
		assert.ErrorContains(t, err, `unknown format "xml"`)

		_, _, err = run(t, "", "validate", "testdata/missing.json")
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "formcheck version dev\n", out)
}
