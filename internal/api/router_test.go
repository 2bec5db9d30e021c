package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/formkit/internal/api"
	"github.com/dmitrymomot/formkit/internal/signup"
	"github.com/dmitrymomot/formkit/pkg/metrics"
)

const validBody = `{
	"name": "Jane Doe",
	"email": "jane@example.com",
	"password": "s3cret-pass",
	"password_confirmation": "s3cret-pass",
	"tags": ["go"],
	"company": {"name": "Acme", "slug": "acme"},
	"terms": true
}`

// envelope mirrors api.Response without the nested error tree, which has no
// concrete type to decode into.
type envelope struct {
	Code  string `json:"code"`
	Data  any    `json:"data"`
	Error *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	v := signup.New(signup.NewMemoryIndex(), signup.WithBcryptCost(bcrypt.MinCost), signup.WithRecorder(rec))
	return api.NewRouter(api.Deps{Signup: v, Gatherer: reg, MaxBodyBytes: 4 << 10})
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	var resp envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestSignup(t *testing.T) {
	t.Parallel()

	h := newRouter(t)

	t.Run("creates an account", func(t *testing.T) {
		rec, resp := do(t, h, http.MethodPost, "/signup", "application/json", validBody)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "created", resp.Code)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "jane@example.com", data["email"])
		assert.NotContains(t, data, "PasswordHash")
	})

	t.Run("rejects a taken email with flattened details", func(t *testing.T) {
		rec, resp := do(t, h, http.MethodPost, "/signup", "application/json", validBody)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "validation_error", resp.Error.Code)
		assert.Equal(t, []string{"unique_email"}, resp.Error.Details["email"])
	})

	t.Run("takes the team from the path", func(t *testing.T) {
		body := strings.Replace(validBody, "jane@example.com", "team@example.com", 1)
		rec, resp := do(t, h, http.MethodPost, "/teams/core/signup", "application/json", body)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "core", resp.Data.(map[string]any)["team"])
	})

	t.Run("accepts urlencoded bracket params", func(t *testing.T) {
		body := "name=Joe+Doe&email=joe%40example.com&password=s3cret-pass&password_confirmation=s3cret-pass" +
			"&company%5Bname%5D=Acme&company%5Bslug%5D=acme&pictures%5B0%5D%5Btitle%5D=Sea" +
			"&pictures%5B0%5D%5Burl%5D=https%3A%2F%2Fexample.com%2Fsea.png&terms=on"
		rec, resp := do(t, h, http.MethodPost, "/signup", "application/x-www-form-urlencoded", body)
		assert.Equal(t, http.StatusCreated, rec.Code)
		pictures := resp.Data.(map[string]any)["pictures"].([]any)
		assert.Len(t, pictures, 1)
	})

	t.Run("nested errors in details", func(t *testing.T) {
		body := `{"company": {"slug": "acme"}, "pictures": [{"title": "x", "url": "nope"}]}`
		rec, resp := do(t, h, http.MethodPost, "/signup", "application/json", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{"required"}, resp.Error.Details["company.name"])
		assert.Equal(t, []string{"url"}, resp.Error.Details["pictures.0.url"])
		assert.Equal(t, []string{"required"}, resp.Error.Details["name"])
	})

	t.Run("transport errors", func(t *testing.T) {
		tests := []struct {
			name        string
			contentType string
			body        string
			status      int
			code        string
		}{
			{"malformed json", "application/json", `{"name":`, http.StatusBadRequest, "bad_request"},
			{"unsupported media type", "text/csv", "a,b", http.StatusUnsupportedMediaType, "unsupported_media_type"},
			{"too large", "application/json", `{"name":"` + strings.Repeat("x", 8<<10) + `"}`, http.StatusRequestEntityTooLarge, "request_entity_too_large"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec, resp := do(t, h, http.MethodPost, "/signup", tt.contentType, tt.body)
				assert.Equal(t, tt.status, rec.Code)
				assert.Equal(t, tt.code, resp.Code)
			})
		}
	})
}

func TestRouter_Probes(t *testing.T) {
	t.Parallel()

	h := newRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec, _ = do(t, h, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	_, _ = do(t, h, http.MethodPost, "/signup", "application/json", `{}`)
	rec, _ = do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `formkit_validations_total{form="signup",result="invalid"} 1`)

	rec, resp := do(t, h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", resp.Code)

	rec, resp = do(t, h, http.MethodGet, "/signup", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", resp.Code)
}
