// Package api exposes the signup schema over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formkit/internal/httpserver"
	"github.com/dmitrymomot/formkit/internal/signup"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/source"
)

type Deps struct {
	Signup       *signup.Validator
	Log          *slog.Logger
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
	// Ready checks back the /readyz probe.
	Ready []func(context.Context) error
}

// NewRouter wires the API routes and middleware.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = source.DefaultMaxBodySize
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Log))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { Error(w, ErrNotFound) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { Error(w, ErrMethodNotAllowed) })

	r.Get("/healthz", httpserver.HealthHandler(d.Log))
	r.Get("/readyz", httpserver.HealthHandler(d.Log, d.Ready...))
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(d.MaxBodyBytes))
		h := signupHandler(d.Signup, d.Log, d.MaxBodyBytes)
		r.Post("/signup", h)
		r.Post("/teams/{team}/signup", h)
	})

	return r
}

func signupHandler(v *signup.Validator, log *slog.Logger, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := source.Request(r, source.WithMaxBodySize(maxBody))
		if err != nil {
			log.InfoContext(r.Context(), "rejected request body", logger.Component("api"), logger.Error(err))
			Error(w, err)
			return
		}

		acc, err := v.Register(r.Context(), in)
		if err != nil {
			if !errors.Is(err, form.ErrInvalid) && classify(err).Status >= http.StatusInternalServerError {
				log.ErrorContext(r.Context(), "signup failed", logger.Component("api"), logger.Error(err))
			}
			Error(w, err)
			return
		}

		JSON(w, http.StatusCreated, "created", acc)
	}
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.DebugContext(r.Context(), "request served",
				logger.Component("api"),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
