// Command formd serves the signup schema over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/formkit/internal/api"
	"github.com/dmitrymomot/formkit/internal/config"
	"github.com/dmitrymomot/formkit/internal/httpserver"
	"github.com/dmitrymomot/formkit/internal/signup"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/metrics"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.ServiceName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithContextExtractors(logger.RequestIDExtractor),
	)
	slog.SetDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return err
	}

	var (
		store signup.EmailStore = signup.NewMemoryIndex()
		ready []func(context.Context) error
	)
	if cfg.Redis.URL != "" {
		idx, err := signup.Connect(ctx, cfg.Redis.URL, cfg.Redis.EmailSet)
		if err != nil {
			return err
		}
		defer idx.Close()
		store = idx
		ready = append(ready, idx.Healthcheck)
	} else {
		log.WarnContext(ctx, "REDIS_URL is empty, registered emails are kept in memory", logger.Component("formd"))
	}

	router := api.NewRouter(api.Deps{
		Signup:       signup.New(store, signup.WithLogger(log), signup.WithRecorder(rec)),
		Log:          log,
		Gatherer:     reg,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		Ready:        ready,
	})

	srv := httpserver.New(
		httpserver.WithAddr(cfg.HTTP.Addr),
		httpserver.WithTimeouts(cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, cfg.HTTP.IdleTimeout),
		httpserver.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		httpserver.WithLogger(log),
	)
	return srv.Run(ctx, router)
}
