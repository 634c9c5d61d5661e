package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/levenlabs/go-lflag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pvyield/pvyield/pkg/estimator"
	"github.com/pvyield/pvyield/pkg/geocode"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/metrics"
	"github.com/pvyield/pvyield/pkg/server"
	"github.com/pvyield/pvyield/pkg/solcast"
	"github.com/pvyield/pvyield/pkg/storage"
)

func main() {
	ctx := context.Background()

	// a .env file is optional, it only fills in unset environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("pvyield", reg)

	// init packages
	sc := solcast.Configured(m)
	gc := geocode.Configured(m)
	s := storage.Configured()
	e := estimator.New(sc, s, gc, m)

	// init server
	srv := server.Configured(e, m, reg)

	// parse flags
	lflag.Configure()

	level, err := log.Setup()
	if err != nil {
		panic(err)
	}
	log.Ctx(ctx).DebugContext(ctx, "logger configured", slog.String("level", level.String()))

	if err := sc.Validate(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid solcast configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// If initialization inside lflag.Do failed, we wouldn't be here (panic).
	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
		}
	}()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
