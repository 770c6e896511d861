package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campaign-earnings/internal/app"
	"campaign-earnings/internal/config"
	"campaign-earnings/internal/scheduler"
)

// main runs the view tracking worker. By default it refreshes views on the
// configured schedule; with -once it runs a single batch and exits.
func main() {
	once := flag.Bool("once", false, "run a single batch and exit")
	flag.Parse()

	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}
	logger := cfg.Log.New(os.Stdout, "campaign-earnings-worker")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap error", slog.Any("error", err))
		return
	}
	defer a.Close()

	sched, err := scheduler.New(a.Tracking, a.Locker, cfg.Redis, cfg.Tracking, logger)
	if err != nil {
		logger.Error("scheduler error", slog.Any("error", err))
		return
	}

	if *once {
		if _, _, err = sched.RunOnce(ctx); err != nil {
			logger.Error("batch failed", slog.Any("error", err))
			return
		}
		exitCode = 0
		return
	}

	// The worker serves only its metrics.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Metrics, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	sched.Start()
	logger.Info("worker started",
		slog.String("schedule", cfg.Tracking.Schedule),
		slog.Time("next_run", sched.Next(time.Now())))
	<-ctx.Done()

	stopCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err = sched.Stop(stopCtx); err != nil {
		logger.Error("scheduler stop error", slog.Any("error", err))
	}
	_ = srv.Shutdown(stopCtx)
	logger.Info("worker stopped")
	exitCode = 0
}
