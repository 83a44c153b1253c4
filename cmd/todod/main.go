package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/todo-service/internal/api"
	"github.com/idilsaglam/todo-service/internal/config"
	"github.com/idilsaglam/todo-service/internal/logging"
	"github.com/idilsaglam/todo-service/internal/store/memstore"
)

func main() {
	fs := flag.NewFlagSet("todod", flag.ExitOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "todod:", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, cfg.LoggingOptions())
	if cfg.File != "" {
		logger.Info("loaded config", "file", cfg.File)
	}

	var opts []memstore.Option
	if cfg.Seed {
		opts = append(opts, memstore.WithSeed(memstore.DefaultSeed()))
	}
	store := memstore.New(opts...)
	logger.Info("store ready", "items", store.Len())

	srv := api.NewServer(store, api.ServerOptions{
		Addr:              cfg.Listen,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		Logger:            logger,
	})
	if err := srv.Start(); err != nil {
		logger.Fatal("start failed", "err", err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signals
	logger.Info("shutting down", "signal", sig.String())

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	logger.Info("stopped")
}
