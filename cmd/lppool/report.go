package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lpPool/internal/config"
	"lpPool/internal/report"
	"lpPool/internal/storage/postgres"
)

func runReport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}

	windowDuration, err := time.ParseDuration(cfg.Window)
	if err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}
	if windowDuration <= 0 {
		return fmt.Errorf("window must be positive")
	}
	windowSeconds := uint64(windowDuration.Seconds())
	if windowSeconds == 0 {
		return fmt.Errorf("window must be at least 1s")
	}

	recomputeFrom, err := config.ParseTimestamp(cfg.RecomputeFrom)
	if err != nil {
		return fmt.Errorf("parse recompute-from: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink report.MetricsSink = report.LogSink{Logger: logger}
	var stateStore report.StateStore
	if cfg.StateFile != "" {
		stateStore = &report.FileStateStore{Path: cfg.StateFile, WindowSeconds: windowSeconds}
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = store
		if stateStore == nil {
			stateStore = &report.DBStateStore{Store: store, WindowSeconds: windowSeconds}
		}
	}

	reporter := report.NewReporter(report.Config{
		WindowSeconds: windowSeconds,
		BatchSize:     cfg.BatchSize,
		RecomputeFrom: recomputeFrom,
		StateStore:    stateStore,
	}, sink, logger)

	logger.Info("report start",
		zap.String("input", cfg.Input),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Uint64("window_seconds", windowSeconds),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Uint64("recompute_from", recomputeFrom),
	)

	_, err = reporter.Run(ctx, cfg.Input)
	return err
}
