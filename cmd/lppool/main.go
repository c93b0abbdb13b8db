package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "lppool",
		Short:        "Staked token liquidity pool simulator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Apply an operations file to a pool and journal the results",
		RunE:  runSimulate,
	}

	simulateCmd.Flags().String("pool-name", "default", "pool name used for checkpoints and journal rows")
	simulateCmd.Flags().String("price", "", "staked token price in tokens (e.g. 1.5)")
	simulateCmd.Flags().String("fee-min", "", "minimum swap fee percentage (e.g. 0.001)")
	simulateCmd.Flags().String("fee-max", "", "maximum swap fee percentage (e.g. 0.09)")
	simulateCmd.Flags().String("liquidity-target", "", "token reserve above which the minimum fee applies")
	simulateCmd.Flags().String("rpc", "", "EVM RPC URL for the price feed")
	simulateCmd.Flags().String("price-feed", "", "price feed contract address, overrides --price")
	simulateCmd.Flags().String("in", "", "input operations JSONL")
	simulateCmd.Flags().String("out", "./data/journal.jsonl", "output journal JSONL path")
	simulateCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	simulateCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	simulateCmd.Flags().Uint64("batch-size", 500, "operations per journal batch")
	simulateCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	simulateCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	simulateCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	simulateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(simulateCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate a journal into pool window metrics",
		RunE:  runReport,
	}

	reportCmd.Flags().String("in", "./data/journal.jsonl", "input journal JSONL")
	reportCmd.Flags().String("window", "1h", "aggregation window (e.g. 1m, 5m, 1h)")
	reportCmd.Flags().String("pg-dsn", "", "Postgres DSN, metrics are logged when empty")
	reportCmd.Flags().Int("batch-size", 1000, "batch size for metric writes")
	reportCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	reportCmd.Flags().String("recompute-from", "", "recompute from timestamp (unix seconds or RFC3339)")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(reportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
