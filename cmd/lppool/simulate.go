package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lpPool/internal/chain"
	"lpPool/internal/config"
	"lpPool/internal/fixed"
	"lpPool/internal/journal"
	"lpPool/internal/model"
	"lpPool/internal/pool"
	"lpPool/internal/storage"
	"lpPool/internal/storage/postgres"
)

type poolParams struct {
	price           model.Price
	feeMin          fixed.Percentage
	feeMax          fixed.Percentage
	liquidityTarget model.TokenAmount
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.PriceFeed == "" && cfg.Price == "" {
		return fmt.Errorf("price or price feed is required")
	}

	params, err := parsePoolParams(cfg)
	if err != nil {
		return err
	}

	ops, err := journal.ReadOperationsFile(cfg.In)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := storage.Multi{storage.NewJsonlStorage(cfg.Out)}
	checkpoints := journal.MultiCheckpointStore{journal.NewFileCheckpointStore(cfg.Checkpoint, cfg.CheckpointEnabled)}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
		checkpoints = append(checkpoints, &journal.DBCheckpointStore{Store: store, Name: cfg.PoolName})
	}

	if cfg.PriceFeed != "" {
		price, err := feedPrice(ctx, cfg, checkpoints, logger)
		if err != nil {
			return err
		}
		params.price = price
	}

	p, err := pool.New(params.price, params.feeMin, params.feeMax, params.liquidityTarget)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	runner := journal.NewRunner(journal.RunConfig{
		PoolName:  cfg.PoolName,
		BatchSize: cfg.BatchSize,
		Retry: journal.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Backoff:    cfg.RetryBackoff,
		},
	}, p, sinks, checkpoints, logger)

	logger.Info("simulate start",
		zap.String("pool", cfg.PoolName),
		zap.Stringer("price", params.price),
		zap.Stringer("fee_min", params.feeMin),
		zap.Stringer("fee_max", params.feeMax),
		zap.Stringer("liquidity_target", params.liquidityTarget),
		zap.String("in", cfg.In),
		zap.Int("operations", len(ops)),
		zap.String("out", cfg.Out),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	summary, err := runner.Run(ctx, ops)
	if err != nil {
		return err
	}

	reserves := runner.Pool().Reserves()
	logger.Info("simulate complete",
		zap.Uint64("applied", summary.Applied),
		zap.Uint64("failed", summary.Failed),
		zap.Uint64("skipped", summary.Skipped),
		zap.Uint64("last_seq", summary.LastSeq),
		zap.Stringer("token_reserve", reserves.Token),
		zap.Stringer("staked_reserve", reserves.Staked),
		zap.Stringer("lp_supply", reserves.Lp),
	)
	return nil
}

func parsePoolParams(cfg config.Config) (poolParams, error) {
	var params poolParams

	if cfg.Price != "" {
		price, err := fixed.Parse(cfg.Price)
		if err != nil {
			return params, fmt.Errorf("parse price: %w", err)
		}
		params.price = model.Price(price)
	}

	feeMin, err := fixed.ParsePercentage(cfg.FeeMin)
	if err != nil {
		return params, fmt.Errorf("parse fee-min: %w", err)
	}
	feeMax, err := fixed.ParsePercentage(cfg.FeeMax)
	if err != nil {
		return params, fmt.Errorf("parse fee-max: %w", err)
	}
	target, err := fixed.Parse(cfg.LiquidityTarget)
	if err != nil {
		return params, fmt.Errorf("parse liquidity-target: %w", err)
	}

	params.feeMin = feeMin
	params.feeMax = feeMax
	params.liquidityTarget = model.TokenAmount(target)
	return params, nil
}

// feedPrice reads the pool price from the configured feed. A pool price never
// changes, so once a checkpoint exists its price wins over the live feed.
func feedPrice(ctx context.Context, cfg config.Config, checkpoints journal.CheckpointStore, logger *zap.Logger) (model.Price, error) {
	if cfg.RPCURL == "" {
		return 0, fmt.Errorf("rpc url is required with a price feed")
	}
	if !common.IsHexAddress(cfg.PriceFeed) {
		return 0, fmt.Errorf("invalid price feed address: %s", cfg.PriceFeed)
	}

	cp, ok, err := checkpoints.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load checkpoint: %w", err)
	}
	if ok {
		logger.Info("price pinned by checkpoint",
			zap.Stringer("price", cp.Pool.Price),
			zap.Uint64("last_seq", cp.LastSeq),
		)
		return cp.Pool.Price, nil
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("chain id: %w", err)
	}
	block, err := chainClient.LatestBlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest block: %w", err)
	}

	answer, err := chain.FetchPrice(ctx, chainClient, common.HexToAddress(cfg.PriceFeed), nil)
	if err != nil {
		return 0, fmt.Errorf("fetch price: %w", err)
	}

	logger.Info("price from feed",
		zap.String("feed", common.HexToAddress(cfg.PriceFeed).Hex()),
		zap.String("chain_id", chainID.String()),
		zap.Uint64("block", block),
		zap.Stringer("price", answer.Price),
		zap.Uint8("decimals", answer.Decimals),
		zap.Uint64("updated_at", answer.UpdatedAt),
	)
	return answer.Price, nil
}
