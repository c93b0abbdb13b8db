package journal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lpPool/internal/model"
	"lpPool/internal/pool"
	"lpPool/internal/storage"
)

// RunConfig holds runtime settings for the journal runner.
type RunConfig struct {
	PoolName  string
	BatchSize uint64
	Retry     RetryPolicy
}

// Summary counts what a run did.
type Summary struct {
	Applied uint64
	Failed  uint64
	Skipped uint64
	LastSeq uint64
}

// Runner applies operations to a pool and journals every outcome.
type Runner struct {
	cfg        RunConfig
	pool       *pool.Pool
	storage    storage.Storage
	checkpoint CheckpointStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewRunner builds a Runner with its dependencies. checkpoint may be nil.
func NewRunner(cfg RunConfig, p *pool.Pool, sink storage.Storage, checkpoint CheckpointStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		pool:       p,
		storage:    sink,
		checkpoint: checkpoint,
		logger:     logger,
		now:        time.Now,
	}
}

// Pool returns the pool the runner mutates. After a resume it is the restored pool.
func (r *Runner) Pool() *pool.Pool {
	return r.pool
}

// Run applies ops in order, writing journal records and a checkpoint after each batch.
func (r *Runner) Run(ctx context.Context, ops []model.Operation) (Summary, error) {
	var summary Summary
	if r.pool == nil {
		return summary, fmt.Errorf("pool is nil")
	}
	if r.storage == nil {
		return summary, fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return summary, fmt.Errorf("batch size must be greater than zero")
	}

	if err := r.resume(ctx, &summary); err != nil {
		return summary, err
	}

	pending := make([]model.Operation, 0, len(ops))
	for _, op := range ops {
		if op.Seq <= summary.LastSeq {
			summary.Skipped++
			continue
		}
		pending = append(pending, op)
	}
	if summary.Skipped > 0 {
		r.logger.Info("skip applied operations", zap.Uint64("skipped", summary.Skipped), zap.Uint64("last_seq", summary.LastSeq))
	}
	if len(pending) == 0 {
		r.logger.Info("nothing to apply", zap.Uint64("last_seq", summary.LastSeq))
		return summary, nil
	}

	ranges, err := SplitRange(0, uint64(len(pending)-1), r.cfg.BatchSize)
	if err != nil {
		return summary, err
	}

	for _, batchRange := range ranges {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		batch := pending[batchRange.From : batchRange.To+1]
		records := make([]model.OperationRecord, 0, len(batch))
		processedAt := r.now().UTC()
		for _, op := range batch {
			if op.Timestamp == 0 {
				op.Timestamp = uint64(processedAt.Unix())
			}
			rec := Apply(r.pool, r.cfg.PoolName, op)
			rec.ProcessedAt = processedAt.Format(time.RFC3339Nano)
			if rec.Failed() {
				summary.Failed++
				r.logger.Warn("operation rejected",
					zap.Uint64("seq", rec.Seq),
					zap.String("op", string(rec.Kind)),
					zap.String("amount", rec.Amount),
					zap.String("error", rec.Error),
				)
			} else {
				summary.Applied++
			}
			records = append(records, rec)
		}

		// a sink that accepted the batch is not written again when a later one fails
		for _, sink := range storage.Sinks(r.storage) {
			err := withRetry(ctx, r.cfg.Retry, r.logger, "store journal", func(ctx context.Context) error {
				return sink.PutOperationBatch(ctx, records)
			})
			if err != nil {
				return summary, fmt.Errorf("store journal: %w", err)
			}
		}

		summary.LastSeq = batch[len(batch)-1].Seq
		if r.checkpoint != nil {
			cp := Checkpoint{
				LastSeq:   summary.LastSeq,
				Pool:      r.pool.Snapshot(),
				UpdatedAt: processedAt.Format(time.RFC3339Nano),
			}
			err := withRetry(ctx, r.cfg.Retry, r.logger, "save checkpoint", func(ctx context.Context) error {
				return r.checkpoint.Save(ctx, cp)
			})
			if err != nil {
				return summary, fmt.Errorf("save checkpoint: %w", err)
			}
		}

		reserves := r.pool.Reserves()
		r.logger.Info("batch complete",
			zap.Int("operations", len(records)),
			zap.Uint64("last_seq", summary.LastSeq),
			zap.Stringer("token_reserve", reserves.Token),
			zap.Stringer("staked_reserve", reserves.Staked),
			zap.Stringer("lp_supply", reserves.Lp),
		)
	}

	return summary, nil
}

func (r *Runner) resume(ctx context.Context, summary *Summary) error {
	if r.checkpoint == nil {
		return nil
	}
	cp, ok, err := r.checkpoint.Load(ctx)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	if !ok {
		return nil
	}

	current := r.pool.Snapshot()
	if cp.Pool.Price != current.Price || cp.Pool.FeeMin != current.FeeMin ||
		cp.Pool.FeeMax != current.FeeMax || cp.Pool.LiquidityTarget != current.LiquidityTarget {
		return fmt.Errorf("checkpoint pool parameters differ from configuration (price %s, fee %s-%s, target %s)",
			cp.Pool.Price, cp.Pool.FeeMin, cp.Pool.FeeMax, cp.Pool.LiquidityTarget)
	}

	restored, err := pool.Restore(cp.Pool)
	if err != nil {
		return fmt.Errorf("restore checkpoint: %w", err)
	}
	r.pool = restored
	summary.LastSeq = cp.LastSeq
	r.logger.Info("resume from checkpoint", zap.Uint64("last_seq", cp.LastSeq))
	return nil
}
