package report

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"lpPool/internal/model"
)

// Config controls report behavior.
type Config struct {
	WindowSeconds uint64
	BatchSize     int
	RecomputeFrom uint64
	StateStore    StateStore
}

// MetricsSink receives finished window metrics.
type MetricsSink interface {
	UpsertWindowMetrics(ctx context.Context, metrics []model.PoolWindowMetrics) error
}

// LogSink writes metrics to the logger when no database is configured.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) UpsertWindowMetrics(_ context.Context, metrics []model.PoolWindowMetrics) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, m := range metrics {
		fields := []zap.Field{
			zap.String("pool", m.PoolName),
			zap.Time("window_start", m.WindowStart),
			zap.Time("window_end", m.WindowEnd),
			zap.Uint64("swaps", m.SwapCount),
			zap.Uint64("deposits", m.DepositCount),
			zap.Uint64("withdrawals", m.WithdrawCount),
			zap.Uint64("failed", m.FailedCount),
			zap.Stringer("staked_in", m.StakedIn),
			zap.Stringer("tokens_in", m.TokensIn),
			zap.Stringer("tokens_out", m.TokensOut),
			zap.Stringer("fee_tokens", m.FeeTokens),
			zap.Stringer("lp_minted", m.LpMinted),
			zap.Stringer("lp_burned", m.LpBurned),
			zap.Stringer("token_reserve", m.ClosingReserves.Token),
			zap.Stringer("staked_reserve", m.ClosingReserves.Staked),
			zap.Stringer("lp_supply", m.ClosingReserves.Lp),
		}
		if m.FeeYield != nil {
			fields = append(fields, zap.String("fee_yield", *m.FeeYield))
		}
		logger.Info("window metrics", fields...)
	}
	return nil
}

// Stats counts journal lines seen by a run.
type Stats struct {
	Total   int
	Windows int
	Skipped int
	Failed  int
	MaxTs   uint64
}

// Reporter aggregates journal records into pool window metrics.
type Reporter struct {
	cfg          Config
	sink         MetricsSink
	logger       *zap.Logger
	accumulators map[string]*Accumulator
}

func NewReporter(cfg Config, sink MetricsSink, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reporter{
		cfg:          cfg,
		sink:         sink,
		logger:       logger,
		accumulators: make(map[string]*Accumulator),
	}
}

// Run executes aggregation over a journal JSONL file.
func (r *Reporter) Run(ctx context.Context, inputPath string) (Stats, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	return r.RunReader(ctx, file)
}

// RunReader executes aggregation over journal lines read from in.
func (r *Reporter) RunReader(ctx context.Context, in io.Reader) (Stats, error) {
	var stats Stats
	if r.sink == nil {
		return stats, fmt.Errorf("metrics sink is nil")
	}
	if r.cfg.WindowSeconds == 0 {
		return stats, fmt.Errorf("window seconds must be > 0")
	}
	if r.cfg.BatchSize <= 0 {
		r.cfg.BatchSize = 1000
	}

	startTs, err := r.loadStartTimestamp(ctx)
	if err != nil {
		return stats, err
	}

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.PoolWindowMetrics, 0, r.cfg.BatchSize)
	stats.MaxTs = startTs
	lastSeq := make(map[string]uint64)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Total++

		var record model.OperationRecord
		if err := json.Unmarshal(line, &record); err != nil {
			stats.Failed++
			r.logger.Warn("decode journal record", zap.Error(err))
			continue
		}

		if record.Timestamp <= startTs {
			stats.Skipped++
			continue
		}
		// replayed batches repeat sequence numbers already counted
		if seen, ok := lastSeq[record.Pool]; ok && record.Seq <= seen {
			stats.Skipped++
			r.logger.Debug("skip duplicate journal record", zap.String("pool", record.Pool), zap.Uint64("seq", record.Seq))
			continue
		}
		lastSeq[record.Pool] = record.Seq

		start := windowStart(record.Timestamp, r.cfg.WindowSeconds)
		acc := r.accumulators[record.Pool]
		if acc == nil {
			acc = NewAccumulator(record, start, start+r.cfg.WindowSeconds)
			r.accumulators[record.Pool] = acc
		} else if acc.WindowStart != start {
			batch = append(batch, acc.Metrics(r.cfg.WindowSeconds))
			stats.Windows++
			acc = NewAccumulator(record, start, start+r.cfg.WindowSeconds)
			r.accumulators[record.Pool] = acc
		}

		if err := acc.AddRecord(record); err != nil {
			stats.Failed++
			r.logger.Warn("aggregate journal record", zap.Error(err), zap.String("pool", record.Pool), zap.Uint64("seq", record.Seq))
			continue
		}

		if record.Timestamp > stats.MaxTs {
			stats.MaxTs = record.Timestamp
		}

		if len(batch) >= r.cfg.BatchSize {
			if err := r.sink.UpsertWindowMetrics(ctx, batch); err != nil {
				return stats, fmt.Errorf("store metrics: %w", err)
			}
			batch = batch[:0]

			if err := r.saveState(ctx, stats.MaxTs); err != nil {
				return stats, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan input: %w", err)
	}

	for _, acc := range r.accumulators {
		batch = append(batch, acc.Metrics(r.cfg.WindowSeconds))
		stats.Windows++
	}
	r.accumulators = make(map[string]*Accumulator)

	if len(batch) > 0 {
		if err := r.sink.UpsertWindowMetrics(ctx, batch); err != nil {
			return stats, fmt.Errorf("store metrics: %w", err)
		}
	}

	if err := r.saveState(ctx, stats.MaxTs); err != nil {
		return stats, err
	}

	r.logger.Info("report complete",
		zap.Int("total", stats.Total),
		zap.Int("windows", stats.Windows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

func (r *Reporter) loadStartTimestamp(ctx context.Context) (uint64, error) {
	if r.cfg.RecomputeFrom > 0 {
		return r.cfg.RecomputeFrom - 1, nil
	}
	if r.cfg.StateStore == nil {
		return 0, nil
	}
	last, ok, err := r.cfg.StateStore.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load state: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return last, nil
}

// saveState records the newest timestamp whose window is fully flushed.
func (r *Reporter) saveState(ctx context.Context, maxTs uint64) error {
	if r.cfg.StateStore == nil {
		return nil
	}

	if len(r.accumulators) == 0 {
		return r.cfg.StateStore.Save(ctx, maxTs)
	}

	safeTs := minOpenWindowStart(r.accumulators)
	if safeTs > 0 {
		safeTs = safeTs - 1
	}
	return r.cfg.StateStore.Save(ctx, safeTs)
}
