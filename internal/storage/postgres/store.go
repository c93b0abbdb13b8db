package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

// Store provides Postgres persistence for pools, the journal and metrics.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables used by the store if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// PutOperationBatch upserts journal records keyed by pool and sequence.
func (s *Store) PutOperationBatch(ctx context.Context, records []model.OperationRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		var fee *string
		if r.Fee != nil {
			text := fixed.FormatPadded(r.Fee.Raw())
			fee = &text
		}
		var errText *string
		if r.Error != "" {
			errText = &r.Error
		}
		batch.Queue(`
			INSERT INTO pool_operations (
				pool_name, seq, op, owner, ts, amount, lp_minted, lp_burned, tokens_in, tokens_out,
				staked_in, staked_out, fee, fee_tokens, token_reserve, staked_reserve, lp_reserve,
				error, processed_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
			ON CONFLICT (pool_name, seq)
			DO UPDATE SET
				op = EXCLUDED.op,
				owner = EXCLUDED.owner,
				ts = EXCLUDED.ts,
				amount = EXCLUDED.amount,
				lp_minted = EXCLUDED.lp_minted,
				lp_burned = EXCLUDED.lp_burned,
				tokens_in = EXCLUDED.tokens_in,
				tokens_out = EXCLUDED.tokens_out,
				staked_in = EXCLUDED.staked_in,
				staked_out = EXCLUDED.staked_out,
				fee = EXCLUDED.fee,
				fee_tokens = EXCLUDED.fee_tokens,
				token_reserve = EXCLUDED.token_reserve,
				staked_reserve = EXCLUDED.staked_reserve,
				lp_reserve = EXCLUDED.lp_reserve,
				error = EXCLUDED.error,
				processed_at = EXCLUDED.processed_at
		`,
			r.Pool,
			int64(r.Seq),
			string(r.Kind),
			r.Owner,
			int64(r.Timestamp),
			r.Amount,
			optionalAmount(r.LpMinted),
			optionalAmount(r.LpBurned),
			optionalAmount(r.TokensIn),
			optionalAmount(r.TokensOut),
			optionalAmount(r.StakedIn),
			optionalAmount(r.StakedOut),
			fee,
			optionalAmount(r.FeeTokens),
			amountText(r.Reserves.Token),
			amountText(r.Reserves.Staked),
			amountText(r.Reserves.Lp),
			errText,
			r.ProcessedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SavePool upserts a pool snapshot together with the last applied sequence.
func (s *Store) SavePool(ctx context.Context, name string, snap model.PoolSnapshot, lastSeq uint64) error {
	if name == "" {
		return fmt.Errorf("pool name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pools (
			name, price, fee_min, fee_max, liquidity_target,
			token_amount, st_token_amount, lp_token_amount, last_seq, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
		ON CONFLICT (name)
		DO UPDATE SET
			price = EXCLUDED.price,
			fee_min = EXCLUDED.fee_min,
			fee_max = EXCLUDED.fee_max,
			liquidity_target = EXCLUDED.liquidity_target,
			token_amount = EXCLUDED.token_amount,
			st_token_amount = EXCLUDED.st_token_amount,
			lp_token_amount = EXCLUDED.lp_token_amount,
			last_seq = EXCLUDED.last_seq,
			updated_at = now()
	`,
		name,
		amountText(snap.Price),
		fixed.FormatPadded(snap.FeeMin.Raw()),
		fixed.FormatPadded(snap.FeeMax.Raw()),
		amountText(snap.LiquidityTarget),
		amountText(snap.Reserves.Token),
		amountText(snap.Reserves.Staked),
		amountText(snap.Reserves.Lp),
		int64(lastSeq),
	)
	return err
}

// LoadPool returns the stored snapshot and last applied sequence for a pool.
func (s *Store) LoadPool(ctx context.Context, name string) (model.PoolSnapshot, uint64, bool, error) {
	if name == "" {
		return model.PoolSnapshot{}, 0, false, fmt.Errorf("pool name required")
	}
	var (
		price, feeMin, feeMax, target string
		token, staked, lp             string
		lastSeq                       int64
	)
	row := s.pool.QueryRow(ctx, `
		SELECT price::text, fee_min::text, fee_max::text, liquidity_target::text,
			token_amount::text, st_token_amount::text, lp_token_amount::text, last_seq
		FROM pools WHERE name=$1
	`, name)
	if err := row.Scan(&price, &feeMin, &feeMax, &target, &token, &staked, &lp, &lastSeq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PoolSnapshot{}, 0, false, nil
		}
		return model.PoolSnapshot{}, 0, false, err
	}

	var snap model.PoolSnapshot
	fields := []struct {
		text   string
		target interface{ UnmarshalText([]byte) error }
	}{
		{price, &snap.Price},
		{feeMin, &snap.FeeMin},
		{feeMax, &snap.FeeMax},
		{target, &snap.LiquidityTarget},
		{token, &snap.Reserves.Token},
		{staked, &snap.Reserves.Staked},
		{lp, &snap.Reserves.Lp},
	}
	for _, f := range fields {
		if err := f.target.UnmarshalText([]byte(f.text)); err != nil {
			return model.PoolSnapshot{}, 0, false, fmt.Errorf("decode pool %s: %w", name, err)
		}
	}
	return snap, uint64(lastSeq), true, nil
}

// UpsertWindowMetrics inserts or updates window metrics.
func (s *Store) UpsertWindowMetrics(ctx context.Context, metrics []model.PoolWindowMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(`
			INSERT INTO pool_window_metrics (
				pool_name, window_size_seconds, window_start_ts, window_end_ts,
				swap_count, deposit_count, withdraw_count, failed_count,
				staked_in, tokens_in, tokens_out, fee_tokens, lp_minted, lp_burned,
				token_reserve, staked_reserve, lp_reserve, fee_yield, last_seq, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,now(),now())
			ON CONFLICT (pool_name, window_size_seconds, window_start_ts)
			DO UPDATE SET
				window_end_ts = EXCLUDED.window_end_ts,
				swap_count = EXCLUDED.swap_count,
				deposit_count = EXCLUDED.deposit_count,
				withdraw_count = EXCLUDED.withdraw_count,
				failed_count = EXCLUDED.failed_count,
				staked_in = EXCLUDED.staked_in,
				tokens_in = EXCLUDED.tokens_in,
				tokens_out = EXCLUDED.tokens_out,
				fee_tokens = EXCLUDED.fee_tokens,
				lp_minted = EXCLUDED.lp_minted,
				lp_burned = EXCLUDED.lp_burned,
				token_reserve = EXCLUDED.token_reserve,
				staked_reserve = EXCLUDED.staked_reserve,
				lp_reserve = EXCLUDED.lp_reserve,
				fee_yield = EXCLUDED.fee_yield,
				last_seq = EXCLUDED.last_seq,
				updated_at = now()
		`,
			m.PoolName,
			m.WindowSizeSecs,
			m.WindowStart,
			m.WindowEnd,
			int64(m.SwapCount),
			int64(m.DepositCount),
			int64(m.WithdrawCount),
			int64(m.FailedCount),
			amountText(m.StakedIn),
			amountText(m.TokensIn),
			amountText(m.TokensOut),
			amountText(m.FeeTokens),
			amountText(m.LpMinted),
			amountText(m.LpBurned),
			amountText(m.ClosingReserves.Token),
			amountText(m.ClosingReserves.Staked),
			amountText(m.ClosingReserves.Lp),
			m.FeeYield,
			int64(m.LastSeq),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range metrics {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_ts FROM report_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(ts), true, nil
}

// SaveState upserts last_processed_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO report_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, int64(ts))
	return err
}

type textAmount interface {
	~uint64
	MarshalText() ([]byte, error)
}

func amountText[T textAmount](v T) string {
	return fixed.FormatPadded(uint64(v))
}

func optionalAmount[T textAmount](v *T) *string {
	if v == nil {
		return nil
	}
	text := amountText(*v)
	return &text
}
