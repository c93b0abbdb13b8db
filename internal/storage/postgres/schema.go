package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pools (
		name TEXT PRIMARY KEY,
		price NUMERIC(26,6) NOT NULL,
		fee_min NUMERIC(26,6) NOT NULL,
		fee_max NUMERIC(26,6) NOT NULL,
		liquidity_target NUMERIC(26,6) NOT NULL,
		token_amount NUMERIC(26,6) NOT NULL,
		st_token_amount NUMERIC(26,6) NOT NULL,
		lp_token_amount NUMERIC(26,6) NOT NULL,
		last_seq BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pool_operations (
		pool_name TEXT NOT NULL,
		seq BIGINT NOT NULL,
		op TEXT NOT NULL,
		owner TEXT NOT NULL,
		ts BIGINT NOT NULL,
		amount TEXT NOT NULL,
		lp_minted NUMERIC(26,6),
		lp_burned NUMERIC(26,6),
		tokens_in NUMERIC(26,6),
		tokens_out NUMERIC(26,6),
		staked_in NUMERIC(26,6),
		staked_out NUMERIC(26,6),
		fee NUMERIC(26,6),
		fee_tokens NUMERIC(26,6),
		token_reserve NUMERIC(26,6) NOT NULL,
		staked_reserve NUMERIC(26,6) NOT NULL,
		lp_reserve NUMERIC(26,6) NOT NULL,
		error TEXT,
		processed_at TEXT NOT NULL,
		PRIMARY KEY (pool_name, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS pool_window_metrics (
		pool_name TEXT NOT NULL,
		window_size_seconds BIGINT NOT NULL,
		window_start_ts TIMESTAMPTZ NOT NULL,
		window_end_ts TIMESTAMPTZ NOT NULL,
		swap_count BIGINT NOT NULL,
		deposit_count BIGINT NOT NULL,
		withdraw_count BIGINT NOT NULL,
		failed_count BIGINT NOT NULL,
		staked_in NUMERIC(26,6) NOT NULL,
		tokens_in NUMERIC(26,6) NOT NULL,
		tokens_out NUMERIC(26,6) NOT NULL,
		fee_tokens NUMERIC(26,6) NOT NULL,
		lp_minted NUMERIC(26,6) NOT NULL,
		lp_burned NUMERIC(26,6) NOT NULL,
		token_reserve NUMERIC(26,6) NOT NULL,
		staked_reserve NUMERIC(26,6) NOT NULL,
		lp_reserve NUMERIC(26,6) NOT NULL,
		fee_yield NUMERIC,
		last_seq BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (pool_name, window_size_seconds, window_start_ts)
	)`,
	`CREATE TABLE IF NOT EXISTS report_state (
		name TEXT PRIMARY KEY,
		last_processed_ts BIGINT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}
