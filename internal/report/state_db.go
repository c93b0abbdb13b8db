package report

import (
	"context"
	"fmt"

	"lpPool/internal/storage/postgres"
)

// DBStateStore keeps report progress in the report_state table, one row per
// window size, so reports over different windows advance independently.
type DBStateStore struct {
	Store         *postgres.Store
	WindowSeconds uint64
}

func (s *DBStateStore) key() string {
	return fmt.Sprintf("report:%d", s.WindowSeconds)
}

func (s *DBStateStore) Load(ctx context.Context) (uint64, bool, error) {
	if s == nil || s.Store == nil {
		return 0, false, nil
	}
	return s.Store.LoadState(ctx, s.key())
}

func (s *DBStateStore) Save(ctx context.Context, ts uint64) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SaveState(ctx, s.key(), ts)
}
