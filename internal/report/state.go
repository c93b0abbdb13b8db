package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateStore persists the newest journal timestamp whose window was flushed.
type StateStore interface {
	Load(ctx context.Context) (uint64, bool, error)
	Save(ctx context.Context, ts uint64) error
}

// FileStateStore keeps report progress in a JSON file. The file records the
// window size it was written for, and Load refuses to resume with another.
type FileStateStore struct {
	Path          string
	WindowSeconds uint64
}

type reportState struct {
	FlushedThrough uint64 `json:"flushed_through_ts"`
	WindowSeconds  uint64 `json:"window_seconds"`
	UpdatedAt      string `json:"updated_at"`
}

func (s *FileStateStore) Load(_ context.Context) (uint64, bool, error) {
	if s == nil || s.Path == "" {
		return 0, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read report state: %w", err)
	}

	var st reportState
	if err := json.Unmarshal(data, &st); err != nil {
		return 0, false, fmt.Errorf("parse report state %s: %w", s.Path, err)
	}
	if st.WindowSeconds != 0 && s.WindowSeconds != 0 && st.WindowSeconds != s.WindowSeconds {
		return 0, false, fmt.Errorf("report state %s was written for %ds windows, not %ds",
			s.Path, st.WindowSeconds, s.WindowSeconds)
	}
	return st.FlushedThrough, true, nil
}

func (s *FileStateStore) Save(_ context.Context, ts uint64) error {
	if s == nil || s.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create report state dir: %w", err)
	}

	data, err := json.Marshal(reportState{
		FlushedThrough: ts,
		WindowSeconds:  s.WindowSeconds,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal report state: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report state: %w", err)
	}
	return os.Rename(tmp, s.Path)
}
