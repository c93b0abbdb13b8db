package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lpPool/internal/model"
	"lpPool/internal/storage/postgres"
)

// Checkpoint is the pool state after the last applied operation.
type Checkpoint struct {
	LastSeq   uint64             `json:"last_seq"`
	Pool      model.PoolSnapshot `json:"pool"`
	UpdatedAt string             `json:"updated_at"`
}

// CheckpointStore persists checkpoints between runs.
type CheckpointStore interface {
	Load(ctx context.Context) (Checkpoint, bool, error)
	Save(ctx context.Context, cp Checkpoint) error
}

// FileCheckpointStore persists checkpoints to disk.
type FileCheckpointStore struct {
	path    string
	enabled bool
}

func NewFileCheckpointStore(path string, enabled bool) *FileCheckpointStore {
	return &FileCheckpointStore{path: path, enabled: enabled}
}

func (c *FileCheckpointStore) Load(_ context.Context) (Checkpoint, bool, error) {
	if !c.enabled || c.path == "" {
		return Checkpoint{}, false, nil
	}

	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return Checkpoint{}, false, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint: %w", err)
	}

	return cp, true, nil
}

func (c *FileCheckpointStore) Save(_ context.Context, cp Checkpoint) error {
	if !c.enabled || c.path == "" {
		return nil
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	if cp.UpdatedAt == "" {
		cp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}

// DBCheckpointStore keeps the checkpoint in the pools table.
type DBCheckpointStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBCheckpointStore) Load(ctx context.Context) (Checkpoint, bool, error) {
	if s == nil || s.Store == nil {
		return Checkpoint{}, false, nil
	}
	snap, lastSeq, ok, err := s.Store.LoadPool(ctx, s.Name)
	if err != nil || !ok {
		return Checkpoint{}, ok, err
	}
	return Checkpoint{LastSeq: lastSeq, Pool: snap}, true, nil
}

func (s *DBCheckpointStore) Save(ctx context.Context, cp Checkpoint) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SavePool(ctx, s.Name, cp.Pool, cp.LastSeq)
}

// MultiCheckpointStore saves to every store and loads from the first that has a checkpoint.
type MultiCheckpointStore []CheckpointStore

func (m MultiCheckpointStore) Load(ctx context.Context) (Checkpoint, bool, error) {
	for _, s := range m {
		cp, ok, err := s.Load(ctx)
		if err != nil {
			return Checkpoint{}, false, err
		}
		if ok {
			return cp, true, nil
		}
	}
	return Checkpoint{}, false, nil
}

func (m MultiCheckpointStore) Save(ctx context.Context, cp Checkpoint) error {
	for _, s := range m {
		if err := s.Save(ctx, cp); err != nil {
			return err
		}
	}
	return nil
}
