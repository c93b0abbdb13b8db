package storage

import (
	"context"

	"lpPool/internal/model"
)

// Storage defines a sink for journal records.
type Storage interface {
	PutOperationBatch(ctx context.Context, records []model.OperationRecord) error
}

// Multi fans a batch out to several sinks in order, stopping at the first error.
type Multi []Storage

func (m Multi) PutOperationBatch(ctx context.Context, records []model.OperationRecord) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.PutOperationBatch(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// Sinks flattens s into its individual sinks so callers can retry each one
// on its own. Nil entries are dropped.
func Sinks(s Storage) []Storage {
	multi, ok := s.(Multi)
	if !ok {
		if s == nil {
			return nil
		}
		return []Storage{s}
	}
	var out []Storage
	for _, inner := range multi {
		out = append(out, Sinks(inner)...)
	}
	return out
}
