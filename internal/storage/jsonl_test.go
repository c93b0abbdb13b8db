package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lpPool/internal/model"
)

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")
	s := NewJsonlStorage(path)
	ctx := context.Background()

	first := []model.OperationRecord{{Pool: "default", Seq: 1, Kind: model.OpAddLiquidity, Amount: "100.000000"}}
	second := []model.OperationRecord{
		{Pool: "default", Seq: 2, Kind: model.OpSwap, Amount: "6.000000"},
		{Pool: "default", Seq: 3, Kind: model.OpSwap, Amount: "1.000000", Error: "calculation error"},
	}
	if err := s.PutOperationBatch(ctx, first); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := s.PutOperationBatch(ctx, nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if err := s.PutOperationBatch(ctx, second); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var seqs []uint64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec model.OperationRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		seqs = append(seqs, rec.Seq)
	}
	if len(seqs) != 3 || seqs[0] != 1 || seqs[2] != 3 {
		t.Fatalf("unexpected records: %v", seqs)
	}
}

type failingStorage struct{ err error }

func (f failingStorage) PutOperationBatch(context.Context, []model.OperationRecord) error {
	return f.err
}

type countingStorage struct{ batches int }

func (c *countingStorage) PutOperationBatch(context.Context, []model.OperationRecord) error {
	c.batches++
	return nil
}

func TestMultiStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	before := &countingStorage{}
	after := &countingStorage{}
	m := Multi{before, nil, failingStorage{err: boom}, after}

	err := m.PutOperationBatch(context.Background(), []model.OperationRecord{{Seq: 1}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if before.batches != 1 || after.batches != 0 {
		t.Fatalf("unexpected fan-out: before=%d after=%d", before.batches, after.batches)
	}
}

func TestSinksFlattensMulti(t *testing.T) {
	a, b, c := &countingStorage{}, &countingStorage{}, &countingStorage{}
	sinks := Sinks(Multi{a, nil, Multi{b, c}})
	if len(sinks) != 3 {
		t.Fatalf("expected 3 sinks, got %d", len(sinks))
	}
	if len(Sinks(a)) != 1 || Sinks(nil) != nil {
		t.Fatalf("single sink mismatch")
	}
}
