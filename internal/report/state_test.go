package report

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := &FileStateStore{Path: path, WindowSeconds: 3600}

	if _, ok, err := store.Load(context.Background()); err != nil || ok {
		t.Fatalf("expected empty state, got ok=%v err=%v", ok, err)
	}
	if err := store.Save(context.Background(), 7199); err != nil {
		t.Fatalf("save: %v", err)
	}
	ts, ok, err := store.Load(context.Background())
	if err != nil || !ok || ts != 7199 {
		t.Fatalf("load mismatch: %d %v %v", ts, ok, err)
	}
}

func TestFileStateStoreRejectsOtherWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := (&FileStateStore{Path: path, WindowSeconds: 3600}).Save(context.Background(), 100); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, _, err := (&FileStateStore{Path: path, WindowSeconds: 60}).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "3600s windows") {
		t.Fatalf("expected window mismatch error, got %v", err)
	}

	// a reporter over another window must not resume from this state
	_, err = NewReporter(Config{WindowSeconds: 60, StateStore: &FileStateStore{Path: path, WindowSeconds: 60}}, &memorySink{}, nil).
		RunReader(context.Background(), strings.NewReader(""))
	if err == nil {
		t.Fatalf("expected reporter to refuse mismatched state")
	}
}
