package report

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

type memorySink struct {
	metrics []model.PoolWindowMetrics
}

func (m *memorySink) UpsertWindowMetrics(_ context.Context, metrics []model.PoolWindowMetrics) error {
	m.metrics = append(m.metrics, metrics...)
	return nil
}

func (m *memorySink) find(pool string, start int64) *model.PoolWindowMetrics {
	for i := range m.metrics {
		if m.metrics[i].PoolName == pool && m.metrics[i].WindowStart.Unix() == start {
			return &m.metrics[i]
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func amount(text string) uint64 { return fixed.MustParse(text) }

func journalLines(t *testing.T, records []model.OperationRecord) string {
	t.Helper()
	var sb strings.Builder
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func scenarioJournal() []model.OperationRecord {
	fee := func(text string) *fixed.Percentage {
		p, _ := fixed.ParsePercentage(text)
		return &p
	}
	return []model.OperationRecord{
		{
			Pool: "main", Seq: 1, Kind: model.OpAddLiquidity, Timestamp: 3600,
			TokensIn: ptr(model.TokenAmount(amount("100."))), LpMinted: ptr(model.LpTokenAmount(amount("100."))),
			Reserves: model.PoolReserves{Token: model.TokenAmount(amount("100.")), Lp: model.LpTokenAmount(amount("100."))},
		},
		{
			Pool: "main", Seq: 2, Kind: model.OpSwap, Timestamp: 3700,
			StakedIn: ptr(model.StakedTokenAmount(amount("6."))), TokensOut: ptr(model.TokenAmount(amount("8.991"))),
			Fee: fee("0.001"), FeeTokens: ptr(model.TokenAmount(amount("0.009"))),
			Reserves: model.PoolReserves{Token: model.TokenAmount(amount("91.009")), Staked: model.StakedTokenAmount(amount("6.")), Lp: model.LpTokenAmount(amount("100."))},
		},
		{
			Pool: "main", Seq: 3, Kind: model.OpSwap, Timestamp: 3800, Error: "calculation error",
			Reserves: model.PoolReserves{Token: model.TokenAmount(amount("91.009")), Staked: model.StakedTokenAmount(amount("6.")), Lp: model.LpTokenAmount(amount("100."))},
		},
		{
			Pool: "main", Seq: 4, Kind: model.OpRemoveLiquidity, Timestamp: 7300,
			LpBurned: ptr(model.LpTokenAmount(amount("100."))), StakedOut: ptr(model.StakedTokenAmount(amount("6."))),
			TokensOut: ptr(model.TokenAmount(amount("91.009"))),
		},
	}
}

func TestReporterWindows(t *testing.T) {
	sink := &memorySink{}
	statePath := filepath.Join(t.TempDir(), "state.json")
	reporter := NewReporter(Config{WindowSeconds: 3600, StateStore: &FileStateStore{Path: statePath}}, sink, nil)

	stats, err := reporter.RunReader(context.Background(), strings.NewReader(journalLines(t, scenarioJournal())))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != 4 || stats.Windows != 2 || stats.MaxTs != 7300 {
		t.Fatalf("stats mismatch: %+v", stats)
	}

	first := sink.find("main", 3600)
	if first == nil {
		t.Fatalf("missing first window: %+v", sink.metrics)
	}
	if first.DepositCount != 1 || first.SwapCount != 1 || first.FailedCount != 1 || first.LastSeq != 3 {
		t.Fatalf("first window counts mismatch: %+v", first)
	}
	if first.FeeTokens != model.TokenAmount(amount("0.009")) || first.TokensOut != model.TokenAmount(amount("8.991")) {
		t.Fatalf("first window totals mismatch: %+v", first)
	}
	if first.ClosingReserves.Token != model.TokenAmount(amount("91.009")) {
		t.Fatalf("first window closing mismatch: %+v", first.ClosingReserves)
	}
	// 0.009 / 91.009
	if first.FeeYield == nil || !strings.HasPrefix(*first.FeeYield, "0.000098891318") {
		t.Fatalf("fee yield mismatch: %v", first.FeeYield)
	}

	second := sink.find("main", 7200)
	if second == nil || second.WithdrawCount != 1 || second.LpBurned != model.LpTokenAmount(amount("100.")) {
		t.Fatalf("second window mismatch: %+v", second)
	}
	if second.FeeYield != nil {
		t.Fatalf("empty pool should have no fee yield")
	}

	last, ok, err := (&FileStateStore{Path: statePath}).Load(context.Background())
	if err != nil || !ok || last != 7300 {
		t.Fatalf("state mismatch: %d %v %v", last, ok, err)
	}

	// a second run starts after the saved state
	sink2 := &memorySink{}
	reporter = NewReporter(Config{WindowSeconds: 3600, StateStore: &FileStateStore{Path: statePath}}, sink2, nil)
	stats, err = reporter.RunReader(context.Background(), strings.NewReader(journalLines(t, scenarioJournal())))
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if stats.Skipped != 4 || len(sink2.metrics) != 0 {
		t.Fatalf("rerun should skip everything: %+v", stats)
	}
}

func TestReporterSkipsReplayedRecords(t *testing.T) {
	records := scenarioJournal()
	// a retried batch lands in the journal a second time
	replayed := append(append([]model.OperationRecord{}, records[:2]...), records[:2]...)
	replayed = append(replayed, records[2:]...)

	sink := &memorySink{}
	reporter := NewReporter(Config{WindowSeconds: 3600}, sink, nil)
	stats, err := reporter.RunReader(context.Background(), strings.NewReader(journalLines(t, replayed)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Skipped != 2 {
		t.Fatalf("expected 2 skipped duplicates, got %+v", stats)
	}
	first := sink.find("main", 3600)
	if first == nil || first.DepositCount != 1 || first.SwapCount != 1 {
		t.Fatalf("duplicates counted: %+v", first)
	}
	if first.TokensIn != model.TokenAmount(amount("100.")) || first.FeeTokens != model.TokenAmount(amount("0.009")) {
		t.Fatalf("duplicate totals: %+v", first)
	}
}

func TestReporterRecomputeFrom(t *testing.T) {
	sink := &memorySink{}
	reporter := NewReporter(Config{WindowSeconds: 3600, RecomputeFrom: 7200}, sink, nil)
	stats, err := reporter.RunReader(context.Background(), strings.NewReader(journalLines(t, scenarioJournal())))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Skipped != 3 || len(sink.metrics) != 1 {
		t.Fatalf("recompute mismatch: %+v %+v", stats, sink.metrics)
	}
}

func TestReporterSkipsBadLines(t *testing.T) {
	sink := &memorySink{}
	reporter := NewReporter(Config{WindowSeconds: 60}, sink, nil)
	input := "not json\n" + journalLines(t, scenarioJournal()[:1])
	stats, err := reporter.RunReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Failed != 1 || stats.Windows != 1 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
}

func TestReporterValidatesConfig(t *testing.T) {
	if _, err := NewReporter(Config{}, &memorySink{}, nil).RunReader(context.Background(), strings.NewReader("")); err == nil {
		t.Fatalf("expected error for zero window")
	}
	if _, err := NewReporter(Config{WindowSeconds: 60}, nil, nil).RunReader(context.Background(), strings.NewReader("")); err == nil {
		t.Fatalf("expected error for nil sink")
	}
}

func TestLogSink(t *testing.T) {
	if err := (LogSink{}).UpsertWindowMetrics(context.Background(), []model.PoolWindowMetrics{{PoolName: "main"}}); err != nil {
		t.Fatalf("log sink: %v", err)
	}
}
