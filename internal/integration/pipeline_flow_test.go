package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Detachm/mini-quant-proj/internal/exchange"
	"github.com/Detachm/mini-quant-proj/internal/metrics"
	"github.com/Detachm/mini-quant-proj/internal/paper"
	"github.com/Detachm/mini-quant-proj/internal/pipe"
	"github.com/Detachm/mini-quant-proj/internal/strategy"
)

// The stub feed ramps price upward, so a rising crossover is guaranteed once
// the window fills: the pipeline must produce a buy fill end to end.
func TestPipelineProducesFill(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	agg := metrics.NewAggregator()
	feed := exchange.NewFeed(exchange.ProviderStub, "BTCUSDT", agg, zerolog.Nop(),
		exchange.WithStubInterval(time.Millisecond))
	q := pipe.New(64)

	go func() {
		_ = feed.Run(ctx, q)
		q.Close()
	}()

	ledger := paper.NewLedger(1)
	engine := strategy.NewEngine(5, 1, ledger, agg, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- engine.Run(q) }()

	deadline := time.After(4 * time.Second)
	for agg.Snapshot().FillsTotal == 0 {
		select {
		case <-deadline:
			t.Fatalf("no fill produced: %+v", agg.Snapshot())
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Stop the pipeline before inspecting engine-owned state.
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("engine returned error: %v", err)
	}

	s := agg.Snapshot()
	if s.DecisionsTotal != s.FillsTotal {
		t.Fatalf("decision/fill coupling broken: %+v", s)
	}
	if s.LatencyCount != int64(s.DecisionsTotal) {
		t.Fatalf("expected one latency sample per decision, got %+v", s)
	}
	if s.TradesTotal == 0 {
		t.Fatalf("no trades counted")
	}
	// Prices only rise on the stub, so the position opened and never closed.
	if ledger.Qty() != 1 {
		t.Fatalf("expected open long after buy fill, got qty %v", ledger.Qty())
	}
	if got := ledger.Equity(s.LastPrice); s.LastPrice > 0 && got < ledger.Cash() {
		t.Fatalf("equity %v inconsistent with cash %v at price %v", got, ledger.Cash(), s.LastPrice)
	}
}
