// Package metrics aggregates pipeline counters, gauges, and decision latency.
package metrics

import (
	"sync"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// Latency histogram bounds in milliseconds. Three significant figures keeps
// the quantile error around 0.1%; samples beyond the range are clamped.
const (
	latencyMinMs = 1
	latencyMaxMs = 3_600_000
	latencySigF  = 3
)

// Aggregator holds process-wide pipeline metrics. The strategy engine is the
// only writer; any number of scrape handlers may read concurrently. A single
// mutex guards every field so a snapshot never observes a torn update, and
// each critical section does O(1) work with no I/O.
type Aggregator struct {
	mu        sync.Mutex
	trades    uint64
	decisions uint64
	fills     uint64
	dropped   uint64
	pnl       float64
	lastPrice float64
	latency   *hdrhistogram.Histogram
}

// Snapshot is a consistent point-in-time copy of the aggregator state.
type Snapshot struct {
	TradesTotal    uint64
	DecisionsTotal uint64
	FillsTotal     uint64
	DroppedTotal   uint64
	Pnl            float64
	LastPrice      float64
	LatencyCount   int64
	LatencyP50     int64
	LatencyP90     int64
	LatencyP99     int64
}

// NewAggregator builds an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		latency: hdrhistogram.New(latencyMinMs, latencyMaxMs, latencySigF),
	}
}

// IncTrades counts one ingested trade.
func (a *Aggregator) IncTrades() {
	a.mu.Lock()
	a.trades++
	a.mu.Unlock()
}

// IncDecisions counts one non-flat strategy decision.
func (a *Aggregator) IncDecisions() {
	a.mu.Lock()
	a.decisions++
	a.mu.Unlock()
}

// IncFills counts one paper fill.
func (a *Aggregator) IncFills() {
	a.mu.Lock()
	a.fills++
	a.mu.Unlock()
}

// IncDropped counts one trade discarded by the full queue.
func (a *Aggregator) IncDropped() {
	a.mu.Lock()
	a.dropped++
	a.mu.Unlock()
}

// SetLastPrice records the most recent trade price.
func (a *Aggregator) SetLastPrice(price float64) {
	a.mu.Lock()
	a.lastPrice = price
	a.mu.Unlock()
}

// SetPnl records current equity as the PnL gauge.
func (a *Aggregator) SetPnl(pnl float64) {
	a.mu.Lock()
	a.pnl = pnl
	a.mu.Unlock()
}

// ObserveLatency records one decision latency sample in milliseconds.
func (a *Aggregator) ObserveLatency(ms int64) {
	if ms < latencyMinMs {
		ms = latencyMinMs
	}
	if ms > latencyMaxMs {
		ms = latencyMaxMs
	}
	a.mu.Lock()
	_ = a.latency.RecordValue(ms)
	a.mu.Unlock()
}

// Snapshot copies all counters, gauges, and latency quantiles under one lock
// acquisition.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		TradesTotal:    a.trades,
		DecisionsTotal: a.decisions,
		FillsTotal:     a.fills,
		DroppedTotal:   a.dropped,
		Pnl:            a.pnl,
		LastPrice:      a.lastPrice,
		LatencyCount:   a.latency.TotalCount(),
		LatencyP50:     a.latency.ValueAtQuantile(50),
		LatencyP90:     a.latency.ValueAtQuantile(90),
		LatencyP99:     a.latency.ValueAtQuantile(99),
	}
}
