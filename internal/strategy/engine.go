// Package strategy contains the moving-average decision engine driving paper fills.
package strategy

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Detachm/mini-quant-proj/internal/market"
	"github.com/Detachm/mini-quant-proj/internal/metrics"
	"github.com/Detachm/mini-quant-proj/internal/paper"
	"github.com/Detachm/mini-quant-proj/internal/pipe"
)

// Engine reduces the incoming trade stream into position changes. It owns the
// price window and the ledger outright and runs on a single goroutine, so
// determinism follows from queue arrival order alone.
type Engine struct {
	window    *PriceWindow
	ledger    *paper.Ledger
	agg       *metrics.Aggregator
	recorder  paper.FillRecorder
	log       zerolog.Logger
	threshold float64 // half-width of the hysteresis band as a fraction of the MA
	position  market.Position
	now       func() time.Time
}

// Option configures Engine construction parameters.
type Option func(*Engine)

// WithClock overrides the wall clock used for decision latency.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRecorder attaches a fill audit trail.
func WithRecorder(r paper.FillRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// NewEngine builds an engine with a window of windowSize prices and a
// hysteresis band of thresholdBps basis points around the moving average.
func NewEngine(windowSize, thresholdBps int, ledger *paper.Ledger, agg *metrics.Aggregator, log zerolog.Logger, opts ...Option) *Engine {
	if thresholdBps < 0 {
		thresholdBps = 0
	}
	e := &Engine{
		window:    NewPriceWindow(windowSize),
		ledger:    ledger,
		agg:       agg,
		log:       log,
		threshold: float64(thresholdBps) / 10000,
		position:  market.Flat,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Position returns the current state of the position machine.
func (e *Engine) Position() market.Position { return e.position }

// OnTrade processes one trade and returns the resulting signal. The window
// must fill before any decision fires; once full, a price strictly above the
// upper band opens a long and a price strictly below the lower band closes
// it. Equality never triggers, so the signal cannot flap at the band edge.
func (e *Engine) OnTrade(t market.Trade) (market.Signal, error) {
	e.window.Push(t.Price)
	e.agg.IncTrades()
	e.agg.SetLastPrice(t.Price)
	if !e.window.Full() {
		return market.SignalNone, nil
	}

	ma := e.window.Mean()
	upper := ma * (1 + e.threshold)
	lower := ma * (1 - e.threshold)

	sig := market.SignalNone
	switch {
	case e.position == market.Flat && t.Price > upper:
		sig = market.SignalBuy
	case e.position == market.Long && t.Price < lower:
		sig = market.SignalSell
	}
	if sig == market.SignalNone {
		return sig, nil
	}

	latency := e.now().Sub(t.Ts).Milliseconds()
	if latency < 0 {
		latency = 0
	}
	e.agg.ObserveLatency(latency)
	e.agg.IncDecisions()

	if err := e.ledger.ApplyFill(sig, t.Price); err != nil {
		// The state machine should make this unreachable; a failure here is a
		// broken invariant, not a recoverable condition.
		return sig, fmt.Errorf("apply %s fill at %.2f: %w", sig, t.Price, err)
	}
	if sig == market.SignalBuy {
		e.position = market.Long
	} else {
		e.position = market.Flat
	}
	e.agg.IncFills()
	equity := e.ledger.Equity(t.Price)
	e.agg.SetPnl(equity)

	if e.recorder != nil {
		e.recorder.Record(paper.Fill{
			Symbol: t.Symbol,
			Side:   sig.String(),
			Price:  t.Price,
			Qty:    e.ledger.UnitSize(),
			Equity: equity,
			Ts:     t.Ts,
		})
	}
	e.log.Info().
		Int64("ts", t.Ts.UnixMilli()).
		Float64("price", t.Price).
		Float64("ma", ma).
		Str("side", sig.String()).
		Float64("equity", equity).
		Msg("decision")
	return sig, nil
}

// Run consumes the queue until it is closed and drained. A non-nil error
// means a core invariant broke and the pipeline must stop.
func (e *Engine) Run(q *pipe.Queue) error {
	for t := range q.C() {
		if _, err := e.OnTrade(t); err != nil {
			return err
		}
	}
	return nil
}
