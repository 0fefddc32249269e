// Package exchange hosts connectors for market data tick sources.
package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Detachm/mini-quant-proj/internal/market"
	"github.com/Detachm/mini-quant-proj/internal/metrics"
	"github.com/Detachm/mini-quant-proj/internal/pipe"
)

const (
	// ProviderStub emits deterministic synthetic trades (useful for tests/offline work).
	ProviderStub = "stub"
	// ProviderBinance streams live aggregate trades from Binance public websockets.
	ProviderBinance = "binance"
)

const (
	defaultStubInterval  = 200 * time.Millisecond
	defaultBinanceWSBase = "wss://stream.binance.com:9443"
)

// Feed normalizes raw venue messages into market.Trade values and pushes them
// onto the bounded queue. Pushes never block: when the queue is full the trade
// is dropped and counted, so a slow consumer cannot stall ingestion.
type Feed struct {
	provider     string
	symbol       string
	log          zerolog.Logger
	agg          *metrics.Aggregator
	wsBase       string
	stubInterval time.Duration
}

// Option configures Feed construction parameters.
type Option func(*Feed)

// WithWSBase overrides the websocket base URL (used to point at test servers).
func WithWSBase(base string) Option {
	return func(f *Feed) {
		if base != "" {
			f.wsBase = strings.TrimSuffix(base, "/")
		}
	}
}

// WithStubInterval overrides the synthetic tick cadence.
func WithStubInterval(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.stubInterval = d
		}
	}
}

// NewFeed constructs a feed backed by the requested provider.
func NewFeed(provider, symbol string, agg *metrics.Aggregator, log zerolog.Logger, opts ...Option) *Feed {
	if provider == "" {
		provider = ProviderStub
	}
	f := &Feed{
		provider:     strings.ToLower(provider),
		symbol:       strings.ToUpper(strings.TrimSpace(symbol)),
		log:          log,
		agg:          agg,
		wsBase:       defaultBinanceWSBase,
		stubInterval: defaultStubInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run pushes trades onto the queue until the stream ends or the context is
// canceled. The feed does not reconnect; a clean close returns nil and the
// caller closes the queue to stop the consumer.
func (f *Feed) Run(ctx context.Context, q *pipe.Queue) error {
	switch f.provider {
	case ProviderBinance:
		return f.runBinance(ctx, q)
	default:
		return f.runStub(ctx, q)
	}
}

func (f *Feed) push(q *pipe.Queue, t market.Trade) {
	if !q.TryPush(t) {
		f.agg.IncDropped()
	}
}

func (f *Feed) runStub(ctx context.Context, q *pipe.Queue) error {
	ticker := time.NewTicker(f.stubInterval)
	defer ticker.Stop()

	px := 100.0
	var id int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			px += 0.1
			id++
			f.push(q, market.Trade{
				Symbol:  f.symbol,
				TradeID: id,
				Price:   px,
				Qty:     1,
				Ts:      ts,
			})
		}
	}
}
