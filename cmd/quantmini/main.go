package main

import (
	"context"
	"errors"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/Detachm/mini-quant-proj/internal/config"
	"github.com/Detachm/mini-quant-proj/internal/exchange"
	"github.com/Detachm/mini-quant-proj/internal/metrics"
	"github.com/Detachm/mini-quant-proj/internal/paper"
	"github.com/Detachm/mini-quant-proj/internal/pipe"
	"github.com/Detachm/mini-quant-proj/internal/strategy"
	"github.com/Detachm/mini-quant-proj/internal/util"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	log := util.NewLogger("info")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = util.NewLogger(cfg.App.LogLevel)

	agg := metrics.NewAggregator()
	srv := metrics.Serve(cfg.App.MetricsAddr, agg)
	defer srv.Close()
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	feed := exchange.NewFeed(cfg.Feed.Provider, cfg.Feed.Symbol, agg, log)
	q := pipe.New(cfg.Queue.Capacity)

	// The feed owns the send side: when the stream ends, closing the queue
	// lets the engine drain the remainder and stop.
	go func() {
		if err := feed.Run(ctx, q); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("feed stopped")
		}
		q.Close()
	}()

	ledger := paper.NewLedger(cfg.Paper.UnitSize)
	var opts []strategy.Option
	if cfg.Paper.FillsPath != "" {
		rec, err := paper.NewJSONLRecorder(cfg.Paper.FillsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Paper.FillsPath).Msg("open fills recorder")
		}
		defer rec.Close()
		opts = append(opts, strategy.WithRecorder(rec))
	}
	engine := strategy.NewEngine(cfg.Strategy.WindowSize, cfg.Strategy.ThresholdBps, ledger, agg, log, opts...)

	log.Info().
		Str("symbol", cfg.Feed.Symbol).
		Str("provider", cfg.Feed.Provider).
		Int("window", cfg.Strategy.WindowSize).
		Int("threshold_bps", cfg.Strategy.ThresholdBps).
		Msg("engine started")

	if err := engine.Run(q); err != nil {
		log.Fatal().Err(err).Msg("engine halted on invariant breach")
	}
	log.Info().Msg("event stream ended, shutting down")
}
