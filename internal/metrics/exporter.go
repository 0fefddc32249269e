package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tradesDesc = prometheus.NewDesc(
		"quant_trades_total", "Number of trades processed", nil, nil)
	decisionsDesc = prometheus.NewDesc(
		"quant_decisions_total", "Decisions made by strategy", nil, nil)
	fillsDesc = prometheus.NewDesc(
		"quant_fills_total", "Paper fills", nil, nil)
	droppedDesc = prometheus.NewDesc(
		"quant_dropped_total", "Trades dropped by the full event queue", nil, nil)
	pnlDesc = prometheus.NewDesc(
		"quant_pnl", "Equity value as PnL baseline", nil, nil)
	lastPriceDesc = prometheus.NewDesc(
		"quant_last_price", "Last trade price", nil, nil)
	latencyDesc = prometheus.NewDesc(
		"quant_latency_ms", "Decision latency summary (p50/p90/p99)", nil, nil)
)

// Collector renders aggregator snapshots as Prometheus metrics on scrape.
type Collector struct {
	agg *Aggregator
}

// NewCollector wraps the aggregator for registration with a registry.
func NewCollector(agg *Aggregator) *Collector { return &Collector{agg: agg} }

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- tradesDesc
	ch <- decisionsDesc
	ch <- fillsDesc
	ch <- droppedDesc
	ch <- pnlDesc
	ch <- lastPriceDesc
	ch <- latencyDesc
}

// Collect implements prometheus.Collector by taking one consistent snapshot.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.agg.Snapshot()
	ch <- prometheus.MustNewConstMetric(tradesDesc, prometheus.CounterValue, float64(s.TradesTotal))
	ch <- prometheus.MustNewConstMetric(decisionsDesc, prometheus.CounterValue, float64(s.DecisionsTotal))
	ch <- prometheus.MustNewConstMetric(fillsDesc, prometheus.CounterValue, float64(s.FillsTotal))
	ch <- prometheus.MustNewConstMetric(droppedDesc, prometheus.CounterValue, float64(s.DroppedTotal))
	ch <- prometheus.MustNewConstMetric(pnlDesc, prometheus.GaugeValue, s.Pnl)
	ch <- prometheus.MustNewConstMetric(lastPriceDesc, prometheus.GaugeValue, s.LastPrice)
	ch <- prometheus.MustNewConstSummary(latencyDesc, uint64(s.LatencyCount), 0, map[float64]float64{
		0.5:  float64(s.LatencyP50),
		0.9:  float64(s.LatencyP90),
		0.99: float64(s.LatencyP99),
	})
}

// Serve exposes the aggregator on addr under /metrics and returns the server.
func Serve(addr string, agg *Aggregator) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(agg))
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
