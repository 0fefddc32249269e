// Package market standardizes payloads shared between data ingestion and strategy layers.
package market

import "time"

// Trade models one executed trade report from the exchange feed, already
// normalized from the wire format. Immutable once constructed.
type Trade struct {
	Symbol     string
	TradeID    int64
	Price      float64
	Qty        float64
	Ts         time.Time // exchange event time, millisecond precision
	BuyerMaker bool
}

// Signal expresses the trading action produced by the strategy engine.
type Signal int

const (
	SignalNone Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Position enumerates the states of the strategy's position machine.
type Position int

const (
	// Flat means no open position.
	Flat Position = iota
	// Long means a single unit-sized long position is open.
	Long
)

func (p Position) String() string {
	if p == Long {
		return "LONG"
	}
	return "FLAT"
}
