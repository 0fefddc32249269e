// Package paper simulates order execution against an in-memory ledger.
package paper

import (
	"errors"

	"github.com/Detachm/mini-quant-proj/internal/market"
)

// Ledger tracks the single-unit paper position and its cash balance. It is
// owned exclusively by the strategy engine, so no locking is needed here.
type Ledger struct {
	unitSize float64
	qty      float64
	cash     float64
}

// NewLedger builds a flat ledger with zero cash and the supplied unit size.
func NewLedger(unitSize float64) *Ledger {
	if unitSize <= 0 {
		unitSize = 1
	}
	return &Ledger{unitSize: unitSize}
}

// ApplyFill executes a buy or sell at the supplied price. The strategy state
// machine guarantees the preconditions; a violation here means a core
// invariant broke and the caller must treat the error as fatal.
func (l *Ledger) ApplyFill(sig market.Signal, price float64) error {
	switch sig {
	case market.SignalBuy:
		if l.qty != 0 {
			return errors.New("buy fill while position open")
		}
		l.qty = l.unitSize
		l.cash -= price * l.unitSize
	case market.SignalSell:
		if l.qty != l.unitSize {
			return errors.New("sell fill while flat")
		}
		l.qty = 0
		l.cash += price * l.unitSize
	default:
		return errors.New("fill requires a buy or sell signal")
	}
	return nil
}

// Equity marks the ledger to the supplied price: cash plus open position value.
func (l *Ledger) Equity(price float64) float64 {
	return l.cash + l.qty*price
}

// Qty returns the open position size (0 or the unit size).
func (l *Ledger) Qty() float64 { return l.qty }

// UnitSize returns the fixed per-fill quantity.
func (l *Ledger) UnitSize() float64 { return l.unitSize }

// Cash returns the current cash balance; negative while capital is deployed.
func (l *Ledger) Cash() float64 { return l.cash }
