// Package pipe connects ingestion to the strategy engine via a bounded queue.
package pipe

import "github.com/Detachm/mini-quant-proj/internal/market"

// Queue is a bounded, drop-on-full trade buffer. The send side never blocks:
// when the buffer is full the incoming trade is discarded so a slow consumer
// cannot stall ingestion. The receive side blocks until a trade is available
// or the queue is closed.
type Queue struct {
	ch chan market.Trade
}

// New builds a queue holding at most capacity trades.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{ch: make(chan market.Trade, capacity)}
}

// TryPush enqueues the trade if there is room and reports whether it was
// accepted. A full queue drops the new trade, keeping the oldest buffered ones.
func (q *Queue) TryPush(t market.Trade) bool {
	select {
	case q.ch <- t:
		return true
	default:
		return false
	}
}

// C exposes the receive side for the single consumer.
func (q *Queue) C() <-chan market.Trade { return q.ch }

// Close ends the stream. Pending trades remain receivable; the consumer's
// range loop terminates once they are drained.
func (q *Queue) Close() { close(q.ch) }

// Len reports the number of buffered trades.
func (q *Queue) Len() int { return len(q.ch) }

// Cap reports the configured capacity.
func (q *Queue) Cap() int { return cap(q.ch) }
