package strategy

// PriceWindow keeps the last N trade prices in arrival order. Pushing onto a
// full window evicts the oldest price. N >= 1 is a configuration-time
// precondition.
type PriceWindow struct {
	prices []float64
	head   int
	count  int
}

// NewPriceWindow builds a window with capacity n.
func NewPriceWindow(n int) *PriceWindow {
	if n < 1 {
		n = 1
	}
	return &PriceWindow{prices: make([]float64, n)}
}

// Push appends a price, evicting the oldest once the window is at capacity.
func (w *PriceWindow) Push(price float64) {
	w.prices[(w.head+w.count)%len(w.prices)] = price
	if w.count < len(w.prices) {
		w.count++
		return
	}
	w.head = (w.head + 1) % len(w.prices)
}

// Full reports whether the window holds exactly N prices.
func (w *PriceWindow) Full() bool { return w.count == len(w.prices) }

// Len reports the number of prices currently held.
func (w *PriceWindow) Len() int { return w.count }

// Mean returns the arithmetic mean of the held prices. Only meaningful once
// the window is full; callers gate on Full.
func (w *PriceWindow) Mean() float64 {
	if w.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < w.count; i++ {
		sum += w.prices[(w.head+i)%len(w.prices)]
	}
	return sum / float64(w.count)
}

// Values returns the held prices oldest first.
func (w *PriceWindow) Values() []float64 {
	out := make([]float64, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.prices[(w.head+i)%len(w.prices)]
	}
	return out
}
