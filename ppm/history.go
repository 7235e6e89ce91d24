package ppm

// A History holds the most recent symbols, most recent first, up to the model order.
type History struct {
	symbols []int
	order   int
}

// NewHistory returns an empty History for a model of the given order.
func NewHistory(order int) *History {
	n := order
	if n < 0 {
		n = 0
	}
	return &History{symbols: make([]int, 0, n), order: order}
}

// Push prepends symbol, dropping the oldest symbol once the history is full.
// It does nothing for orders below 1.
func (h *History) Push(symbol int) {
	if h.order < 1 {
		return
	}
	if len(h.symbols) < h.order {
		h.symbols = append(h.symbols, 0)
	}
	copy(h.symbols[1:], h.symbols)
	h.symbols[0] = symbol
}

// Symbols returns the history. It is only valid until the next Push.
func (h *History) Symbols() []int {
	return h.symbols
}
