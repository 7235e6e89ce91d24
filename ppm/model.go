// Package ppm provides a prediction by partial matching context model for arithmetic coding.
//
// A Model keeps one frequency table per context, where a context is the sequence of up to Order() symbols
// preceding the current one. A symbol that has not been seen in the longest available context is coded
// as a run of escape symbols, each dropping to the next shorter context, ending either at a context that has
// seen the symbol or at the order -1 table where every symbol has frequency 1.
//
// Contexts are never evicted, so memory grows up to symbolLimit^order contexts in the worst case.
// Orders 2 to 4 are the practical range.
package ppm

import (
	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

var (
	// ErrOrder is returned for a model order below -1.
	ErrOrder = errors.New("model order must be at least -1")

	// ErrEscape is returned when the escape symbol is not a valid symbol.
	ErrEscape = errors.New("escape symbol out of range")

	// ErrHistory is returned when a history is longer than the model order.
	ErrHistory = errors.New("history longer than model order")
)

// absent is the index of the placeholder for contexts that have not been created yet.
// The placeholder is never read or written.
const absent int32 = 0

// context is a node of the context tree.
type context struct {
	frequencies *ac.SimpleFrequencyTable

	// children are indexed by the symbol preceding this context's history.
	// It is nil at the deepest level.
	children []int32
}

// A Model is an order-N PPM model over the symbols 0 to symbolLimit-1,
// one of which is reserved as the escape symbol.
// Encoders and decoders must drive their Models with the same sequence of calls.
type Model struct {
	order        int
	symbolLimit  int
	escapeSymbol int

	// contexts[0] is the absent placeholder.
	contexts []context
	root     int32

	orderMinus1 *ac.FlatFrequencyTable
}

// NewModel returns an empty model.
// Order -1 disables context modeling altogether, and order 0 uses only the unconditioned root context.
func NewModel(order, symbolLimit, escapeSymbol int) (*Model, error) {
	if order < -1 {
		return nil, errors.Wrapf(ErrOrder, "%d", order)
	}
	if escapeSymbol < 0 || escapeSymbol >= symbolLimit {
		return nil, errors.Wrapf(ErrEscape, "%d not in [0, %d)", escapeSymbol, symbolLimit)
	}
	flat, err := ac.NewFlatFrequencyTable(symbolLimit)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	m := &Model{
		order:        order,
		symbolLimit:  symbolLimit,
		escapeSymbol: escapeSymbol,
		contexts:     make([]context, 1, 64),
		root:         absent,
		orderMinus1:  flat,
	}
	if order >= 0 {
		root, err := m.newContext(order >= 1)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		m.root = root
	}
	return m, nil
}

// Order returns the maximum number of preceding symbols a context conditions on.
func (m *Model) Order() int { return m.order }

// EscapeSymbol returns the reserved escape symbol.
func (m *Model) EscapeSymbol() int { return m.escapeSymbol }

// Len returns the number of contexts created so far.
func (m *Model) Len() int { return len(m.contexts) - 1 }

// newContext appends a context whose escape symbol starts at frequency 1.
func (m *Model) newContext(hasChildren bool) (int32, error) {
	freqs, err := ac.NewSimpleFrequencyTable(make([]int, m.symbolLimit))
	if err != nil {
		return absent, errors.Wrap(err, "")
	}
	if err := freqs.Increment(m.escapeSymbol); err != nil {
		return absent, errors.Wrap(err, "")
	}
	ctx := context{frequencies: freqs}
	if hasChildren {
		ctx.children = make([]int32, m.symbolLimit)
	}
	m.contexts = append(m.contexts, ctx)
	return int32(len(m.contexts) - 1), nil
}

// lookup returns the context reached from the root along history, or absent.
func (m *Model) lookup(history []int) int32 {
	idx := m.root
	for _, sym := range history {
		if idx == absent {
			return absent
		}
		children := m.contexts[idx].children
		if children == nil {
			panic("context tree deeper than model order")
		}
		idx = children[sym]
	}
	return idx
}

// Context returns the frequency table of the context for history, most recent symbol first,
// and whether that context exists.
func (m *Model) Context(history []int) (ac.FrequencyTable, bool) {
	if err := m.checkHistory(history); err != nil {
		return nil, false
	}
	idx := m.lookup(history)
	if idx == absent {
		return nil, false
	}
	return m.contexts[idx].frequencies, true
}

// IncrementContexts records that symbol followed history.
// It increments symbol in the root context and in every context along history,
// creating the missing ones.
func (m *Model) IncrementContexts(history []int, symbol int) error {
	if m.order == -1 {
		return nil
	}
	if err := m.checkHistory(history); err != nil {
		return err
	}
	if symbol < 0 || symbol >= m.symbolLimit {
		return errors.Wrapf(ac.ErrSymbolRange, "%d not in [0, %d)", symbol, m.symbolLimit)
	}

	idx := m.root
	if err := m.contexts[idx].frequencies.Increment(symbol); err != nil {
		return errors.Wrap(err, "")
	}
	for i, sym := range history {
		children := m.contexts[idx].children
		if children == nil {
			return errors.Wrapf(ac.ErrInternal, "no children at depth %d", i)
		}
		if children[sym] == absent {
			child, err := m.newContext(i+1 < m.order)
			if err != nil {
				return errors.Wrap(err, "")
			}
			children[sym] = child
		}
		idx = children[sym]
		if err := m.contexts[idx].frequencies.Increment(symbol); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

// Encode writes symbol given history, using the longest context that has seen symbol
// and escaping out of every longer existing context.
// The escape symbol itself is always coded at order -1.
func (m *Model) Encode(enc *ac.Encoder, history []int, symbol int) error {
	if err := m.checkHistory(history); err != nil {
		return err
	}
	if symbol < 0 || symbol >= m.symbolLimit {
		return errors.Wrapf(ac.ErrSymbolRange, "%d not in [0, %d)", symbol, m.symbolLimit)
	}
	for order := len(history); order >= 0; order-- {
		idx := m.lookup(history[:order])
		if idx == absent {
			continue
		}
		freqs := m.contexts[idx].frequencies
		if symbol != m.escapeSymbol && freqs.Get(symbol) > 0 {
			return errors.Wrap(enc.Write(freqs, symbol), "")
		}
		if err := enc.Write(freqs, m.escapeSymbol); err != nil {
			return errors.Wrapf(err, "escape at order %d", order)
		}
	}
	return errors.Wrap(enc.Write(m.orderMinus1, symbol), "")
}

// Decode reads the symbol that follows history.
// It mirrors Encode: an escape read at any non-negative order moves on to the next shorter context.
func (m *Model) Decode(dec *ac.Decoder, history []int) (int, error) {
	if err := m.checkHistory(history); err != nil {
		return 0, err
	}
	for order := len(history); order >= 0; order-- {
		idx := m.lookup(history[:order])
		if idx == absent {
			continue
		}
		symbol, err := dec.Read(m.contexts[idx].frequencies)
		if err != nil {
			return 0, errors.Wrapf(err, "order %d", order)
		}
		if symbol != m.escapeSymbol {
			return symbol, nil
		}
	}
	symbol, err := dec.Read(m.orderMinus1)
	if err != nil {
		return 0, errors.Wrap(err, "order -1")
	}
	return symbol, nil
}

// Walk calls fn for every context in depth first order, children in symbol order.
// path is the context's history, most recent symbol first; fn must not retain it.
func (m *Model) Walk(fn func(path []int, freqs ac.FrequencyTable)) {
	if m.root == absent {
		return
	}
	path := make([]int, 0, m.order)
	var walk func(idx int32)
	walk = func(idx int32) {
		ctx := m.contexts[idx]
		fn(path, ctx.frequencies)
		for sym, child := range ctx.children {
			if child == absent {
				continue
			}
			path = append(path, sym)
			walk(child)
			path = path[:len(path)-1]
		}
	}
	walk(m.root)
}

func (m *Model) checkHistory(history []int) error {
	if len(history) > m.order && len(history) > 0 {
		return errors.Wrapf(ErrHistory, "%d > %d", len(history), m.order)
	}
	for _, sym := range history {
		if sym < 0 || sym >= m.symbolLimit {
			return errors.Wrapf(ac.ErrSymbolRange, "history symbol %d", sym)
		}
	}
	return nil
}
