package ac

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// maxFrequency bounds every frequency and every total, so that they fit in the 32-bit header fields.
const maxFrequency = math.MaxInt32

// A SimpleFrequencyTable is a mutable table of symbol frequencies.
// The number of symbols is fixed at construction.
// Cumulative frequencies are computed lazily in linear time and dropped on every mutation.
type SimpleFrequencyTable struct {
	frequencies []int

	// cumulative[i] is the sum of frequencies[0:i].
	// It is nil whenever it needs to be recomputed.
	cumulative []int

	// total is always the sum of frequencies.
	total int
}

// NewSimpleFrequencyTable returns a table holding a copy of freqs.
func NewSimpleFrequencyTable(freqs []int) (*SimpleFrequencyTable, error) {
	if len(freqs) < 1 {
		return nil, errors.Wrap(ErrSymbolLimit, "")
	}
	t := &SimpleFrequencyTable{frequencies: make([]int, len(freqs))}
	for i, f := range freqs {
		if f < 0 {
			return nil, errors.Wrapf(ErrNegativeFrequency, "symbol %d", i)
		}
		sum, err := addExact(t.total, f)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %d", i)
		}
		t.frequencies[i] = f
		t.total = sum
	}
	return t, nil
}

// NewSimpleFrequencyTableFrom returns a mutable copy of another table.
func NewSimpleFrequencyTableFrom(src FrequencyTable) (*SimpleFrequencyTable, error) {
	freqs := make([]int, src.SymbolLimit())
	for i := range freqs {
		freqs[i] = src.Get(i)
	}
	t, err := NewSimpleFrequencyTable(freqs)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return t, nil
}

func (t *SimpleFrequencyTable) SymbolLimit() int { return len(t.frequencies) }

func (t *SimpleFrequencyTable) Get(symbol int) int {
	t.mustSymbol(symbol)
	return t.frequencies[symbol]
}

func (t *SimpleFrequencyTable) Set(symbol, freq int) error {
	if err := t.checkSymbol(symbol); err != nil {
		return err
	}
	if freq < 0 {
		return errors.Wrapf(ErrNegativeFrequency, "%d", freq)
	}
	total, err := addExact(t.total-t.frequencies[symbol], freq)
	if err != nil {
		return errors.Wrapf(err, "set %d to %d", symbol, freq)
	}
	t.total = total
	t.frequencies[symbol] = freq
	t.cumulative = nil
	return nil
}

func (t *SimpleFrequencyTable) Increment(symbol int) error {
	if err := t.checkSymbol(symbol); err != nil {
		return err
	}
	if t.frequencies[symbol] == maxFrequency {
		return errors.Wrapf(ErrOverflow, "frequency of %d", symbol)
	}
	total, err := addExact(t.total, 1)
	if err != nil {
		return errors.Wrapf(err, "increment %d", symbol)
	}
	t.total = total
	t.frequencies[symbol]++
	t.cumulative = nil
	return nil
}

func (t *SimpleFrequencyTable) Total() int { return t.total }

func (t *SimpleFrequencyTable) Low(symbol int) int {
	t.mustSymbol(symbol)
	if t.cumulative == nil {
		t.initCumulative()
	}
	return t.cumulative[symbol]
}

func (t *SimpleFrequencyTable) High(symbol int) int {
	t.mustSymbol(symbol)
	if t.cumulative == nil {
		t.initCumulative()
	}
	return t.cumulative[symbol+1]
}

func (t *SimpleFrequencyTable) initCumulative() {
	t.cumulative = make([]int, len(t.frequencies)+1)
	sum := 0
	for i, f := range t.frequencies {
		sum += f
		t.cumulative[i+1] = sum
	}
	if sum != t.total {
		panic(fmt.Sprintf("cumulative sum %d != total %d", sum, t.total))
	}
}

func (t *SimpleFrequencyTable) checkSymbol(symbol int) error {
	if symbol < 0 || symbol >= len(t.frequencies) {
		return errors.Wrapf(ErrSymbolRange, "%d not in [0, %d)", symbol, len(t.frequencies))
	}
	return nil
}

func (t *SimpleFrequencyTable) mustSymbol(symbol int) {
	if err := t.checkSymbol(symbol); err != nil {
		panic(err.Error())
	}
}

// String lists the non-zero frequencies, for debugging only.
func (t *SimpleFrequencyTable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SimpleFrequencyTable(total=%d)", t.total)
	for i, f := range t.frequencies {
		if f != 0 {
			fmt.Fprintf(&b, " %d:%d", i, f)
		}
	}
	return b.String()
}

// addExact returns x+y, or ErrOverflow if the sum exceeds maxFrequency.
func addExact(x, y int) (int, error) {
	if y > maxFrequency-x {
		return 0, errors.Wrapf(ErrOverflow, "%d + %d", x, y)
	}
	return x + y, nil
}
