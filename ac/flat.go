package ac

import (
	"fmt"

	"github.com/pkg/errors"
)

// A FlatFrequencyTable is an immutable table where every symbol has frequency 1.
// It is the fallback model when no statistics are available.
type FlatFrequencyTable struct {
	numSymbols int
}

// NewFlatFrequencyTable returns a flat table over numSymbols symbols.
func NewFlatFrequencyTable(numSymbols int) (*FlatFrequencyTable, error) {
	if numSymbols < 1 {
		return nil, errors.Wrapf(ErrSymbolLimit, "%d", numSymbols)
	}
	return &FlatFrequencyTable{numSymbols: numSymbols}, nil
}

func (t *FlatFrequencyTable) SymbolLimit() int { return t.numSymbols }

func (t *FlatFrequencyTable) Get(symbol int) int {
	t.checkSymbol(symbol)
	return 1
}

// Set always fails with ErrImmutable.
func (t *FlatFrequencyTable) Set(symbol, freq int) error {
	return errors.Wrap(ErrImmutable, "flat")
}

// Increment always fails with ErrImmutable.
func (t *FlatFrequencyTable) Increment(symbol int) error {
	return errors.Wrap(ErrImmutable, "flat")
}

func (t *FlatFrequencyTable) Total() int { return t.numSymbols }

func (t *FlatFrequencyTable) Low(symbol int) int {
	t.checkSymbol(symbol)
	return symbol
}

func (t *FlatFrequencyTable) High(symbol int) int {
	t.checkSymbol(symbol)
	return symbol + 1
}

func (t *FlatFrequencyTable) String() string {
	return fmt.Sprintf("FlatFrequencyTable=%d", t.numSymbols)
}

func (t *FlatFrequencyTable) checkSymbol(symbol int) {
	if symbol < 0 || symbol >= t.numSymbols {
		panic(fmt.Sprintf("%v: %d not in [0, %d)", ErrSymbolRange, symbol, t.numSymbols))
	}
}
