// Package ac defines the interfaces the arithmetic coding algorithm requires,
// together with a finite precision realization of the coder itself.
//
// An Encoder turns a sequence of (FrequencyTable, symbol) pairs into bits,
// and a Decoder recovers the symbols from those bits given the same sequence of tables.
// Tables that adapt while coding must be updated identically on both sides,
// strictly after each symbol is written or read.
//
// Reference: Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
package ac

import (
	"github.com/pkg/errors"
)

var (
	// ErrStateBits is returned when the number of state bits is outside [1, 62].
	ErrStateBits = errors.New("state size out of range")

	// ErrSymbolLimit is returned when a frequency table would have no symbols.
	ErrSymbolLimit = errors.New("at least 1 symbol needed")

	// ErrSymbolRange is returned when a symbol is outside [0, SymbolLimit()).
	ErrSymbolRange = errors.New("symbol out of range")

	// ErrNegativeFrequency is returned when a frequency below zero is supplied.
	ErrNegativeFrequency = errors.New("negative frequency")

	// ErrZeroFrequency is returned when coding a symbol whose frequency is zero.
	ErrZeroFrequency = errors.New("symbol has zero frequency")

	// ErrTotalTooLarge is returned when a table's total exceeds the coder's maximum total.
	ErrTotalTooLarge = errors.New("cannot code symbol because total is too large")

	// ErrImmutable is returned when mutating a table that does not support it.
	ErrImmutable = errors.New("frequency table is immutable")

	// ErrOverflow is returned when a frequency, a total or the underflow counter would overflow.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrInternal is returned when the coder detects that its own invariants no longer hold.
	ErrInternal = errors.New("internal consistency error")
)

// A FrequencyTable maps the symbols 0 to SymbolLimit()-1 to non-negative frequencies,
// as expected by the arithmetic coding algorithm.
//
// Read-only methods panic when given a symbol outside the table, as indexing a slice would.
// For consecutive symbols, High(s) == Low(s+1), and High(SymbolLimit()-1) == Total().
type FrequencyTable interface {
	// SymbolLimit returns the number of symbols, which is at least 1.
	SymbolLimit() int

	// Get returns the frequency of symbol.
	Get(symbol int) int

	// Set sets the frequency of symbol to freq.
	// If an error is returned the table is left unchanged.
	Set(symbol, freq int) error

	// Increment adds one to the frequency of symbol.
	// If an error is returned the table is left unchanged.
	Increment(symbol int) error

	// Total returns the sum of all frequencies.
	Total() int

	// Low returns the sum of the frequencies of all symbols strictly below symbol.
	Low(symbol int) int

	// High returns the sum of the frequencies of symbol and all symbols below it.
	High(symbol int) int
}

// A BitWriter is a sink of single bits.
// If it also implements Flush() error, Encoder.Finish calls it to pad the output to a byte boundary.
type BitWriter interface {
	WriteBit(bit int) error
}

// A BitReader is a source of single bits.
// ReadBit returns io.EOF once the source is exhausted.
type BitReader interface {
	ReadBit() (int, error)
}
