package ac

import (
	"math"

	"github.com/pkg/errors"
)

// renormalizer receives the bits that the shared range update shifts out of low and high.
// The encoder emits them and the decoder consumes fresh input for them.
type renormalizer interface {
	// shift is called when the top bits of low and high are equal.
	shift() error

	// underflow is called when low=01... and high=10...
	underflow() error
}

// coder holds the range state that encoders and decoders share.
//
// Letting fullRange = 2^numStateBits, the following hold before and after coding each symbol:
//   - 0 <= low <= code <= high < fullRange, where code exists only in the decoder.
//   - low < fullRange/2 <= high, i.e. they are in different halves.
//   - low < fullRange/4 or high >= 3*fullRange/4, i.e. they are not both in the middle quarters.
//   - fullRange/4 < minimumRange <= high-low+1 <= fullRange.
type coder struct {
	numStateBits int

	fullRange    uint64 // 1000...000
	halfRange    uint64 // 0100...000, never zero
	quarterRange uint64 // 0010...000, zero when numStateBits is 1
	minimumRange uint64 // 0010...010
	maximumTotal uint64 // largest table total the coder accepts
	stateMask    uint64 // 0111...111

	low  uint64 // conceptually followed by infinitely many 0s
	high uint64 // conceptually followed by infinitely many 1s
}

// newCoder returns the initial state for numStateBits in [1, 62].
// 32 maximizes the allowed total at slightly over 2^30.
func newCoder(numStateBits int) (coder, error) {
	if numStateBits < 1 || numStateBits > 62 {
		return coder{}, errors.Wrapf(ErrStateBits, "%d", numStateBits)
	}
	c := coder{numStateBits: numStateBits}
	c.fullRange = uint64(1) << uint(numStateBits)
	c.halfRange = c.fullRange >> 1
	c.quarterRange = c.halfRange >> 1
	c.minimumRange = c.quarterRange + 2
	c.maximumTotal = uint64(math.MaxInt64) / c.fullRange
	if c.minimumRange < c.maximumTotal {
		c.maximumTotal = c.minimumRange
	}
	c.stateMask = c.fullRange - 1

	c.low = 0
	c.high = c.stateMask
	return c, nil
}

// MaximumTotal returns the largest frequency table total a coder with numStateBits bits accepts.
func MaximumTotal(numStateBits int) (int, error) {
	c, err := newCoder(numStateBits)
	if err != nil {
		return 0, err
	}
	return c.MaximumTotal(), nil
}

// MaximumTotal returns the largest frequency table total that can be coded.
func (c *coder) MaximumTotal() int {
	return int(c.maximumTotal)
}

// update narrows the range to symbol's slice of freqs, then renormalizes by calling r's hooks.
func (c *coder) update(freqs FrequencyTable, symbol int, r renormalizer) error {
	if c.low >= c.high || c.low&c.stateMask != c.low || c.high&c.stateMask != c.high {
		return errors.Wrapf(ErrInternal, "low %d or high %d out of range", c.low, c.high)
	}
	rng := c.high - c.low + 1
	if rng < c.minimumRange || rng > c.fullRange {
		return errors.Wrapf(ErrInternal, "range %d out of range", rng)
	}

	if symbol < 0 || symbol >= freqs.SymbolLimit() {
		return errors.Wrapf(ErrSymbolRange, "%d not in [0, %d)", symbol, freqs.SymbolLimit())
	}
	total := uint64(freqs.Total())
	symLow := uint64(freqs.Low(symbol))
	symHigh := uint64(freqs.High(symbol))
	if symLow == symHigh {
		return errors.Wrapf(ErrZeroFrequency, "symbol %d", symbol)
	}
	if total > c.maximumTotal {
		return errors.Wrapf(ErrTotalTooLarge, "%d > %d", total, c.maximumTotal)
	}

	newLow := c.low + symLow*rng/total
	newHigh := c.low + symHigh*rng/total - 1
	c.low = newLow
	c.high = newHigh

	// While low and high have the same top bit value, shift them out.
	for (c.low^c.high)&c.halfRange == 0 {
		if err := r.shift(); err != nil {
			return err
		}
		c.low = (c.low << 1) & c.stateMask
		c.high = ((c.high << 1) & c.stateMask) | 1
	}

	// Now low's top bit is 0 and high's is 1.
	// While low's top two bits are 01 and high's are 10, delete the second highest bit of both.
	for c.low&^c.high&c.quarterRange != 0 {
		if err := r.underflow(); err != nil {
			return err
		}
		c.low = (c.low << 1) ^ c.halfRange
		c.high = ((c.high ^ c.halfRange) << 1) | c.halfRange | 1
	}
	return nil
}
