package ac

import (
	"math"

	"github.com/pkg/errors"
)

// An Encoder encodes symbols and writes an arithmetic coded bit stream.
// It is not safe for concurrent use.
type Encoder struct {
	coder
	output BitWriter

	// Number of saved underflow bits.
	numUnderflow int

	// Checked wraps every table in a CheckedFrequencyTable before coding.
	Checked bool
}

// NewEncoder returns an Encoder writing to w with a range of numStateBits bits.
func NewEncoder(numStateBits int, w BitWriter) (*Encoder, error) {
	c, err := newCoder(numStateBits)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return &Encoder{coder: c, output: w}, nil
}

// Write encodes symbol under freqs, possibly writing some bits.
// freqs is only read for the duration of the call.
func (e *Encoder) Write(freqs FrequencyTable, symbol int) error {
	if e.Checked {
		freqs = NewCheckedFrequencyTable(freqs)
	}
	if err := e.update(freqs, symbol, e); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Finish terminates the stream so that it can be decoded.
// It writes one final bit and, if the output supports it, flushes it to a byte boundary.
// Finish must be called once after the last Write. It does not close the output.
func (e *Encoder) Finish() error {
	if err := e.output.WriteBit(1); err != nil {
		return errors.Wrap(err, "")
	}
	if f, ok := e.output.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

func (e *Encoder) shift() error {
	bit := int(e.low >> uint(e.numStateBits-1))
	if err := e.output.WriteBit(bit); err != nil {
		return errors.Wrap(err, "")
	}

	// Write out the saved underflow bits.
	for ; e.numUnderflow > 0; e.numUnderflow-- {
		if err := e.output.WriteBit(bit ^ 1); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

func (e *Encoder) underflow() error {
	if e.numUnderflow == math.MaxInt {
		return errors.Wrap(ErrOverflow, "maximum underflow reached")
	}
	e.numUnderflow++
	return nil
}
