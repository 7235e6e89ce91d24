package ac

import (
	"io"

	"github.com/pkg/errors"
)

// A Decoder reads an arithmetic coded bit stream and decodes symbols.
// It is not safe for concurrent use.
//
// The end of the input is treated as an infinite run of 0 bits,
// so the final symbol's interval resolves without explicit padding on the wire.
type Decoder struct {
	coder
	input BitReader

	// The raw code bits currently buffered, always in [low, high].
	code uint64

	// Checked wraps every table in a CheckedFrequencyTable before coding.
	Checked bool
}

// NewDecoder returns a Decoder reading from r with a range of numStateBits bits.
// It fills the code register with the first numStateBits bits of r.
func NewDecoder(numStateBits int, r BitReader) (*Decoder, error) {
	c, err := newCoder(numStateBits)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	d := &Decoder{coder: c, input: r}
	for i := 0; i < d.numStateBits; i++ {
		bit, err := d.readCodeBit()
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		d.code = d.code<<1 | bit
	}
	return d, nil
}

// Read decodes the next symbol under freqs, possibly reading some bits.
// freqs is only read for the duration of the call.
func (d *Decoder) Read(freqs FrequencyTable) (int, error) {
	if d.Checked {
		freqs = NewCheckedFrequencyTable(freqs)
	}

	// Translate from coding range scale to frequency table scale.
	total := uint64(freqs.Total())
	if total > d.maximumTotal {
		return 0, errors.Wrapf(ErrTotalTooLarge, "%d > %d", total, d.maximumTotal)
	}
	if total == 0 {
		return 0, errors.Wrap(ErrZeroFrequency, "empty table")
	}
	rng := d.high - d.low + 1
	offset := d.code - d.low
	value := ((offset+1)*total - 1) / rng
	if value*rng/total > offset || value >= total {
		return 0, errors.Wrapf(ErrInternal, "value %d offset %d", value, offset)
	}

	// Find the highest symbol such that freqs.Low(symbol) <= value.
	start, end := 0, freqs.SymbolLimit()
	for end-start > 1 {
		middle := int(uint(start+end) >> 1)
		if uint64(freqs.Low(middle)) > value {
			end = middle
		} else {
			start = middle
		}
	}
	if start+1 != end {
		return 0, errors.Wrapf(ErrInternal, "search ended at [%d, %d)", start, end)
	}

	symbol := start
	if !(uint64(freqs.Low(symbol))*rng/total <= offset && offset < uint64(freqs.High(symbol))*rng/total) {
		return 0, errors.Wrapf(ErrInternal, "symbol %d does not contain offset %d", symbol, offset)
	}
	if err := d.update(freqs, symbol, d); err != nil {
		return 0, errors.Wrap(err, "")
	}
	if d.code < d.low || d.code > d.high {
		return 0, errors.Wrapf(ErrInternal, "code %d out of [%d, %d]", d.code, d.low, d.high)
	}
	return symbol, nil
}

func (d *Decoder) shift() error {
	bit, err := d.readCodeBit()
	if err != nil {
		return err
	}
	d.code = ((d.code << 1) & d.stateMask) | bit
	return nil
}

func (d *Decoder) underflow() error {
	bit, err := d.readCodeBit()
	if err != nil {
		return err
	}
	d.code = (d.code & d.halfRange) | ((d.code << 1) & (d.stateMask >> 1)) | bit
	return nil
}

// readCodeBit returns the next input bit, with the end of the stream read as 0.
func (d *Decoder) readCodeBit() (uint64, error) {
	bit, err := d.input.ReadBit()
	if errors.Cause(err) == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "")
	}
	return uint64(bit), nil
}
