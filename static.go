package arith

import (
	"io"

	"github.com/fumin/arith/ac"
	"github.com/fumin/arith/bitio"
	"github.com/pkg/errors"
)

// headerBits is the width of each byte count in the static header.
const headerBits = 32

// Frequencies counts the bytes of r.
// The end of stream symbol is left at frequency 0.
func Frequencies(r io.ByteReader) (*ac.SimpleFrequencyTable, error) {
	freqs, err := ac.NewSimpleFrequencyTable(make([]int, SymbolLimit))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		if err := freqs.Increment(int(b)); err != nil {
			return nil, errors.Wrap(err, "")
		}
	}
	return freqs, nil
}

// WriteFrequencies writes the counts of bytes 0 to 255 as 32 bit big-endian integers.
// The end of stream frequency is implied to be 1 and not stored.
func WriteFrequencies(w *bitio.Writer, freqs ac.FrequencyTable) error {
	for i := 0; i < EOF; i++ {
		if err := w.WriteBits(uint64(freqs.Get(i)), headerBits); err != nil {
			return errors.Wrapf(err, "symbol %d", i)
		}
	}
	return nil
}

// ReadFrequencies reads a header written by WriteFrequencies and sets the end of stream frequency to 1.
func ReadFrequencies(r *bitio.Reader) (*ac.SimpleFrequencyTable, error) {
	freqs := make([]int, SymbolLimit)
	for i := 0; i < EOF; i++ {
		v, err := r.ReadBits(headerBits)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %d", i)
		}
		freqs[i] = int(v)
	}
	freqs[EOF] = 1
	table, err := ac.NewSimpleFrequencyTable(freqs)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return table, nil
}

// CompressStatic codes every byte of r under freqs, followed by the end of stream symbol.
// freqs must give every byte of r and EOF a non-zero frequency.
func CompressStatic(freqs ac.FrequencyTable, r io.ByteReader, w ac.BitWriter, cfg Config) error {
	enc, err := newEncoder(w, cfg)
	if err != nil {
		return err
	}
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "")
		}
		if err := enc.Write(freqs, int(b)); err != nil {
			return errors.Wrap(err, "")
		}
	}
	if err := enc.Write(freqs, EOF); err != nil {
		return errors.Wrap(err, "")
	}
	return errors.Wrap(enc.Finish(), "")
}

// DecompressStatic decodes bytes under freqs until the end of stream symbol.
func DecompressStatic(freqs ac.FrequencyTable, r ac.BitReader, w io.ByteWriter, cfg Config) error {
	dec, err := newDecoder(r, cfg)
	if err != nil {
		return err
	}
	for {
		symbol, err := dec.Read(freqs)
		if err != nil {
			return errors.Wrap(err, "")
		}
		if symbol == EOF {
			return nil
		}
		if err := w.WriteByte(byte(symbol)); err != nil {
			return errors.Wrap(err, "")
		}
	}
}
