package arith

import (
	"io"

	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

// newAdaptiveTable returns the table both sides of an adaptive stream start from, every symbol at 1.
func newAdaptiveTable() (*ac.SimpleFrequencyTable, error) {
	flat, err := ac.NewFlatFrequencyTable(SymbolLimit)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	freqs, err := ac.NewSimpleFrequencyTableFrom(flat)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return freqs, nil
}

// CompressAdaptive codes r with a table that counts every byte after coding it.
// There is no header, the decompressor rebuilds the same table.
func CompressAdaptive(r io.ByteReader, w ac.BitWriter, cfg Config) error {
	freqs, err := newAdaptiveTable()
	if err != nil {
		return err
	}
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
		if err := freqs.Increment(int(b)); err != nil {
			return errors.Wrap(err, "")
		}
	}
	if err := enc.Write(freqs, EOF); err != nil {
		return errors.Wrap(err, "")
	}
	return errors.Wrap(enc.Finish(), "")
}

// DecompressAdaptive decodes a stream written by CompressAdaptive.
func DecompressAdaptive(r ac.BitReader, w io.ByteWriter, cfg Config) error {
	freqs, err := newAdaptiveTable()
	if err != nil {
		return err
	}
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
		if err := freqs.Increment(symbol); err != nil {
			return errors.Wrap(err, "")
		}
	}
}
