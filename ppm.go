package arith

import (
	"io"

	"github.com/fumin/arith/ac"
	"github.com/fumin/arith/ppm"
	"github.com/pkg/errors"
)

// CompressPPM codes r with a PPM model of order cfg.Order.
// EOF doubles as the escape symbol: at any context of non-negative order it means
// "drop to the next shorter context", and at order -1 it ends the stream.
// Every context starts it at frequency 1 and it is never incremented.
func CompressPPM(r io.ByteReader, w ac.BitWriter, cfg Config) error {
	model, err := ppm.NewModel(cfg.Order, SymbolLimit, EOF)
	if err != nil {
		return errors.Wrap(err, "")
	}
	enc, err := newEncoder(w, cfg)
	if err != nil {
		return err
	}
	history := ppm.NewHistory(cfg.Order)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "")
		}
		symbol := int(b)
		if err := model.Encode(enc, history.Symbols(), symbol); err != nil {
			return errors.Wrap(err, "")
		}
		if err := model.IncrementContexts(history.Symbols(), symbol); err != nil {
			return errors.Wrap(err, "")
		}
		history.Push(symbol)
	}
	if err := model.Encode(enc, history.Symbols(), EOF); err != nil {
		return errors.Wrap(err, "")
	}
	return errors.Wrap(enc.Finish(), "")
}

// DecompressPPM decodes a stream written by CompressPPM with the same order.
func DecompressPPM(r ac.BitReader, w io.ByteWriter, cfg Config) error {
	model, err := ppm.NewModel(cfg.Order, SymbolLimit, EOF)
	if err != nil {
		return errors.Wrap(err, "")
	}
	dec, err := newDecoder(r, cfg)
	if err != nil {
		return err
	}
	history := ppm.NewHistory(cfg.Order)
	for {
		symbol, err := model.Decode(dec, history.Symbols())
		if err != nil {
			return errors.Wrap(err, "")
		}
		if symbol == EOF {
			return nil
		}
		if err := w.WriteByte(byte(symbol)); err != nil {
			return errors.Wrap(err, "")
		}
		if err := model.IncrementContexts(history.Symbols(), symbol); err != nil {
			return errors.Wrap(err, "")
		}
		history.Push(symbol)
	}
}
