// Package arith compresses byte streams with arithmetic coding.
//
// Three probability models are available: a static model whose byte counts are stored in a header,
// an adaptive model that counts bytes as they are coded, and a PPM context model.
// All of them code the 256 byte values plus an end of stream symbol, so no length is stored.
//
// Below is an example of using the compress and decompress commands on Lincoln's Gettysburg address:
//
//	go run ./compress testdata/gettysburg.txt > gettys.ppm
//	go run ./decompress < gettys.ppm > gettys.txt
//	diff testdata/gettysburg.txt gettys.txt
package arith

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/fumin/arith/ac"
	"github.com/fumin/arith/bitio"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// EOF is the symbol that ends every stream.
	EOF = 256

	// SymbolLimit is the size of the alphabet, the byte values and EOF.
	SymbolLimit = EOF + 1
)

// logger receives a summary line for every Compress and Decompress call.
// It discards everything until SetLogger is called.
var logger = zerolog.Nop()

// SetLogger sends the summaries of Compress and Decompress to l.
// It is meant to be called once, before any compression starts.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Compress reads src until io.EOF and writes its compressed form to dst.
// Static mode holds the whole input in memory, since it needs two passes.
func Compress(dst io.Writer, src io.Reader, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "")
	}
	in := &countingReader{r: src}
	out := &countingWriter{w: dst}
	bw := bitio.NewWriter(out)

	var err error
	switch cfg.Mode {
	case Static:
		err = compressStatic(bw, in, cfg)
	case Adaptive:
		err = CompressAdaptive(bufio.NewReader(in), bw, cfg)
	case PPM:
		err = CompressPPM(bufio.NewReader(in), bw, cfg)
	}
	if err != nil {
		return errors.Wrap(err, cfg.Mode.String())
	}

	logger.Debug().Stringer("mode", cfg.Mode).Int("order", cfg.Order).Int64("in", in.n).Int64("out", out.n).Msg("compressed")
	return nil
}

func compressStatic(w *bitio.Writer, src io.Reader, cfg Config) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return errors.Wrap(err, "")
	}
	freqs, err := Frequencies(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := freqs.Increment(EOF); err != nil {
		return errors.Wrap(err, "")
	}
	if err := WriteFrequencies(w, freqs); err != nil {
		return errors.Wrap(err, "")
	}
	return CompressStatic(freqs, bytes.NewReader(data), w, cfg)
}

// Decompress reads a stream written by Compress with the same cfg and writes the original bytes to dst.
func Decompress(dst io.Writer, src io.Reader, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "")
	}
	in := &countingReader{r: src}
	out := &countingWriter{w: dst}
	br := bitio.NewReader(in)
	bw := bufio.NewWriter(out)

	var err error
	switch cfg.Mode {
	case Static:
		var freqs *ac.SimpleFrequencyTable
		freqs, err = ReadFrequencies(br)
		if err == nil {
			err = DecompressStatic(freqs, br, bw, cfg)
		}
	case Adaptive:
		err = DecompressAdaptive(br, bw, cfg)
	case PPM:
		err = DecompressPPM(br, bw, cfg)
	}
	if err != nil {
		return errors.Wrap(err, cfg.Mode.String())
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}

	logger.Debug().Stringer("mode", cfg.Mode).Int("order", cfg.Order).Int64("in", in.n).Int64("out", out.n).Msg("decompressed")
	return nil
}

// CompressFile compresses the file called name to dst.
func CompressFile(dst io.Writer, name string, cfg Config) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer f.Close()
	if err := Compress(dst, f, cfg); err != nil {
		return errors.Wrap(err, name)
	}
	return nil
}

// CompressBytes returns the compressed form of b.
func CompressBytes(b []byte, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Compress(&buf, bytes.NewReader(b), cfg); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return buf.Bytes(), nil
}

// DecompressBytes returns the bytes that CompressBytes compressed into b.
func DecompressBytes(b []byte, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Decompress(&buf, bytes.NewReader(b), cfg); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return buf.Bytes(), nil
}

func newEncoder(w ac.BitWriter, cfg Config) (*ac.Encoder, error) {
	enc, err := ac.NewEncoder(cfg.StateBits, w)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	enc.Checked = cfg.Checked
	return enc, nil
}

func newDecoder(r ac.BitReader, cfg Config) (*ac.Decoder, error) {
	dec, err := ac.NewDecoder(cfg.StateBits, r)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	dec.Checked = cfg.Checked
	return dec, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
