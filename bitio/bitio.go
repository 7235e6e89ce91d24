// Package bitio provides big-endian bit streams over byte streams.
package bitio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// ErrBit is returned when writing a value other than 0 or 1.
var ErrBit = errors.New("bit must be 0 or 1")

// A Writer accumulates bits, most significant first, and writes them out a byte at a time.
// Flush pads the current byte with 0 bits.
type Writer struct {
	output io.ByteWriter

	// The accumulated bits of the current byte.
	currentByte byte

	// Number of accumulated bits in currentByte, always in [0, 7].
	numBitsFilled int
}

// NewWriter returns a Writer on w.
// If w is not an io.ByteWriter it is buffered, and Flush also flushes the buffer.
func NewWriter(w io.Writer) *Writer {
	bw, ok := w.(io.ByteWriter)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &Writer{output: bw}
}

// NewByteWriter returns a Writer on an unbuffered byte sink.
func NewByteWriter(w io.ByteWriter) *Writer {
	return &Writer{output: w}
}

// WriteBit writes bit, which must be 0 or 1.
func (w *Writer) WriteBit(bit int) error {
	if bit != 0 && bit != 1 {
		return errors.Wrapf(ErrBit, "%d", bit)
	}
	w.currentByte = w.currentByte<<1 | byte(bit)
	w.numBitsFilled++
	if w.numBitsFilled == 8 {
		if err := w.output.WriteByte(w.currentByte); err != nil {
			return errors.Wrap(err, "")
		}
		w.currentByte = 0
		w.numBitsFilled = 0
	}
	return nil
}

// WriteBits writes the low n bits of v, most significant first.
func (w *Writer) WriteBits(v uint64, n int) error {
	for i := n - 1; i >= 0; i-- {
		if err := w.WriteBit(int(v>>uint(i)) & 1); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes the minimum number of 0 bits, between 0 and 7, to reach a byte boundary,
// then flushes the underlying buffer if there is one.
func (w *Writer) Flush() error {
	for w.numBitsFilled != 0 {
		if err := w.WriteBit(0); err != nil {
			return err
		}
	}
	if f, ok := w.output.(*bufio.Writer); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

// A Reader returns the bits of a byte stream, most significant first.
// The end of the stream always falls on a byte boundary.
type Reader struct {
	input io.ByteReader

	currentByte byte
	eof         bool

	// Number of unread bits in currentByte, always in [0, 7].
	numBitsRemaining int
}

// NewReader returns a Reader on r.
// If r is not an io.ByteReader it is buffered, so the Reader may read past the bits it returns.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{input: br}
}

// ReadBit returns the next bit, or io.EOF at the end of the stream.
func (r *Reader) ReadBit() (int, error) {
	if r.eof {
		return 0, io.EOF
	}
	if r.numBitsRemaining == 0 {
		b, err := r.input.ReadByte()
		if err == io.EOF {
			r.eof = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, errors.Wrap(err, "")
		}
		r.currentByte = b
		r.numBitsRemaining = 8
	}
	r.numBitsRemaining--
	return int(r.currentByte>>uint(r.numBitsRemaining)) & 1, nil
}

// ReadBitNoEOF is like ReadBit but reports the end of the stream as io.ErrUnexpectedEOF.
func (r *Reader) ReadBitNoEOF() (int, error) {
	bit, err := r.ReadBit()
	if err == io.EOF {
		return 0, errors.Wrap(io.ErrUnexpectedEOF, "")
	}
	return bit, err
}

// ReadBits reads n bits, most significant first, failing on end of stream.
func (r *Reader) ReadBits(n int) (uint64, error) {
	var v uint64
	for i := 0; i < n; i++ {
		bit, err := r.ReadBitNoEOF()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(bit)
	}
	return v, nil
}
