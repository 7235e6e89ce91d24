package bitio

import (
	"github.com/pkg/errors"
)

// ErrCapacity is returned when a FixedBuffer has no room left.
var ErrCapacity = errors.New("buffer capacity exhausted")

// A FixedBuffer is a byte sink backed by a slice of fixed capacity.
type FixedBuffer struct {
	buf []byte
	pos int
}

// NewFixedBuffer returns a FixedBuffer that can hold capacity bytes.
func NewFixedBuffer(capacity int) *FixedBuffer {
	return &FixedBuffer{buf: make([]byte, capacity)}
}

// WriteByte appends c, or fails with ErrCapacity once the buffer is full.
func (b *FixedBuffer) WriteByte(c byte) error {
	if b.pos >= len(b.buf) {
		return errors.Wrapf(ErrCapacity, "%d bytes", len(b.buf))
	}
	b.buf[b.pos] = c
	b.pos++
	return nil
}

// Write appends p. On ErrCapacity the bytes that fit have been written.
func (b *FixedBuffer) Write(p []byte) (int, error) {
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	if n < len(p) {
		return n, errors.Wrapf(ErrCapacity, "%d bytes", len(b.buf))
	}
	return n, nil
}

// Bytes returns the bytes written so far.
func (b *FixedBuffer) Bytes() []byte {
	return b.buf[:b.pos]
}

// Len returns the number of bytes written so far.
func (b *FixedBuffer) Len() int { return b.pos }
