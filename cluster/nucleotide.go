package main

import (
	"bufio"
	"bytes"
	"io"

	"github.com/fumin/arith/bitio"
	"github.com/pkg/errors"
)

// nucleotideCode maps the bases of a DNA sequence to 2 bit codes.
var nucleotideCode = map[byte]uint64{
	'a': 0, 'A': 0,
	't': 1, 'T': 1,
	'c': 2, 'C': 2,
	'g': 3, 'G': 3,
}

// packNucleotides writes the bases of the FASTA sequence r to w, four to a byte.
// Header lines, from '>' to the end of the line, and any byte that is not a base are skipped.
// Sequence lines may be of any length.
func packNucleotides(w io.Writer, r io.Reader) error {
	kill := make(chan struct{})
	defer close(kill)
	src := make(chan uint64)
	errc := make(chan error)
	go func() {
		defer close(src)
		err := func() error {
			br := bufio.NewReader(r)
			var header bool
			for {
				b, err := br.ReadByte()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return errors.Wrap(err, "")
				}
				switch {
				case b == '\n':
					header = false
					continue
				case b == '>':
					header = true
					continue
				case header:
					continue
				}
				c, ok := nucleotideCode[b]
				if !ok {
					continue
				}
				select {
				case <-kill:
					return nil
				case src <- c:
				}
			}
		}()
		if err != nil {
			select {
			case <-kill:
			case errc <- err:
			}
		}
	}()

	go func() {
		err := func() error {
			bw := bitio.NewWriter(w)
			for c := range src {
				if err := bw.WriteBits(c, 2); err != nil {
					return err
				}
			}
			return bw.Flush()
		}()
		select {
		case <-kill:
		case errc <- err:
		}
	}()

	if err := <-errc; err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// packedNucleotides returns the packed bases of the FASTA sequence b.
func packedNucleotides(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := packNucleotides(&buf, bytes.NewReader(b)); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return buf.Bytes(), nil
}
