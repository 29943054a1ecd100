// Package lbits reads and writes bit-packed fields, least significant bit first.
//
// Item serial payloads are not byte aligned: a 13 bit field may start in the
// middle of a byte and end in the middle of another. Bit i of a stream is bit
// (i % 8) of byte (i / 8), and the first bit consumed by Eat becomes bit 0 of
// the returned value.
package lbits

import (
	"github.com/pkg/errors"
)

type (
	Reader struct {
		data []byte
		pos  int
		size int
	}
	Writer struct {
		data []byte
		size int
	}
	// Bits is a detached run of bits, packed from bit 0 of Data.
	Bits struct {
		Data []byte `json:"data"`
		Len  int    `json:"len"`
	}
)

const MaxFieldBits = 64

var (
	ErrOutOfBits     = errors.New("out of bits")
	ErrValueOverflow = errors.New("value does not fit bit width")
)

// IsZero reports whether every bit of the run is unset.
func (b Bits) IsZero() bool {
	reader := b.Reader()
	for reader.Len() > 0 {
		n := min(reader.Len(), MaxFieldBits)
		value, _ := reader.Eat(n)
		if value != 0 {
			return false
		}
	}
	return true
}

func (b Bits) Reader() *Reader {
	return &Reader{
		data: b.Data,
		pos:  0,
		size: min(b.Len, len(b.Data)*8),
	}
}
