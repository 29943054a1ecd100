package lbits

import (
	"github.com/pkg/errors"
)

func NewReader(bs []byte) *Reader {
	return &Reader{
		data: bs,
		pos:  0,
		size: len(bs) * 8,
	}
}

// Eat consumes exactly n bits and returns them as an unsigned value.
func (r *Reader) Eat(n int) (uint64, error) {
	if n < 0 || n > MaxFieldBits {
		return 0, errors.Errorf("Eat error: invalid field width %d", n)
	}
	if n > r.Len() {
		err := errors.Wrapf(ErrOutOfBits, "Eat error: need %d bits, have %d", n, r.Len())
		return 0, err
	}

	value := uint64(0)
	for i := 0; i < n; i++ {
		bitPos := r.pos + i
		bit := (r.data[bitPos/8] >> (bitPos % 8)) & 1
		value |= uint64(bit) << i
	}
	r.pos += n

	return value, nil
}

// Len returns the number of bits left to consume.
func (r *Reader) Len() int {
	return r.size - r.pos
}

// Pos returns the number of bits consumed so far.
func (r *Reader) Pos() int {
	return r.pos
}

// Rest consumes every remaining bit and returns them re-packed from bit 0.
func (r *Reader) Rest() Bits {
	writer := NewWriter()
	for r.Len() > 0 {
		n := min(r.Len(), MaxFieldBits)
		// cannot fail: n is bounded by Len
		value, _ := r.Eat(n)
		_ = writer.AppendLE(value, n)
	}
	return Bits{
		Data: writer.Bytes(),
		Len:  writer.Len(),
	}
}

// Clone returns an independent reader at the same position.
func (r *Reader) Clone() *Reader {
	clone := *r
	return &clone
}
