package lbits

import (
	"github.com/pkg/errors"
	"github.com/thanhnguyen2187/bl3-savior/ds"
)

func NewWriter() *Writer {
	return &Writer{
		data: make([]byte, 0, 32),
		size: 0,
	}
}

// AppendLE appends the lowest n bits of value, least significant bit first.
func (w *Writer) AppendLE(value uint64, n int) error {
	if n < 0 || n > MaxFieldBits {
		return errors.Errorf("AppendLE error: invalid field width %d", n)
	}
	if n < MaxFieldBits && value>>n != 0 {
		err := errors.Wrapf(ErrValueOverflow, "AppendLE error: %d in %d bits", value, n)
		return err
	}

	for i := 0; i < n; i++ {
		if w.size%8 == 0 {
			w.data = append(w.data, 0)
		}
		bit := byte(value>>i) & 1
		w.data[w.size/8] |= bit << (w.size % 8)
		w.size++
	}

	return nil
}

// AppendBits appends a run previously captured with Reader.Rest.
func (w *Writer) AppendBits(bits Bits) {
	reader := bits.Reader()
	for reader.Len() > 0 {
		n := min(reader.Len(), MaxFieldBits)
		value, _ := reader.Eat(n)
		_ = w.AppendLE(value, n)
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.size
}

// Bytes returns the written bits, zero padded up to the next byte boundary.
func (w *Writer) Bytes() []byte {
	numBytes := ds.NearestDivisibleByM(w.size, 8) / 8
	bs := make([]byte, numBytes)
	copy(bs, w.data)
	return bs
}
