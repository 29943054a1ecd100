package serial

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

func TestWrapUnwrap(t *testing.T) {
	raw := []byte{3, 0, 0, 0, 0, 0x66, 0x6E}
	wrapped := Wrap(raw)
	assert.Equal(t, "BL3(AwAAAABmbg==)", wrapped)

	for _, s := range []string{wrapped, "bl3(AwAAAABmbg==)", "  Bl3(AwAAAABmbg==)\n"} {
		unwrapped, err := Unwrap(s)
		require.NoErrorf(t, err, s)
		assert.Equal(t, raw, unwrapped)
	}
}

func TestUnwrap_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"BL3()x",
		"BL3(",
		"AwAAAABmbg==",
		"BL2(AwAAAABmbg==)",
		"BL3(AwAAAABmbg==",
		"BL3(AwAAAABmbg)",
		"BL3(!!!!)",
	}
	for _, input := range inputs {
		_, err := Unwrap(input)
		structuralErr := serr.StructuralError{}
		assert.Truef(t, errors.As(err, &structuralErr), "%q", input)
	}
}
