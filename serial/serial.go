// Package serial converts between the shareable "BL3(<base64>)" form of an
// item and decoded items, one at a time or in parallel batches.
package serial

import (
	"github.com/pkg/errors"

	"github.com/thanhnguyen2187/bl3-savior/serial/sitem"
)

// DecodeSerial unwraps and decodes a serial string.
func DecodeSerial(schema sitem.Schema, s string) (*sitem.Item, error) {
	raw, err := Unwrap(s)
	if err != nil {
		return nil, errors.Wrap(err, "serial.DecodeSerial error")
	}
	item, err := sitem.Decode(schema, raw)
	if err != nil {
		return nil, errors.Wrap(err, "serial.DecodeSerial error")
	}
	return item, nil
}

// EncodeSerial encodes item with seed and wraps the result.
func EncodeSerial(schema sitem.Schema, item *sitem.Item, seed int32) (string, error) {
	raw, err := sitem.Encode(schema, item, seed)
	if err != nil {
		return "", errors.Wrap(err, "serial.EncodeSerial error")
	}
	return Wrap(raw), nil
}
