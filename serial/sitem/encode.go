package sitem

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/thanhnguyen2187/bl3-savior/serial/lbits"
	"github.com/thanhnguyen2187/bl3-savior/serial/scipher"
	"github.com/thanhnguyen2187/bl3-savior/serial/sdb"
	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

// Encode packs item with widths recomputed for its data version, then
// protects the payload with seed. Seed 0 strips the keystream; the item's
// own seed reproduces the original bytes.
func Encode(schema Schema, item *Item, seed int32) ([]byte, error) {
	if item.SerialVersion < SerialVersionMin || item.SerialVersion > SerialVersionMax {
		return nil, serr.UnsupportedVersionError{
			Caller: "sitem.Encode",
			Field:  "serial version",
			Value:  item.SerialVersion,
			Max:    SerialVersionMax,
		}
	}
	if item.DataVersion < 0 || item.DataVersion > schema.MaxVersion() {
		return nil, serr.UnsupportedVersionError{
			Caller: "sitem.Encode",
			Field:  "data version",
			Value:  item.DataVersion,
			Max:    schema.MaxVersion(),
		}
	}

	writer := lbits.NewWriter()
	if err := encodeFields(schema, writer, item); err != nil {
		return nil, errors.Wrap(err, "sitem.Encode error")
	}

	header := make([]byte, scipher.HeaderSize)
	header[0] = byte(item.SerialVersion)
	binary.BigEndian.PutUint32(header[1:], uint32(seed))

	payload := make([]byte, scipher.ChecksumSize, scipher.ChecksumSize+writer.Len()/8+1)
	payload = append(payload, writer.Bytes()...)
	scipher.PutChecksum(header, payload)

	return append(header, scipher.Encrypt(seed, payload)...), nil
}

// Rebuild encodes item with seed and decodes the result into a fresh record.
func Rebuild(schema Schema, item *Item, seed int32) (*Item, error) {
	raw, err := Encode(schema, item, seed)
	if err != nil {
		return nil, errors.Wrap(err, "sitem.Rebuild error")
	}
	rebuilt, err := Decode(schema, raw)
	if err != nil {
		return nil, errors.Wrap(err, "sitem.Rebuild error")
	}
	return rebuilt, nil
}

func encodeFields(schema Schema, writer *lbits.Writer, item *Item) error {
	if item.Ident != IdentDefault && item.Ident != IdentAlt {
		return serr.StructuralError{
			Caller: "sitem.encodeFields",
			Reason: fmt.Sprintf("unexpected ident %d", item.Ident),
		}
	}
	if err := appendValue(writer, item.Ident, identBits, "ident"); err != nil {
		return err
	}
	if err := appendValue(writer, item.DataVersion, dataVersionBits, "data version"); err != nil {
		return err
	}

	headerParts := []struct {
		category string
		part     Part
	}{
		{sdb.CategoryBalance, item.Balance},
		{sdb.CategoryInvData, item.InvData},
		{sdb.CategoryManufacturer, item.Manufacturer},
	}
	for _, headerPart := range headerParts {
		if err := encodePart(schema, writer, headerPart.category, headerPart.part, item.DataVersion); err != nil {
			return err
		}
	}
	if err := appendValue(writer, item.Level, levelBits, "level"); err != nil {
		return err
	}

	if item.Parts == nil {
		if item.Tail != nil {
			writer.AppendBits(*item.Tail)
		}
		return nil
	}
	if item.NumCustoms != 0 {
		return serr.StructuralError{
			Caller: "sitem.encodeFields",
			Reason: "customizations can not be encoded together with parts",
		}
	}
	return encodeParts(schema, writer, item)
}

func encodeParts(schema Schema, writer *lbits.Writer, item *Item) error {
	parts := item.Parts
	if len(parts.Parts) > MaxParts || len(parts.GenericParts) > MaxGenericParts {
		return errors.Wrapf(
			ErrTooManyParts,
			"%d parts and %d generic parts",
			len(parts.Parts), len(parts.GenericParts),
		)
	}
	if len(parts.AdditionalData) > MaxAdditionalData {
		return errors.Errorf("%d bytes of additional data", len(parts.AdditionalData))
	}

	if err := appendValue(writer, len(parts.Parts), partCountBits, "part count"); err != nil {
		return err
	}
	for _, part := range parts.Parts {
		if err := encodePart(schema, writer, parts.InvKey, part, item.DataVersion); err != nil {
			return err
		}
	}

	if err := appendValue(writer, len(parts.GenericParts), genericPartCountBits, "generic part count"); err != nil {
		return err
	}
	for _, part := range parts.GenericParts {
		if err := encodePart(schema, writer, sdb.CategoryGenericPart, part, item.DataVersion); err != nil {
			return err
		}
	}

	if err := appendValue(writer, len(parts.AdditionalData), additionalCountBits, "additional data count"); err != nil {
		return err
	}
	for _, value := range parts.AdditionalData {
		if err := appendValue(writer, int(value), additionalDataBits, "additional data"); err != nil {
			return err
		}
	}

	if err := appendValue(writer, 0, numCustomsBits, "customization count"); err != nil {
		return err
	}
	if item.SerialVersion >= SerialVersionReroll {
		if err := appendValue(writer, parts.Rerolled, rerollBits, "reroll count"); err != nil {
			return err
		}
	}
	return nil
}

func encodePart(schema Schema, writer *lbits.Writer, category string, part Part, dataVersion int) error {
	bits, err := schema.NumBits(category, dataVersion)
	if err != nil {
		return err
	}
	if !fits(part.Index, bits) {
		return serr.SchemaLookupError{
			Caller:   "sitem.encodePart",
			Category: category,
			Key:      strconv.Itoa(part.Index),
			Reason:   fmt.Sprintf("index does not fit %d bits at data version %d", bits, dataVersion),
		}
	}
	return appendValue(writer, part.Index, bits, category)
}

func appendValue(writer *lbits.Writer, value int, bits int, field string) error {
	if value < 0 {
		return errors.Wrapf(lbits.ErrValueOverflow, "%s is negative: %d", field, value)
	}
	return errors.Wrapf(writer.AppendLE(uint64(value), bits), "write %s", field)
}

func fits(value int, bits int) bool {
	return value >= 0 && (bits >= 63 || value < 1<<bits)
}
