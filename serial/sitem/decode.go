package sitem

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/thanhnguyen2187/bl3-savior/serial/lbits"
	"github.com/thanhnguyen2187/bl3-savior/serial/sclass"
	"github.com/thanhnguyen2187/bl3-savior/serial/scipher"
	"github.com/thanhnguyen2187/bl3-savior/serial/sdb"
	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

// Decode parses a raw serial. Any failure is terminal for the item.
func Decode(schema Schema, raw []byte) (*Item, error) {
	if len(raw) < scipher.HeaderSize+scipher.ChecksumSize {
		return nil, serr.StructuralError{
			Caller: "sitem.Decode",
			Reason: fmt.Sprintf("%d bytes is too short for a serial", len(raw)),
		}
	}
	serialVersion := int(raw[0])
	if serialVersion < SerialVersionMin || serialVersion > SerialVersionMax {
		return nil, serr.UnsupportedVersionError{
			Caller: "sitem.Decode",
			Field:  "serial version",
			Value:  serialVersion,
			Max:    SerialVersionMax,
		}
	}

	header := raw[:scipher.HeaderSize]
	seed := int32(binary.BigEndian.Uint32(header[1:]))
	payload := scipher.Decrypt(seed, raw[scipher.HeaderSize:])
	if err := scipher.VerifyChecksum(header, payload); err != nil {
		return nil, errors.Wrap(err, "sitem.Decode error")
	}

	item := Item{
		SerialVersion: serialVersion,
		Seed:          seed,
	}
	if err := decodeFields(schema, lbits.NewReader(payload[scipher.ChecksumSize:]), &item); err != nil {
		return nil, errors.Wrap(err, "sitem.Decode error")
	}
	return &item, nil
}

func decodeFields(schema Schema, reader *lbits.Reader, item *Item) error {
	ident, err := reader.Eat(identBits)
	if err != nil {
		return errors.Wrap(err, "read ident")
	}
	item.Ident = int(ident)
	if item.Ident != IdentDefault && item.Ident != IdentAlt {
		return serr.StructuralError{
			Caller: "sitem.decodeFields",
			Reason: fmt.Sprintf("unexpected ident %d", item.Ident),
		}
	}

	dataVersion, err := reader.Eat(dataVersionBits)
	if err != nil {
		return errors.Wrap(err, "read data version")
	}
	item.DataVersion = int(dataVersion)
	if item.DataVersion > schema.MaxVersion() {
		return serr.UnsupportedVersionError{
			Caller: "sitem.decodeFields",
			Field:  "data version",
			Value:  item.DataVersion,
			Max:    schema.MaxVersion(),
		}
	}

	if item.Balance, err = decodePart(schema, reader, sdb.CategoryBalance, item.DataVersion); err != nil {
		return err
	}
	item.Balance.Name = sclass.BalanceName(item.Balance.Ident)
	if item.InvData, err = decodePart(schema, reader, sdb.CategoryInvData, item.DataVersion); err != nil {
		return err
	}
	if item.Manufacturer, err = decodePart(schema, reader, sdb.CategoryManufacturer, item.DataVersion); err != nil {
		return err
	}
	item.Manufacturer.Name = sclass.ManufacturerName(item.Manufacturer.ShortIdent)

	level, err := reader.Eat(levelBits)
	if err != nil {
		return errors.Wrap(err, "read level")
	}
	item.Level = int(level)

	invKey := sclass.InvKey(item.Balance.Ident)
	if invKey == "" {
		item.Tail = restOf(reader)
		return nil
	}

	partsStart := reader.Clone()
	parts, err := decodeParts(schema, reader, invKey, item)
	if err != nil {
		return err
	}
	numCustoms, err := reader.Eat(numCustomsBits)
	if err != nil {
		return errors.Wrap(err, "read customization count")
	}
	item.NumCustoms = int(numCustoms)
	if item.NumCustoms != 0 {
		// customizations are not supported: keep the section opaque
		item.Tail = restOf(partsStart)
		return nil
	}

	if item.SerialVersion >= SerialVersionReroll {
		rerolled, err := reader.Eat(rerollBits)
		if err != nil {
			return errors.Wrap(err, "read reroll count")
		}
		parts.Rerolled = int(rerolled)
	}

	rest := reader.Rest()
	if rest.Len > maxPaddingBits || !rest.IsZero() {
		return serr.ResidualDataError{
			Caller:  "sitem.decodeFields",
			NumBits: rest.Len,
		}
	}
	item.Parts = parts
	return nil
}

func decodeParts(schema Schema, reader *lbits.Reader, invKey string, item *Item) (*ItemParts, error) {
	parts := ItemParts{
		InvKey:     invKey,
		ItemType:   sclass.ItemTypeOf(item.Balance.Ident, invKey),
		WeaponType: sclass.WeaponTypeOf(item.Balance.Ident),
		Rarity:     sclass.RarityOf(item.Balance.Ident),
	}

	numParts, err := reader.Eat(partCountBits)
	if err != nil {
		return nil, errors.Wrap(err, "read part count")
	}
	parts.Parts = make([]Part, 0, numParts)
	for i := 0; i < int(numParts); i++ {
		part, err := decodePart(schema, reader, invKey, item.DataVersion)
		if err != nil {
			return nil, err
		}
		parts.Parts = append(parts.Parts, part)
	}

	numGenericParts, err := reader.Eat(genericPartCountBits)
	if err != nil {
		return nil, errors.Wrap(err, "read generic part count")
	}
	parts.GenericParts = make([]Part, 0, numGenericParts)
	for i := 0; i < int(numGenericParts); i++ {
		part, err := decodePart(schema, reader, sdb.CategoryGenericPart, item.DataVersion)
		if err != nil {
			return nil, err
		}
		parts.GenericParts = append(parts.GenericParts, part)
	}

	numAdditional, err := reader.Eat(additionalCountBits)
	if err != nil {
		return nil, errors.Wrap(err, "read additional data count")
	}
	parts.AdditionalData = make([]byte, 0, numAdditional)
	for i := 0; i < int(numAdditional); i++ {
		value, err := reader.Eat(additionalDataBits)
		if err != nil {
			return nil, errors.Wrap(err, "read additional data")
		}
		parts.AdditionalData = append(parts.AdditionalData, byte(value))
	}

	return &parts, nil
}

// decodePart reads one index of category. An index the schema cannot resolve
// decodes to UnknownIdent instead of failing.
func decodePart(schema Schema, reader *lbits.Reader, category string, dataVersion int) (Part, error) {
	bits, err := schema.NumBits(category, dataVersion)
	if err != nil {
		return Part{}, err
	}
	index, err := reader.Eat(bits)
	if err != nil {
		return Part{}, errors.Wrapf(err, "read %s index", category)
	}

	ident, err := schema.PartIdent(category, int(index))
	if err != nil {
		ident = UnknownIdent
	}
	return Part{
		Ident:      ident,
		ShortIdent: ShortIdent(ident),
		Index:      int(index),
		Bits:       bits,
	}, nil
}

// ShortIdent returns the text after the last dot of an asset identifier, or
// "" when there is none.
func ShortIdent(ident string) string {
	i := strings.LastIndex(ident, ".")
	if i < 0 {
		return ""
	}
	return ident[i+1:]
}

func restOf(reader *lbits.Reader) *lbits.Bits {
	rest := reader.Rest()
	if rest.Len == 0 {
		return nil
	}
	return &rest
}
