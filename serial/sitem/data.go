// Package sitem decodes and encodes the bit packed item record carried by a
// serial, and edits it.
//
// Every width is looked up in the schema for the item's data version at the
// time of the call. Mutators never patch fields in place: they encode the
// edited record with seed 0 and decode it again, because one edit can move
// the offsets of every later field.
package sitem

import (
	"github.com/pkg/errors"

	"github.com/thanhnguyen2187/bl3-savior/serial/lbits"
	"github.com/thanhnguyen2187/bl3-savior/serial/sclass"
)

type (
	// Schema is the part of the inventory serial database the codec needs.
	// *sdb.DB implements it.
	Schema interface {
		NumBits(category string, version int) (int, error)
		PartIdent(category string, index int) (string, error)
		PartByShortName(category string, name string) (int, string, error)
		MaxVersion() int
	}

	Part struct {
		Ident      string `json:"ident"`
		ShortIdent string `json:"short_ident,omitempty"`
		Name       string `json:"name,omitempty"`
		Index      int    `json:"index"`
		Bits       int    `json:"bits"`
	}
	ItemParts struct {
		InvKey         string            `json:"inv_key"`
		ItemType       sclass.ItemType   `json:"item_type"`
		WeaponType     sclass.WeaponType `json:"weapon_type,omitempty"`
		Rarity         sclass.Rarity     `json:"rarity"`
		Parts          []Part            `json:"parts"`
		GenericParts   []Part            `json:"generic_parts"`
		AdditionalData []byte            `json:"additional_data"`
		Rerolled       int               `json:"rerolled"`
	}
	Item struct {
		SerialVersion int        `json:"serial_version"`
		Seed          int32      `json:"seed"`
		Ident         int        `json:"ident"`
		DataVersion   int        `json:"data_version"`
		Balance       Part       `json:"balance"`
		InvData       Part       `json:"inv_data"`
		Manufacturer  Part       `json:"manufacturer"`
		Level         int        `json:"level"`
		Parts         *ItemParts `json:"parts,omitempty"`
		NumCustoms    int        `json:"num_customs"`
		// Tail holds the bits after the level that were not decoded: the
		// whole rest for balances without a parts section, and everything
		// from the parts count on when customizations are present.
		Tail *lbits.Bits `json:"tail,omitempty"`
	}
)

const (
	SerialVersionMin = 3
	SerialVersionMax = 4
	// SerialVersionReroll is the first serial version carrying a reroll counter.
	SerialVersionReroll = 4

	IdentDefault = 128
	IdentAlt     = 0

	MaxParts          = 63
	MaxGenericParts   = 15
	MaxAdditionalData = 255

	// UnknownIdent stands in for indices the schema cannot resolve.
	UnknownIdent = "unknown"
)

const (
	identBits            = 8
	dataVersionBits      = 7
	levelBits            = 7
	partCountBits        = 6
	genericPartCountBits = 4
	additionalCountBits  = 8
	additionalDataBits   = 8
	numCustomsBits       = 4
	rerollBits           = 8
	// residual bits tolerated after the last field
	maxPaddingBits = 7
)

var (
	ErrNoParts      = errors.New("item has no editable parts section")
	ErrTooManyParts = errors.New("part list is full")
	ErrPartPosition = errors.New("part position out of range")
)
