package sitem

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/thanhnguyen2187/bl3-savior/ds"
	"github.com/thanhnguyen2187/bl3-savior/serial/lbits"
	"github.com/thanhnguyen2187/bl3-savior/serial/sclass"
	"github.com/thanhnguyen2187/bl3-savior/serial/sdb"
)

// Name returns the display name of the item, falling back to the balance
// identifier.
func (item *Item) Name() string {
	if item.Balance.Name != "" {
		return item.Balance.Name
	}
	if item.Balance.ShortIdent != "" {
		return item.Balance.ShortIdent
	}
	return item.Balance.Ident
}

// SetBalance switches the item to another balance. Specific parts that also
// exist under the new balance's part category are kept, the rest are
// dropped. A balance without a part category clears the parts section, along
// with any undecoded tail. Customized items fail with ErrNoParts, since their
// parts are only held as opaque bits.
func (item *Item) SetBalance(schema Schema, name string) error {
	return item.mutate(schema, func(edited *Item) error {
		if edited.NumCustoms != 0 {
			return errors.Wrap(ErrNoParts, "customized item")
		}
		balance, err := lookupPart(schema, sdb.CategoryBalance, name)
		if err != nil {
			return err
		}
		edited.Balance = balance
		if invData, ok := correlateInvData(schema, balance.ShortIdent); ok {
			edited.InvData = invData
		}

		invKey := sclass.InvKey(balance.Ident)
		switch {
		case invKey == "":
			edited.Parts = nil
			edited.Tail = nil
			edited.NumCustoms = 0
		case edited.Parts == nil:
			edited.Parts = &ItemParts{InvKey: invKey}
			edited.Tail = nil
			edited.NumCustoms = 0
		default:
			kept := make([]Part, 0, len(edited.Parts.Parts))
			for _, part := range edited.Parts.Parts {
				if part.ShortIdent == "" {
					continue
				}
				moved, err := lookupPart(schema, invKey, part.ShortIdent)
				if err != nil {
					continue
				}
				kept = append(kept, moved)
			}
			edited.Parts.InvKey = invKey
			edited.Parts.Parts = kept
		}
		return nil
	})
}

func (item *Item) SetInvData(schema Schema, name string) error {
	return item.mutate(schema, func(edited *Item) error {
		invData, err := lookupPart(schema, sdb.CategoryInvData, name)
		if err != nil {
			return err
		}
		edited.InvData = invData
		return nil
	})
}

func (item *Item) SetManufacturer(schema Schema, name string) error {
	return item.mutate(schema, func(edited *Item) error {
		manufacturer, err := lookupPart(schema, sdb.CategoryManufacturer, name)
		if err != nil {
			return err
		}
		edited.Manufacturer = manufacturer
		return nil
	})
}

func (item *Item) SetLevel(schema Schema, level int) error {
	return item.mutate(schema, func(edited *Item) error {
		if !fits(level, levelBits) {
			return errors.Wrapf(lbits.ErrValueOverflow, "level %d", level)
		}
		edited.Level = level
		return nil
	})
}

// AddPart appends a specific part from the item's part category.
func (item *Item) AddPart(schema Schema, name string) error {
	return item.mutate(schema, func(edited *Item) error {
		if edited.Parts == nil {
			return ErrNoParts
		}
		if len(edited.Parts.Parts) >= MaxParts {
			return ErrTooManyParts
		}
		part, err := lookupPart(schema, edited.Parts.InvKey, name)
		if err != nil {
			return err
		}
		edited.Parts.Parts = append(edited.Parts.Parts, part)
		return nil
	})
}

func (item *Item) RemovePart(schema Schema, position int) error {
	return item.mutate(schema, func(edited *Item) error {
		if edited.Parts == nil {
			return ErrNoParts
		}
		parts, err := removeAt(edited.Parts.Parts, position)
		if err != nil {
			return err
		}
		edited.Parts.Parts = parts
		return nil
	})
}

func (item *Item) AddGenericPart(schema Schema, name string) error {
	return item.mutate(schema, func(edited *Item) error {
		if edited.Parts == nil {
			return ErrNoParts
		}
		if len(edited.Parts.GenericParts) >= MaxGenericParts {
			return ErrTooManyParts
		}
		part, err := lookupPart(schema, sdb.CategoryGenericPart, name)
		if err != nil {
			return err
		}
		edited.Parts.GenericParts = append(edited.Parts.GenericParts, part)
		return nil
	})
}

func (item *Item) RemoveGenericPart(schema Schema, position int) error {
	return item.mutate(schema, func(edited *Item) error {
		if edited.Parts == nil {
			return ErrNoParts
		}
		parts, err := removeAt(edited.Parts.GenericParts, position)
		if err != nil {
			return err
		}
		edited.Parts.GenericParts = parts
		return nil
	})
}

// MovePartUp swaps the part at position with the one before it. Part order
// matters to the game, which applies parts in list order.
func (item *Item) MovePartUp(schema Schema, position int) error {
	return item.movePart(schema, position, position-1)
}

func (item *Item) MovePartDown(schema Schema, position int) error {
	return item.movePart(schema, position, position+1)
}

func (item *Item) MovePartTop(schema Schema, position int) error {
	return item.movePart(schema, position, 0)
}

func (item *Item) MovePartBottom(schema Schema, position int) error {
	if item.Parts == nil {
		return ErrNoParts
	}
	return item.movePart(schema, position, len(item.Parts.Parts)-1)
}

// movePart moves the part at position to target, shifting the parts in
// between. Targets outside the list leave the item untouched.
func (item *Item) movePart(schema Schema, position int, target int) error {
	if item.Parts == nil {
		return ErrNoParts
	}
	numParts := len(item.Parts.Parts)
	if position < 0 || position >= numParts {
		return errors.Wrapf(ErrPartPosition, "position %d of %d", position, numParts)
	}
	if target < 0 || target >= numParts || target == position {
		return nil
	}

	return item.mutate(schema, func(edited *Item) error {
		part := edited.Parts.Parts[position]
		parts, _ := removeAt(edited.Parts.Parts, position)
		parts = append(parts[:target], append([]Part{part}, parts[target:]...)...)
		edited.Parts.Parts = parts
		return nil
	})
}

// mutate applies edit to a copy of the item, then replaces the item with the
// copy encoded at seed 0 and decoded again. The item is left as it was when
// any step fails.
func (item *Item) mutate(schema Schema, edit func(edited *Item) error) error {
	edited := item.clone()
	if err := edit(edited); err != nil {
		return errors.Wrap(err, "sitem.mutate error")
	}
	if !edited.fitsVersion(schema) {
		// the opaque customization section was packed with the old widths
		if edited.NumCustoms != 0 {
			return errors.Errorf(
				"sitem.mutate error: customized item can not leave data version %d",
				edited.DataVersion,
			)
		}
		edited.DataVersion = schema.MaxVersion()
	}

	rebuilt, err := Rebuild(schema, edited, 0)
	if err != nil {
		return errors.Wrap(err, "sitem.mutate error")
	}
	*item = *rebuilt
	return nil
}

// fitsVersion reports whether every index of the item can be written with
// the widths of its data version.
func (item *Item) fitsVersion(schema Schema) bool {
	type indexed struct {
		category string
		index    int
	}
	indices := []indexed{
		{sdb.CategoryBalance, item.Balance.Index},
		{sdb.CategoryInvData, item.InvData.Index},
		{sdb.CategoryManufacturer, item.Manufacturer.Index},
	}
	if item.Parts != nil {
		for _, part := range item.Parts.Parts {
			indices = append(indices, indexed{item.Parts.InvKey, part.Index})
		}
		for _, part := range item.Parts.GenericParts {
			indices = append(indices, indexed{sdb.CategoryGenericPart, part.Index})
		}
	}

	for _, i := range indices {
		bits, err := schema.NumBits(i.category, item.DataVersion)
		if err != nil || !fits(i.index, bits) {
			return false
		}
	}
	return true
}

func (item *Item) clone() *Item {
	edited := *item
	if item.Parts != nil {
		parts := *item.Parts
		parts.Parts = ds.ShallowCopy(item.Parts.Parts)
		parts.GenericParts = ds.ShallowCopy(item.Parts.GenericParts)
		parts.AdditionalData = ds.ShallowCopy(item.Parts.AdditionalData)
		edited.Parts = &parts
	}
	if item.Tail != nil {
		tail := lbits.Bits{
			Data: ds.ShallowCopy(item.Tail.Data),
			Len:  item.Tail.Len,
		}
		edited.Tail = &tail
	}
	return &edited
}

// lookupPart resolves a short name, or a full identifier, within category.
func lookupPart(schema Schema, category string, name string) (Part, error) {
	if short := ShortIdent(name); short != "" {
		name = short
	}
	index, ident, err := schema.PartByShortName(category, name)
	if err != nil {
		return Part{}, err
	}
	return Part{
		Ident:      ident,
		ShortIdent: ShortIdent(ident),
		Index:      index,
	}, nil
}

// correlateInvData finds the inventory data asset matching a balance short
// identifier. "Balance_SM_HYP_Crossroad" is tried as "SM_HYP_Crossroad",
// "SM_HYP" and "SM" in turn against every InventoryData short identifier.
func correlateInvData(schema Schema, balanceShort string) (Part, bool) {
	tokens := strings.Split(balanceShort, "_")
	if len(tokens) < 2 {
		return Part{}, false
	}
	tokens = tokens[1:]

	shortIdents := make([]string, 0, 32)
	for index := 1; ; index++ {
		ident, err := schema.PartIdent(sdb.CategoryInvData, index)
		if err != nil {
			break
		}
		shortIdents = append(shortIdents, strings.ToLower(ShortIdent(ident)))
	}

	for n := len(tokens); n > 0; n-- {
		needle := strings.ToLower(strings.Join(tokens[:n], "_"))
		for i, shortIdent := range shortIdents {
			if !strings.Contains(shortIdent, needle) {
				continue
			}
			ident, err := schema.PartIdent(sdb.CategoryInvData, i+1)
			if err != nil {
				return Part{}, false
			}
			return Part{
				Ident:      ident,
				ShortIdent: ShortIdent(ident),
				Index:      i + 1,
			}, true
		}
	}
	return Part{}, false
}

func removeAt(parts []Part, position int) ([]Part, error) {
	if position < 0 || position >= len(parts) {
		return nil, errors.Wrapf(ErrPartPosition, "position %d of %d", position, len(parts))
	}
	removed := make([]Part, 0, len(parts)-1)
	removed = append(removed, parts[:position]...)
	return append(removed, parts[position+1:]...), nil
}
