package sdb

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

// NumBits returns the index width of category at the given data version: the
// width of the greatest version threshold not above version, or the first
// width when version precedes every threshold.
func (db *DB) NumBits(category string, version int) (int, error) {
	c, ok := db.categories[category]
	if !ok {
		return 0, serr.SchemaLookupError{
			Caller:   "sdb.NumBits",
			Category: category,
			Reason:   "unknown category",
		}
	}

	// first threshold above version; the one before it is selected
	i := sort.Search(
		len(c.Versions),
		func(i int) bool { return c.Versions[i].Version > version },
	)
	if i == 0 {
		// versions older than the table use its first width
		return c.Versions[0].Bits, nil
	}
	return c.Versions[i-1].Bits, nil
}

// PartIdent resolves a 1-based index into the category's asset identifier.
func (db *DB) PartIdent(category string, index int) (string, error) {
	c, ok := db.categories[category]
	if !ok {
		return "", serr.SchemaLookupError{
			Caller:   "sdb.PartIdent",
			Category: category,
			Reason:   "unknown category",
		}
	}
	if index < 1 || index > len(c.Assets) {
		return "", serr.SchemaLookupError{
			Caller:   "sdb.PartIdent",
			Category: category,
			Key:      strconv.Itoa(index),
			Reason:   "index out of range",
		}
	}
	return c.Assets[index-1], nil
}

// PartByShortName finds the first asset whose identifier contains "<name>."
// ignoring case, and returns its 1-based index with the full identifier. The
// trailing dot keeps "Hyperion" from matching "Hyperion_Legacy".
func (db *DB) PartByShortName(category string, name string) (int, string, error) {
	c, ok := db.categories[category]
	if !ok {
		return 0, "", serr.SchemaLookupError{
			Caller:   "sdb.PartByShortName",
			Category: category,
			Reason:   "unknown category",
		}
	}

	needle := strings.ToLower(name) + "."
	for i, asset := range c.Assets {
		if name == "" {
			break
		}
		if strings.Contains(strings.ToLower(asset), needle) {
			return i + 1, asset, nil
		}
	}
	return 0, "", serr.SchemaLookupError{
		Caller:   "sdb.PartByShortName",
		Category: category,
		Key:      name,
		Reason:   "no matching asset",
	}
}

// MaxVersion is the highest version threshold across all categories.
func (db *DB) MaxVersion() int {
	return db.maxVersion
}

func (db *DB) Categories() []string {
	names := lo.Keys(db.categories)
	sort.Strings(names)
	return names
}

// NumAssets returns the number of assets of category, 0 when it is unknown.
func (db *DB) NumAssets(category string) int {
	return len(db.categories[category].Assets)
}
