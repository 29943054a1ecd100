package sdb

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

func TestNumBits_StepFunction(t *testing.T) {
	db := loadFixture(t)
	expected := map[int]int{
		0:   3,
		9:   3,
		10:  4,
		11:  4,
		19:  4,
		20:  5,
		500: 5,
	}
	for version, bits := range expected {
		actual, err := db.NumBits(CategoryBalance, version)
		require.NoError(t, err)
		assert.Equalf(t, bits, actual, "version %d", version)

		// lookups are stable
		again, err := db.NumBits(CategoryBalance, version)
		require.NoError(t, err)
		assert.Equal(t, actual, again)
	}
}

// Binary search must select the same width as a linear scan over the thresholds.
func TestNumBits_MatchesLinearScan(t *testing.T) {
	db, err := Default()
	require.NoError(t, err)

	for _, category := range db.Categories() {
		versions := db.categories[category].Versions
		for version := versions[0].Version; version <= db.MaxVersion()+2; version++ {
			linear := 0
			for _, versionBits := range versions {
				if versionBits.Version <= version {
					linear = versionBits.Bits
				}
			}
			actual, err := db.NumBits(category, version)
			require.NoError(t, err)
			assert.Equalf(t, linear, actual, "%s at %d", category, version)
		}
	}
}

func TestNumBits_Errors(t *testing.T) {
	db := loadFixture(t)

	_, err := db.NumBits("Missing", 10)
	lookupErr := serr.SchemaLookupError{}
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "Missing", lookupErr.Category)

}

func TestNumBits_BeforeFirstThreshold(t *testing.T) {
	db := loadFixture(t)

	for _, version := range []int{-1, 0, 4, 5, 20} {
		actual, err := db.NumBits(CategoryManufacturer, version)
		require.NoError(t, err)
		assert.Equalf(t, 2, actual, "version %d", version)
	}
}

func TestNumBits_Default(t *testing.T) {
	db, err := Default()
	require.NoError(t, err)
	expected := map[string]int{
		CategoryBalance:      13,
		CategoryInvData:      9,
		CategoryManufacturer: 7,
		CategoryGenericPart:  10,
		"BPInvPart_Shield_C": 8,
	}
	for category, bits := range expected {
		actual, err := db.NumBits(category, 59)
		require.NoError(t, err)
		assert.Equalf(t, bits, actual, category)
	}
}

func TestPartIdent(t *testing.T) {
	db := loadFixture(t)

	ident, err := db.PartIdent(CategoryManufacturer, 2)
	require.NoError(t, err)
	assert.Equal(t, "/Game/Gear/Manufacturers/_Design/Hyperion.Hyperion", ident)

	for _, index := range []int{0, 3, -1} {
		_, err := db.PartIdent(CategoryManufacturer, index)
		lookupErr := serr.SchemaLookupError{}
		assert.Truef(t, errors.As(err, &lookupErr), "index %d", index)
	}

	_, err = db.PartIdent("Missing", 1)
	assert.Error(t, err)
}

func TestPartByShortName(t *testing.T) {
	db := loadFixture(t)

	index, ident, err := db.PartByShortName(CategoryManufacturer, "hyperion")
	require.NoError(t, err)
	assert.Equal(t, 2, index)
	assert.Equal(t, "/Game/Gear/Manufacturers/_Design/Hyperion.Hyperion", ident)

	index, _, err = db.PartByShortName(CategoryManufacturer, "Hyperion_Legacy")
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	index, _, err = db.PartByShortName(CategoryBalance, "InvBalD_Shield_A")
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	for _, name := range []string{"Shield", "", "Vladof"} {
		_, _, err := db.PartByShortName(CategoryBalance, name)
		lookupErr := serr.SchemaLookupError{}
		assert.Truef(t, errors.As(err, &lookupErr), "name %q", name)
	}
}

func TestPartByShortName_Default(t *testing.T) {
	db, err := Default()
	require.NoError(t, err)

	index, ident, err := db.PartByShortName(CategoryManufacturer, "Hyperion")
	require.NoError(t, err)
	assert.Equal(t, 26, index)
	assert.Equal(t, "/Game/Gear/Manufacturers/_Design/Hyperion.Hyperion", ident)

	index, _, err = db.PartByShortName(CategoryBalance, "InvBalD_Shield_OldGod")
	require.NoError(t, err)
	assert.Equal(t, 6215, index)
}
