package serial

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnguyen2187/bl3-savior/serial/sdb"
	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
	"github.com/thanhnguyen2187/bl3-savior/serial/sitem"
)

const (
	oldGodSerial     = "BL3(Awdo62pRfz+458anYLNhGOCrZuj1SLbVYg==)"
	oldGodStripped   = "BL3(AwAAAABmboC7I9xAEzwShMJVX8nPYwsAAA==)"
	unforgivenSerial = "BL3(BPikMutfwadWBOJgiePxaCrJjAqiWsS5aA==)"
	plainRifleSerial = "BL3(AwAAAAC3wIAoNsCwMBo=)"
)

func loadDB(t *testing.T) *sdb.DB {
	db, err := sdb.Default()
	require.NoError(t, err)
	return db
}

func TestDecodeSerial(t *testing.T) {
	db := loadDB(t)
	item, err := DecodeSerial(db, oldGodSerial)
	require.NoError(t, err)
	assert.Equal(t, "Old God", item.Name())
	assert.Equal(t, "Hyperion", item.Manufacturer.Name)
	assert.Len(t, item.Parts.Parts, 7)
	assert.Len(t, item.Parts.GenericParts, 1)

	encoded, err := EncodeSerial(db, item, item.Seed)
	require.NoError(t, err)
	assert.Equal(t, oldGodSerial, encoded)

	encoded, err = EncodeSerial(db, item, 0)
	require.NoError(t, err)
	assert.Equal(t, oldGodStripped, encoded)
}

func TestDecodeSerial_Errors(t *testing.T) {
	db := loadDB(t)

	_, err := DecodeSerial(db, "BL3(not base64)")
	assert.True(t, errors.As(err, &serr.StructuralError{}))

	_, err = DecodeSerial(db, "BL3(Awdo62pRfz+458anYLNhGOCrZuj1SLbVYw==)")
	assert.True(t, errors.As(err, &serr.IntegrityError{}))
}

func TestDecodeSerials(t *testing.T) {
	db := loadDB(t)
	serials := []string{
		oldGodSerial,
		"BL3(garbage",
		unforgivenSerial,
		plainRifleSerial,
		"BL3(Awdo62pRfz+458anYLNhGOCrZuj1SLbVYw==)",
	}

	for _, workers := range []int{0, 1, 3} {
		result, err := DecodeSerials(context.Background(), db, serials, workers)
		require.NoError(t, err)

		names := lo.Map(result.Items, func(item *sitem.Item, _ int) string { return item.Name() })
		assert.Equal(t, []string{"Old God", "Unforgiven", "Balance_AR_VLA_03_Rare"}, names)
		indices := lo.Map(result.Failures, func(failure BatchFailure, _ int) int { return failure.Index })
		assert.Equal(t, []int{1, 4}, indices)
		assert.True(t, errors.As(result.Failures[0].Err, &serr.StructuralError{}))
		assert.True(t, errors.As(result.Failures[1].Err, &serr.IntegrityError{}))
	}
}

func TestDecodeBatch(t *testing.T) {
	db := loadDB(t)
	raws := lo.Map(
		[]string{oldGodSerial, unforgivenSerial},
		func(s string, _ int) []byte {
			raw, err := Unwrap(s)
			require.NoError(t, err)
			return raw
		},
	)
	raws = append(raws, []byte{3, 0})

	result, err := DecodeBatch(context.Background(), db, raws, 2)
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].Index)
}

func TestDecodeBatch_Canceled(t *testing.T) {
	db := loadDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DecodeSerials(ctx, db, []string{oldGodSerial}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
