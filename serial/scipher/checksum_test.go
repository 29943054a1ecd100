package scipher

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

func TestChecksum_KnownSerial(t *testing.T) {
	assert.Equal(t, uint16(0x05A8), Checksum(shieldSerial, shieldPayload))
	assert.NoError(t, VerifyChecksum(shieldSerial, shieldPayload))
}

func TestChecksum_IgnoresStoredBytes(t *testing.T) {
	payload := append([]byte{0x12, 0x34}, shieldPayload[ChecksumSize:]...)
	assert.Equal(t, uint16(0x05A8), Checksum(shieldSerial, payload))
}

func TestPutChecksum(t *testing.T) {
	header := []byte{3, 0, 0, 0, 0}
	payload := append([]byte{0, 0}, shieldPayload[ChecksumSize:]...)
	PutChecksum(header, payload)
	assert.NoError(t, VerifyChecksum(header, payload))
	// matches the seed 0 re-encoding of the shield serial: BL3(AwAAAABmboC7...)
	assert.Equal(t, []byte{0x66, 0x6E}, payload[:ChecksumSize])
}

func TestVerifyChecksum_Mismatch(t *testing.T) {
	payload := append([]byte{}, shieldPayload...)
	payload[7] ^= 0x04

	err := VerifyChecksum(shieldSerial, payload)
	integrityErr := serr.IntegrityError{}
	assert.True(t, errors.As(err, &integrityErr))
	assert.Equal(t, uint16(0x05A8), integrityErr.Expected)
	assert.NotEqual(t, integrityErr.Expected, integrityErr.Actual)
}
