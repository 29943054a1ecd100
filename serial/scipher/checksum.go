package scipher

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

const (
	// HeaderSize covers the serial version byte and the big-endian seed.
	HeaderSize = 5
	// ChecksumSize is the length of the checksum leading every plain payload.
	ChecksumSize = 2
)

var checksumPlaceholder = []byte{0xFF, 0xFF}

// Checksum computes the folded CRC32 of a serial. The checksum bytes of the
// payload are replaced with 0xFFFF while hashing, so payload may hold any
// value there.
func Checksum(header []byte, payload []byte) uint16 {
	hash := crc32.NewIEEE()
	hash.Write(header[:HeaderSize])
	hash.Write(checksumPlaceholder)
	hash.Write(payload[ChecksumSize:])
	sum := hash.Sum32()
	return uint16((sum >> 16) ^ sum)
}

// PutChecksum stores the checksum of the serial into payload[0:2].
func PutChecksum(header []byte, payload []byte) {
	binary.BigEndian.PutUint16(payload, Checksum(header, payload))
}

func VerifyChecksum(header []byte, payload []byte) error {
	stored := binary.BigEndian.Uint16(payload)
	computed := Checksum(header, payload)
	if stored != computed {
		return serr.IntegrityError{
			Caller:   "scipher.VerifyChecksum",
			Expected: stored,
			Actual:   computed,
		}
	}
	return nil
}
