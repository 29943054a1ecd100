// Package scipher holds the item serial obfuscation and its checksum.
//
// The scheme is a rotate+XOR stream keyed by the 32 bit seed stored in the
// serial header. It hides the payload but offers no cryptographic security.
// Decrypt XORs first and rotates right after; Encrypt rotates left first and
// XORs after, so the two are exact inverses for every seed and length.
package scipher

const (
	keystreamMultiplier = 0x10A860C1
	keystreamModulus    = 0xFFFFFFFB
	rotationMask        = 0x1F
)

// Decrypt returns the plain payload for data protected with seed.
func Decrypt(seed int32, data []byte) []byte {
	xored := applyKeystream(seed, data)
	return rotateRight(xored, rotationSteps(seed, len(xored)))
}

// Encrypt returns data protected with seed.
func Encrypt(seed int32, data []byte) []byte {
	rotated := rotateLeft(data, rotationSteps(seed, len(data)))
	return applyKeystream(seed, rotated)
}

// applyKeystream returns a copy of data XORed with the seed keystream.
// A zero seed disables the keystream.
func applyKeystream(seed int32, data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if seed == 0 {
		return out
	}

	// seed >> 5 is an arithmetic shift, sign extended into 64 bits;
	// the multiplication wraps around like the game's unsigned 64 bit math
	x := uint64(int64(seed >> 5))
	for i := range out {
		x = (x * keystreamMultiplier) % keystreamModulus
		out[i] ^= byte(x)
	}
	return out
}

func rotationSteps(seed int32, length int) int {
	if length == 0 {
		return 0
	}
	return int(uint32(seed)&rotationMask) % length
}

func rotateLeft(data []byte, steps int) []byte {
	out := make([]byte, 0, len(data))
	out = append(out, data[steps:]...)
	out = append(out, data[:steps]...)
	return out
}

func rotateRight(data []byte, steps int) []byte {
	return rotateLeft(data, (len(data)-steps)%max(len(data), 1))
}
