//go:build fuzz
// +build fuzz

package sitem

import (
	"bytes"
	"testing"

	"github.com/thanhnguyen2187/bl3-savior/serial/sdb"
)

// FuzzDecode_RoundTrip checks that every serial Decode accepts encodes back
// to the same bytes with its own seed.
func FuzzDecode_RoundTrip(f *testing.F) {
	db, err := sdb.Default()
	if err != nil {
		f.Fatal(err)
	}

	f.Add(oldGodRaw)
	f.Add(seal(3, oldGodBody))
	f.Add([]byte{})
	f.Add([]byte{4, 0, 0, 0, 0, 0, 0})

	f.Fuzz(func(t *testing.T, raw []byte) {
		if len(raw) > 4096 {
			t.Skip("input too large")
		}

		item, err := Decode(db, raw)
		if err != nil {
			return
		}
		encoded, err := Encode(db, item, item.Seed)
		if err != nil {
			t.Fatalf("Encode failed for decoded item %+v: %v", item, err)
		}
		if !bytes.Equal(raw, encoded) {
			t.Errorf("round trip mismatch: got %v, want %v", encoded, raw)
		}
	})
}
