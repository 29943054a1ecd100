package serial

import (
	"encoding/base64"
	"strings"

	"github.com/thanhnguyen2187/bl3-savior/serial/serr"
)

const (
	wrapPrefix = "BL3("
	wrapSuffix = ")"
)

func Wrap(raw []byte) string {
	return wrapPrefix + base64.StdEncoding.EncodeToString(raw) + wrapSuffix
}

// Unwrap extracts the raw bytes of a "BL3(<base64>)" string. The prefix is
// matched ignoring case and surrounding whitespace is dropped.
func Unwrap(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(wrapPrefix)+len(wrapSuffix) ||
		!strings.EqualFold(s[:len(wrapPrefix)], wrapPrefix) ||
		!strings.HasSuffix(s, wrapSuffix) {
		return nil, serr.StructuralError{
			Caller: "serial.Unwrap",
			Reason: `expected the form "BL3(<base64>)"`,
		}
	}

	encoded := s[len(wrapPrefix) : len(s)-len(wrapSuffix)]
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, serr.StructuralError{
			Caller: "serial.Unwrap",
			Reason: "invalid base64: " + err.Error(),
		}
	}
	return raw, nil
}
