// Package serr holds the error kinds shared by the serial codec packages.
//
// Every kind is terminal for the item being processed. Callers pick the kind
// with errors.As and decide whether to skip, report or abort.
package serr

import (
	"fmt"
)

type (
	// StructuralError reports input that is too short or badly wrapped.
	StructuralError struct {
		Caller string
		Reason string
	}
	// UnsupportedVersionError reports a serial or data version this codec cannot read.
	UnsupportedVersionError struct {
		Caller string
		Field  string
		Value  int
		Max    int
	}
	// IntegrityError reports a checksum mismatch.
	IntegrityError struct {
		Caller   string
		Expected uint16
		Actual   uint16
	}
	// SchemaLookupError reports a category, index or name missing from the schema.
	SchemaLookupError struct {
		Caller   string
		Category string
		Key      string
		Reason   string
	}
	// ResidualDataError reports bits left over after every field was consumed.
	ResidualDataError struct {
		Caller  string
		NumBits int
	}
)

func (r StructuralError) Error() string {
	return fmt.Sprintf("%s: malformed serial: %s", r.Caller, r.Reason)
}

func (r UnsupportedVersionError) Error() string {
	if r.Max > 0 {
		return fmt.Sprintf(
			"%s: unsupported %s %d (max %d)",
			r.Caller, r.Field, r.Value, r.Max,
		)
	}
	return fmt.Sprintf("%s: unsupported %s %d", r.Caller, r.Field, r.Value)
}

func (r IntegrityError) Error() string {
	return fmt.Sprintf(
		"%s: checksum mismatch: stored 0x%04x, computed 0x%04x",
		r.Caller, r.Expected, r.Actual,
	)
}

func (r SchemaLookupError) Error() string {
	if r.Key == "" {
		return fmt.Sprintf(`%s: category "%s": %s`, r.Caller, r.Category, r.Reason)
	}
	return fmt.Sprintf(`%s: category "%s", key "%s": %s`, r.Caller, r.Category, r.Key, r.Reason)
}

func (r ResidualDataError) Error() string {
	return fmt.Sprintf("%s: %d undecoded bits left after the last field", r.Caller, r.NumBits)
}
