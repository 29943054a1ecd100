package ds

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// DumpJSON renders t on a single line. Errors are rendered in place of the
// value, which keeps it usable for logs and line oriented output.
func DumpJSON[T any](t T) string {
	tBytes, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "DumpJSON error").Error()
	}

	return string(tBytes)
}
