package ds

import (
	"fmt"
)

type (
	ErrUnreachableCode struct {
		Caller string
		Reason string
	}
)

func (r ErrUnreachableCode) Error() string {
	if r.Reason == "" {
		return fmt.Sprintf("%s: unreachable code", r.Caller)
	}
	return fmt.Sprintf("%s: unreachable code: %s", r.Caller, r.Reason)
}
