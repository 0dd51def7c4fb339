package scan

import (
	"errors"
	"fmt"
)

// ErrNoMatch indicates a scan found no complete branch.
// It is the normal result while waiting for more bytes.
var ErrNoMatch = errors.New("no match")

// FormatError reports an invalid Format.
type FormatError struct {
	Branch  int
	Element int
	Reason  string
}

// Error implements error.
func (e *FormatError) Error() string {
	if e.Element < 0 {
		return fmt.Sprintf("branch %d: %s", e.Branch, e.Reason)
	}
	return fmt.Sprintf("branch %d element %d: %s", e.Branch, e.Element, e.Reason)
}
