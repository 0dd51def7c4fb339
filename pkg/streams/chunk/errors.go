package chunk

import "errors"

var (
	// ErrRejected indicates a record does not fit the store.
	ErrRejected = errors.New("chunk rejected")
	// ErrEmpty indicates there is no complete record to read.
	ErrEmpty = errors.New("no chunk")
)
