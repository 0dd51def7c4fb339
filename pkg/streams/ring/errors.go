package ring

import "errors"

var (
	// ErrFull indicates a write could not be accepted.
	ErrFull = errors.New("buffer full")
	// ErrEmpty indicates a read from an empty buffer.
	ErrEmpty = errors.New("buffer empty")
	// ErrOutOfRange indicates a peek past the stored bytes.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrBusy indicates a reservation is already outstanding.
	ErrBusy = errors.New("reservation outstanding")
)
