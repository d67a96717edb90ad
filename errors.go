package intmap

import "errors"

var (
	// ErrInvalidArgument is returned when a key is not positive, or when a
	// value passed to Put lies outside (0, math.MaxInt64).
	ErrInvalidArgument = errors.New("intmap: invalid argument")

	// ErrProtocolViolation is carried by the panic raised when a table
	// must grow past maxCapacity. The map cannot make progress after it.
	ErrProtocolViolation = errors.New("intmap: protocol violation")
)
