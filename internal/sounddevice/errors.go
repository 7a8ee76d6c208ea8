package sounddevice

import (
	"errors"
	"fmt"
)

// Domain errors for the sounddevice package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, sounddevice.ErrOutOfMemory) {
//	    // allocator exhausted
//	}
var (
	// ErrInvalidParameter is returned when a required argument is nil.
	ErrInvalidParameter = errors.New("sounddevice: invalid parameter")

	// ErrOutOfMemory is returned when the allocator cannot provide an instance.
	ErrOutOfMemory = errors.New("sounddevice: out of memory")

	// ErrInvalidDeviceType is returned when a device type is not recognised.
	ErrInvalidDeviceType = errors.New("sounddevice: invalid device type")
)

// Hook errors. Drivers return these (optionally wrapped) from Construct and
// Destruct so callers can map them to result codes.
var (
	// ErrAlreadyAllocated is returned when a device cannot accept another session.
	ErrAlreadyAllocated = errors.New("sounddevice: device already allocated")

	// ErrNotSupported is returned when a driver does not support the request.
	ErrNotSupported = errors.New("sounddevice: not supported")

	// ErrInvalidHandle is returned when an instance carries no state the driver recognises.
	ErrInvalidHandle = errors.New("sounddevice: invalid handle")
)

// InvariantError is the panic value used when internal list state is corrupt.
// It is never returned as an error.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("sounddevice: invariant violated in %s: %s", e.Op, e.Msg)
}

// invariant panics with an *InvariantError when cond is false.
func invariant(cond bool, op, format string, args ...any) {
	if cond {
		return
	}
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
