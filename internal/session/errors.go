package session

import "errors"

// Domain errors for the session package.
var (
	// ErrDeviceNotFound is returned when a device ID is not catalogued.
	ErrDeviceNotFound = errors.New("session: device not found")

	// ErrDeviceExists is returned when registering a device ID twice.
	ErrDeviceExists = errors.New("session: device already exists")

	// ErrInstanceNotFound is returned when an instance ID is not open.
	ErrInstanceNotFound = errors.New("session: instance not found")

	// ErrInvalidDeviceID is returned when a device ID is empty.
	ErrInvalidDeviceID = errors.New("session: invalid device id")
)
