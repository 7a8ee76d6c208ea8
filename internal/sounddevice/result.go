package sounddevice

import "errors"

// Result is a numeric multimedia result code, used on the wire (MQTT events,
// journal rows, metrics) where a Go error cannot travel.
type Result int

// Result codes. Values follow the classic multimedia system error numbering.
const (
	ResultOK               Result = 0
	ResultError            Result = 1
	ResultBadDeviceID      Result = 2
	ResultAllocated        Result = 4
	ResultInvalidHandle    Result = 5
	ResultNoMemory         Result = 7
	ResultNotSupported     Result = 8
	ResultInvalidParameter Result = 11
)

// String returns the symbolic name of the result code.
func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultError:
		return "error"
	case ResultBadDeviceID:
		return "bad_device_id"
	case ResultAllocated:
		return "allocated"
	case ResultInvalidHandle:
		return "invalid_handle"
	case ResultNoMemory:
		return "no_memory"
	case ResultNotSupported:
		return "not_supported"
	case ResultInvalidParameter:
		return "invalid_parameter"
	default:
		return "unknown"
	}
}

// ResultOf maps an error returned by this package or by a hook to a Result.
// Errors that match no known sentinel map to ResultError.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ErrInvalidParameter):
		return ResultInvalidParameter
	case errors.Is(err, ErrOutOfMemory):
		return ResultNoMemory
	case errors.Is(err, ErrInvalidDeviceType):
		return ResultBadDeviceID
	case errors.Is(err, ErrAlreadyAllocated):
		return ResultAllocated
	case errors.Is(err, ErrNotSupported):
		return ResultNotSupported
	case errors.Is(err, ErrInvalidHandle):
		return ResultInvalidHandle
	default:
		return ResultError
	}
}
