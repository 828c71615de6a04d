package wifi

import (
	"errors"
)

// ReturnCode is the outcome of a Wi-Fi operation.
type ReturnCode int

const (
	Success ReturnCode = iota
	Failure
	Timeout
	NotSupported
)

func (c ReturnCode) String() string {
	switch c {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Timeout:
		return "timeout"
	case NotSupported:
		return "not supported"
	default:
		return "unknown"
	}
}

var (
	// ErrFailure is returned when arguments are invalid, the manager is not
	// turned on, or the module rejected the operation.
	ErrFailure = errors.New("wifi: operation failed")

	// ErrTimeout is returned when the radio could not be acquired within
	// the semaphore wait, or an expected connect/disconnect report did not
	// arrive in time.
	ErrTimeout = errors.New("wifi: timeout")

	// ErrNotSupported is returned for modes and features the module cannot
	// provide.
	ErrNotSupported = errors.New("wifi: not supported")

	// ErrNoOpener is returned by NewManager when Config.Open is not set.
	ErrNoOpener = errors.New("wifi: no driver opener configured")
)

// Code translates an error returned by a Manager into its ReturnCode.
func Code(err error) ReturnCode {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrNotSupported):
		return NotSupported
	case errors.Is(err, ErrTimeout):
		return Timeout
	default:
		return Failure
	}
}
