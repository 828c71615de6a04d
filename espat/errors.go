package espat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDialer is returned when a Device is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the module.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Device
	// that has not been successfully initialized.
	//
	// This can occur if initialization failed or if the Device was not created
	// via New.
	ErrNotInitialized = errors.New("device not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Device that has
	// already been closed.
	ErrAlreadyClosed = errors.New("device already closed")

	// ErrLoopRunning is returned when Loop is called while another Loop is
	// still serving the same Device.
	ErrLoopRunning = errors.New("loop already running")

	// ErrLineTooLong is returned when a module response line exceeds the
	// maximum allowed length.
	//
	// This typically indicates malformed input, unexpected binary data,
	// or a baud rate mismatch.
	ErrLineTooLong = errors.New("response line too long")

	// ErrResetTimeout is returned when the module does not report "ready"
	// within the configured reset timeout.
	ErrResetTimeout = errors.New("module not ready after reset")

	// ErrNoPrompt is returned when a raw data write was not acknowledged
	// with the ">" prompt.
	ErrNoPrompt = errors.New("no data prompt")

	// ErrInvalidArgument is returned for parameters the module would reject.
	ErrInvalidArgument = errors.New("invalid argument")
)

// CommandError describes an AT command that ended with a failure result
// code (ERROR, FAIL, SEND FAIL).
type CommandError struct {
	// Command is the command line as written, without terminator.
	Command string
	// Result is the final result code.
	Result string
	// Lines holds the intermediate lines received before Result.
	Lines []string
}

func (e *CommandError) Error() string {
	if len(e.Lines) == 0 {
		return fmt.Sprintf("%s: %s", e.Command, e.Result)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Command, e.Result, strings.Join(e.Lines, "; "))
}
