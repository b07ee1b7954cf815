package aivoice

import (
	"errors"
	"fmt"
)

// Sentinel errors you can compare with errors.Is.
var (
	// ErrSchema marks a malformed configuration object or host value. The
	// connection guard never wraps it, so it is not mistaken for a host failure.
	ErrSchema = errors.New("aivoice: schema error")

	// ErrVoiceNameRequired is returned when a preset has no VoiceName.
	ErrVoiceNameRequired = fmt.Errorf("%w: voice name is required", ErrSchema)

	// ErrUnknownStyle is returned for a style or style name outside the fixed set.
	ErrUnknownStyle = fmt.Errorf("%w: unknown style", ErrSchema)

	// ErrParse is returned when the host hands back JSON that cannot be decoded.
	ErrParse = errors.New("aivoice: malformed host JSON")

	// ErrNoVoices is returned when synthesis needs a default voice and the host has none.
	ErrNoVoices = errors.New("aivoice: host has no voices")

	// ErrNoHostNames is returned when the automation object lists no host programs.
	ErrNoHostNames = errors.New("aivoice: no available host names")

	// ErrWaitTimeout is returned when Wait gives up before the host leaves BUSY.
	ErrWaitTimeout = errors.New("aivoice: timed out waiting for host")
)

// ConnectionError is returned when the host program could not be started or
// connected to before a guarded operation.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("aivoice: could not connect to host: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// OperationError is returned when a guarded operation fails after the
// connection was established.
type OperationError struct {
	Op    string
	Cause error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("aivoice: %s failed: %v", e.Op, e.Cause)
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}
