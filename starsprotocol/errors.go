package starsprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the STARS client.
var (
	// ErrNotConnected indicates an operation was attempted without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrCallbackMode indicates a blocking receive was attempted after the
	// dispatcher took ownership of the socket.
	ErrCallbackMode = errors.New("receive is owned by callback mode")

	// ErrFrameTooLong indicates an unterminated frame exceeded the decoder limit.
	ErrFrameTooLong = errors.New("frame too long")

	// ErrInvalidField indicates a message field that cannot be framed.
	ErrInvalidField = errors.New("invalid message field")
)

// ConfigError reports a missing or unusable keyword source.
type ConfigError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ConnectionError represents a failure to establish the TCP connection.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ProtocolError reports a handshake the server did not follow or rejected.
type ProtocolError struct {
	Message string
	// Diagnostic is the offending text received from the server.
	Diagnostic string
	Cause      error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	msg := "protocol error: " + e.Message
	if e.Diagnostic != "" {
		msg += fmt.Sprintf(" (%q)", e.Diagnostic)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// TimeoutError reports a synchronous receive that ran out of time.
type TimeoutError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("timeout: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("timeout: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Timeout reports true so TimeoutError satisfies the net.Error convention.
func (e *TimeoutError) Timeout() bool {
	return true
}

// ReceiveError reports a closed socket or I/O failure while reading.
type ReceiveError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ReceiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("receive failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("receive failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ReceiveError) Unwrap() error {
	return e.Cause
}

// TransmitError reports a frame that could not be written.
type TransmitError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *TransmitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transmit failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transmit failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TransmitError) Unwrap() error {
	return e.Cause
}

func newConfigError(message string, cause error) error {
	return &ConfigError{Message: message, Cause: cause}
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}

func newProtocolError(message, diagnostic string, cause error) error {
	return &ProtocolError{Message: message, Diagnostic: diagnostic, Cause: cause}
}

func newTimeoutError(message string, cause error) error {
	return &TimeoutError{Message: message, Cause: cause}
}

func newReceiveError(message string, cause error) error {
	return &ReceiveError{Message: message, Cause: cause}
}

func newTransmitError(message string, cause error) error {
	return &TransmitError{Message: message, Cause: cause}
}
