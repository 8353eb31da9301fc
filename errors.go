package tcpio

import (
	"errors"
	"fmt"
)

var (
	// ErrStalledTransfer indicates a read or write attempt that made zero
	// progress without reporting an error. It is treated as fatal so that
	// the transfer loop always terminates.
	ErrStalledTransfer = errors.New("transfer stalled: zero bytes transferred without error")

	// ErrConnectionClosed indicates the peer closed the stream before a
	// requested read was satisfied.
	ErrConnectionClosed = errors.New("connection closed by peer")
)

// ParseError is returned when a textual address cannot be parsed.
type ParseError struct {
	// Input is the text that failed to parse.
	Input string
	// Reason describes why parsing failed.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse address %q: %s", e.Input, e.Reason)
}

// ResolveError is returned when a host/service query cannot be resolved.
type ResolveError struct {
	Host    string
	Service string
	// Reason describes a failure detected before the underlying lookup,
	// e.g. a non-numeric service in numeric-only mode.
	Reason string
	// Err is the underlying lookup error, if any.
	Err error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve %s:%s: %v", e.Host, e.Service, e.Err)
	}

	return fmt.Sprintf("could not resolve %s:%s: %s", e.Host, e.Service, e.Reason)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ConnectError is returned when a socket could not be opened or connected to
// an endpoint. No socket resource remains open when it is returned.
type ConnectError struct {
	Endpoint Endpoint
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("could not connect to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// TransferError is returned when a transfer completed only partially. N
// records the bytes transferred before the failure, so callers can
// distinguish "0 bytes" from "N of M bytes".
type TransferError struct {
	// Op is "read" or "write".
	Op string
	// N is the number of bytes transferred before the error.
	N int
	// Err is the underlying cause, possibly ErrStalledTransfer or
	// ErrConnectionClosed.
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s failed after %d bytes: %v", e.Op, e.N, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
