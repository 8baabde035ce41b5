// errors.go - error kinds surfaced by the reader, parser and driver loop
package serialplot

import (
	"errors"
	"fmt"
)

// ErrDeviceNotFound is returned by the port selector when no port matches the
// device marker and no device path was entered by hand.
var ErrDeviceNotFound = errors.New("serial device not found")

// ErrClosed is returned by ReadLine once the port handle has been closed.
var ErrClosed = errors.New("serialreader closed")

// IOError represents a failure to open or read the serial device.
type IOError struct {
	Op     string
	Device string
	Err    error
}

func (e *IOError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Device, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a line that carried a unit marker but no valid number.
type ParseError struct {
	Line string
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s reading %q: %v", e.Kind, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError wraps a chart renderer failure.
type RenderError struct {
	Cycle int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render cycle %d: %v", e.Cycle, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
