//go:build !linux

package serialplot

import (
	"errors"
	"io"
	"sync"

	"go.bug.st/serial"
)

// SerialReader provides killable, line-oriented access to a serial port.
// ReadLine calls are serialized; Close may be called from any goroutine and
// unblocks a pending ReadLine.
type SerialReader struct {
	port      serial.Port
	done      chan struct{}
	closeOnce sync.Once
	config    Config

	mu  sync.Mutex
	buf lineBuffer
}

// Open opens a serial port using the provided Config and returns a SerialReader.
// The port is configured 8N1 without a read timeout.
func Open(cfg Config) (*SerialReader, error) {
	cfg = cfg.withDefaults()
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, &IOError{Op: "open", Device: cfg.Device, Err: err}
	}

	return &SerialReader{
		port:   port,
		done:   make(chan struct{}),
		config: cfg,
		buf:    newLineBuffer(cfg.Delimiter),
	}, nil
}

// Device returns the path the reader was opened on.
func (s *SerialReader) Device() string {
	return s.config.Device
}

// ReadLine blocks until a full line is received, the reader is closed, or the
// device fails. The delimiter and any trailing "\r" are not returned.
func (s *SerialReader) ReadLine() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.buf.next(); ok {
		return line, nil
	}

	chunk := make([]byte, 4096)
	for {
		n, err := s.port.Read(chunk)
		select {
		case <-s.done:
			return "", ErrClosed
		default:
		}
		if err != nil {
			return "", &IOError{Op: "read", Device: s.config.Device, Err: err}
		}
		if n == 0 {
			// A zero read without a timeout configured means the device went away.
			return "", &IOError{Op: "read", Device: s.config.Device, Err: io.ErrUnexpectedEOF}
		}
		s.buf.feed(chunk[:n])
		if line, ok := s.buf.next(); ok {
			return line, nil
		}
	}
}

// Close closes the serial port and unblocks any pending ReadLine.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *SerialReader) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.port.Close()
		var portErr *serial.PortError
		if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
			err = nil
		}
	})
	return err
}
