//go:build linux

package serialplot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// SerialReader provides killable, line-oriented access to a Linux serial port.
// ReadLine calls are serialized; Close may be called from any goroutine and
// unblocks a pending ReadLine.
type SerialReader struct {
	fd        int
	file      *os.File
	done      chan struct{}
	closeOnce sync.Once
	config    Config
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd

	mu  sync.Mutex
	buf lineBuffer
}

// Open opens a serial port using the provided Config and returns a SerialReader.
// The port is configured raw, 8N1, without flow control.
func Open(cfg Config) (*SerialReader, error) {
	cfg = cfg.withDefaults()
	baud, ok := baudToUnix(cfg.BaudRate)
	if !ok {
		return nil, &IOError{Op: "open", Device: cfg.Device, Err: fmt.Errorf("unsupported baud rate %d", cfg.BaudRate)}
	}

	fd, err := syscall.Open(cfg.Device, syscall.O_RDWR|syscall.O_NOCTTY|syscall.O_NONBLOCK, 0666)
	if err != nil {
		return nil, &IOError{Op: "open", Device: cfg.Device, Err: err}
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		syscall.Close(fd)
		return nil, &IOError{Op: "get termios", Device: cfg.Device, Err: err}
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baud

	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		syscall.Close(fd)
		return nil, &IOError{Op: "set termios", Device: cfg.Device, Err: err}
	}

	// Turn back into blocking mode now that config is done
	if err := syscall.SetNonblock(fd, false); err != nil {
		syscall.Close(fd)
		return nil, &IOError{Op: "set blocking", Device: cfg.Device, Err: err}
	}

	// Create self-pipe for killability
	pipeFds := make([]int, 2)
	if err := unix.Pipe(pipeFds); err != nil {
		syscall.Close(fd)
		return nil, &IOError{Op: "pipe", Device: cfg.Device, Err: err}
	}

	return &SerialReader{
		fd:     fd,
		file:   os.NewFile(uintptr(fd), cfg.Device),
		done:   make(chan struct{}),
		config: cfg,
		pipeR:  pipeFds[0],
		pipeW:  pipeFds[1],
		buf:    newLineBuffer(cfg.Delimiter),
	}, nil
}

// Device returns the path the reader was opened on.
func (s *SerialReader) Device() string {
	return s.config.Device
}

// ReadLine blocks until a full line is received, the reader is closed, or the
// device fails. The delimiter and any trailing "\r" are not returned. There is
// no timeout: a silent device blocks the caller until Close.
func (s *SerialReader) ReadLine() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return "", ErrClosed
	default:
	}
	if line, ok := s.buf.next(); ok {
		return line, nil
	}

	chunk := make([]byte, 4096)
	for {
		// Use poll to wait for data or kill signal
		pfd := []unix.PollFd{
			{Fd: int32(s.fd), Events: unix.POLLIN},
			{Fd: int32(s.pipeR), Events: unix.POLLIN},
		}
		if _, err := unix.Poll(pfd, -1); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return "", &IOError{Op: "poll", Device: s.config.Device, Err: err}
		}

		select {
		case <-s.done:
			return "", ErrClosed
		default:
		}
		if pfd[1].Revents&unix.POLLIN != 0 {
			return "", ErrClosed
		}

		if pfd[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			n, err := s.file.Read(chunk)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				return "", &IOError{Op: "read", Device: s.config.Device, Err: err}
			}
			s.buf.feed(chunk[:n])
			if line, ok := s.buf.next(); ok {
				return line, nil
			}
		}
	}
}

// Close closes the serial port and unblocks any pending ReadLine.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *SerialReader) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		// Wake up poll using self-pipe
		unix.Write(s.pipeW, []byte{1})

		// Wait for an in-flight ReadLine to leave poll before the fds go away.
		s.mu.Lock()
		defer s.mu.Unlock()

		err = s.file.Close()
		unix.Close(s.pipeR)
		unix.Close(s.pipeW)
	})
	return err
}

func baudToUnix(baud int) (uint32, bool) {
	switch baud {
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	case 230400:
		return unix.B230400, true
	default:
		return 0, false
	}
}
