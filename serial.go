package serialplot

import (
	"bytes"
	"strings"
)

// Fixed line settings of the sensor board's virtual COM port.
const (
	DefaultBaudRate  = 115200
	DefaultDelimiter = "\n"
)

// Config holds configuration parameters for opening a serial port.
// Ports are always opened 8N1: eight data bits, no parity, one stop bit.
type Config struct {
	Device    string
	BaudRate  int    // default 115200
	Delimiter string // default "\n"; a trailing "\r" is stripped from every line
}

func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	return c
}

// lineBuffer accumulates raw bytes and splits them on the delimiter. Bytes
// after a delimiter are kept for the next line.
type lineBuffer struct {
	delim   []byte
	pending []byte
}

func newLineBuffer(delim string) lineBuffer {
	return lineBuffer{delim: []byte(delim)}
}

func (b *lineBuffer) feed(p []byte) {
	b.pending = append(b.pending, p...)
}

func (b *lineBuffer) next() (string, bool) {
	idx := bytes.Index(b.pending, b.delim)
	if idx < 0 {
		return "", false
	}
	raw := b.pending[:idx]
	line := decodeLine(raw)
	b.pending = append(b.pending[:0], b.pending[idx+len(b.delim):]...)
	return line, true
}

func decodeLine(raw []byte) string {
	return strings.ToValidUTF8(strings.TrimRight(string(raw), "\r"), "�")
}
