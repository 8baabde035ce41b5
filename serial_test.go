package serialplot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineBuffer(t *testing.T) {
	b := newLineBuffer("\n")

	_, ok := b.next()
	require.False(t, ok)

	b.feed([]byte("1013.25 hPa\r\n23.4"))
	line, ok := b.next()
	require.True(t, ok)
	require.Equal(t, "1013.25 hPa", line)

	_, ok = b.next()
	require.False(t, ok)

	b.feed([]byte("5 deg C\r\n\r\n"))
	line, ok = b.next()
	require.True(t, ok)
	require.Equal(t, "23.45 deg C", line)

	line, ok = b.next()
	require.True(t, ok)
	require.Empty(t, line)
}

func TestLineBuffer_CustomDelimiter(t *testing.T) {
	b := newLineBuffer("\r\n")
	b.feed([]byte("a\nb\r\nc"))

	line, ok := b.next()
	require.True(t, ok)
	require.Equal(t, "a\nb", line)
}

func TestDecodeLine_InvalidUTF8(t *testing.T) {
	require.Equal(t, "ab�c", decodeLine([]byte{'a', 'b', 0xff, 'c'}))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Device: "/dev/ttyACM0"}.withDefaults()
	require.Equal(t, DefaultBaudRate, cfg.BaudRate)
	require.Equal(t, DefaultDelimiter, cfg.Delimiter)

	cfg = Config{BaudRate: 9600, Delimiter: "\r\n"}.withDefaults()
	require.Equal(t, 9600, cfg.BaudRate)
	require.Equal(t, "\r\n", cfg.Delimiter)
}
