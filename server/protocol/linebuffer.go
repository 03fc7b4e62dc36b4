package protocol

import (
	"errors"
)

// MaxLineLength is the most a client may send without a newline
const MaxLineLength = 1024

var ErrLineTooLong = errors.New("line exceeds buffer size")

// LineBuffer assembles newline-terminated command lines from a byte stream.
// Carriage returns are turned into spaces.
type LineBuffer struct {
	buf      []byte
	skipping bool
}

func NewLineBuffer() *LineBuffer {
	return &LineBuffer{buf: make([]byte, 0, MaxLineLength)}
}

// Feed appends data and returns every line it completes. When the pending
// bytes outgrow MaxLineLength they are discarded and ErrLineTooLong is
// returned along with the lines that did complete. The rest of
// the oversized line is skipped up to its newline.
func (b *LineBuffer) Feed(data []byte) ([]string, error) {
	var lines []string
	var err error

	for _, c := range data {
		if b.skipping {
			b.skipping = c != '\n'
			continue
		}

		switch c {
		case '\n':
			lines = append(lines, string(b.buf))
			b.buf = b.buf[:0]
		case '\r':
			b.buf = append(b.buf, ' ')
		default:
			b.buf = append(b.buf, c)
		}

		if len(b.buf) > MaxLineLength {
			b.buf = b.buf[:0]
			b.skipping = true
			err = ErrLineTooLong
		}
	}

	return lines, err
}

// Pending is the number of buffered bytes without a newline yet
func (b *LineBuffer) Pending() int {
	return len(b.buf)
}
