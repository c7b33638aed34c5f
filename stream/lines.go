package stream

import (
	"bufio"
	"io"
	"strings"
)

// lineScanner reads trimmed, non-empty lines from a byte stream. It buffers
// at most one line at a time and hands each line off as soon as its
// terminator is seen, so it is safe on unbounded streams and tolerant of
// partial reads.
type lineScanner struct {
	r *bufio.Reader
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{r: bufio.NewReader(r)}
}

// ReadLine returns the next non-empty line with surrounding whitespace
// stripped. It returns io.EOF when the stream ends cleanly; any other error
// is a read failure. A final unterminated line before EOF is still returned.
func (s *lineScanner) ReadLine() (string, error) {
	for {
		line, err := s.r.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if err != nil {
			if err == io.EOF && trimmed != "" {
				return trimmed, nil
			}
			return "", err
		}
		if trimmed == "" {
			continue
		}
		return trimmed, nil
	}
}
