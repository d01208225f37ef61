package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// Delimiter separates values on a line.
	Delimiter = ","
	// CommentMarker starts a line that is ignored.
	CommentMarker = "#"
)

// ParseLines returns the value-tuples of every data line in r, in order.
// Lines have no length limit.
func ParseLines(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	var out [][]string
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if values, ok := ParseLine(strings.TrimSuffix(line, "\n")); ok {
				out = append(out, values)
			}
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read lines: %w", err)
		}
	}
}

// ParseLine splits a single line. ok is false for blank and comment lines.
func ParseLine(line string) (values []string, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" || strings.HasPrefix(line, CommentMarker) {
		return nil, false
	}
	return strings.Split(line, Delimiter), true
}

// EncodeLines writes one line per tuple.
func EncodeLines(w io.Writer, tuples [][]string) error {
	bw := bufio.NewWriter(w)
	for _, values := range tuples {
		if _, err := bw.WriteString(strings.Join(values, Delimiter)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
