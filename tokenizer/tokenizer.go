// Package tokenizer turns raw file bytes into sentence-scoped n-grams.
//
// Normalization is byte-wise and only looks at ASCII classes, so malformed
// UTF-8 passes through as opaque bytes.
package tokenizer

import (
	"bytes"
	"errors"
	"strings"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/constants"
)

var ErrInvalidN = errors.New("n-gram width must be positive")

// Table maps an n-gram to its number of occurrences.
type Table map[string]uint64

// Tokenizer counts n-grams of a fixed width.
type Tokenizer struct {
	n int
}

// New returns a Tokenizer for n-grams of width n, or ErrInvalidN.
func New(n int) (*Tokenizer, error) {
	if n <= 0 {
		return nil, ErrInvalidN
	}
	return &Tokenizer{n: n}, nil
}

// Count adds every n-gram of content to table and returns the number of
// windows emitted.
func (t *Tokenizer) Count(content []byte, table Table) uint64 {
	var windows uint64
	for _, segment := range Segments(Normalize(content)) {
		windows += t.countSegment(Words(segment), table)
	}
	return windows
}

func (t *Tokenizer) countSegment(words []string, table Table) uint64 {
	if len(words) < t.n {
		return 0
	}
	var windows uint64
	for i := 0; i+t.n <= len(words); i++ {
		table[strings.Join(words[i:i+t.n], " ")]++
		windows++
	}
	return windows
}

// Count is a convenience wrapper for a one-off tokenizer.
func Count(content []byte, n int, table Table) (uint64, error) {
	t, err := New(n)
	if err != nil {
		return 0, err
	}
	return t.Count(content, table), nil
}

// Normalize lowercases ASCII letters, maps newline and tab to a space and
// replaces every ASCII digit or punctuation byte with the delimiter.
func Normalize(content []byte) []byte {
	out := make([]byte, len(content))
	for i, c := range content {
		switch {
		case c == '\n' || c == '\t':
			out[i] = ' '
		case isDigit(c) || isPunct(c):
			out[i] = constants.DELIMITER
		case c >= 'A' && c <= 'Z':
			out[i] = c + ('a' - 'A')
		default:
			out[i] = c
		}
	}
	return out
}

// Segments splits normalized text on the delimiter. A trailing delimiter does
// not open an extra segment.
func Segments(normalized []byte) []string {
	var segments []string
	for len(normalized) > 0 {
		i := bytes.IndexByte(normalized, constants.DELIMITER)
		if i < 0 {
			segments = append(segments, string(normalized))
			break
		}
		segments = append(segments, string(normalized[:i]))
		normalized = normalized[i+1:]
	}
	return segments
}

// Words splits a segment on runs of non-word bytes, dropping empty tokens.
func Words(segment string) []string {
	var words []string
	start := -1
	for i := 0; i < len(segment); i++ {
		if isWord(segment[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, segment[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, segment[start:])
	}
	return words
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isPunct matches the C locale ispunct class.
func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') ||
		(c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') ||
		(c >= '{' && c <= '~')
}

func isWord(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) || c == '_'
}
