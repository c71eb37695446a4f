package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize bounds a single answer typed at the prompt, in bytes.
const DefaultMaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("answer exceeds the maximum size")
	ErrInvalidUTF8   = errors.New("answer is not valid UTF-8")
)

// Sanitize prepares a typed answer for the form value store. Answers over
// limit bytes are rejected, never truncated. Control characters other than
// tab and line breaks are dropped. A limit <= 0 selects DefaultMaxInputSize.
func Sanitize(answer string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if n := len(answer); n > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, n, limit)
	}
	if !utf8.ValidString(answer) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(answer, unsafeRune) < 0 {
		return answer, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeRune(r) {
			return -1
		}
		return r
	}, answer), nil
}

// unsafeRune matches control characters other than tab and line breaks.
func unsafeRune(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return unicode.IsControl(r)
}
