// Package pattern implements the filename wildcard language used by vfind.
//
//	?       any single character (including '.')
//	*       zero or more characters (including '.')
//	[abc]   one of 'a', 'b' or 'c'
//	[a-z]   one character in the range 'a' through 'z'
//	[!a-z]  one character not in the range
//	`X      X literally, even when X is a wildcard character
//	!X      a leading '!' matches every name that X does not match
//
// Matching is case-sensitive and works on bytes. Patterns must be checked
// with Validate (or IsValid) before they are matched.
package pattern

import (
	"fmt"

	"vfind/internal/common"
)

const (
	anyOne     = '?'
	anyMany    = '*'
	classOpen  = '['
	classClose = ']'
	classRange = '-'
	escape     = '`'
	negate     = '!'
)

// SyntaxError describes an ill-formed pattern.
type SyntaxError struct {
	Pattern string
	Offset  int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v '%s': %s at offset %d", common.ErrBadPattern, e.Pattern, e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return common.ErrBadPattern
}

// IsValid reports whether p is a well-formed pattern.
func IsValid(p string) bool {
	return Validate(p) == nil
}

// Validate checks p for balanced bracket classes, non-empty classes and
// escapes that have a character to escape.
func Validate(p string) error {
	if p == "" {
		return &SyntaxError{Pattern: p, Msg: "empty pattern"}
	}

	i := 0
	if p[0] == negate {
		i++
	}
	for i < len(p) {
		switch p[i] {
		case escape:
			if i+1 >= len(p) {
				return &SyntaxError{Pattern: p, Offset: i, Msg: "nothing to escape"}
			}
			i += 2

		case classOpen:
			start := i
			i++
			if i < len(p) && p[i] == negate {
				i++
			}
			if i < len(p) && p[i] == classClose {
				return &SyntaxError{Pattern: p, Offset: start, Msg: "empty character class"}
			}
			for i < len(p) && p[i] != classClose {
				if p[i] == escape {
					if i+1 >= len(p) {
						return &SyntaxError{Pattern: p, Offset: i, Msg: "nothing to escape"}
					}
					i++
				}
				i++
			}
			if i >= len(p) {
				return &SyntaxError{Pattern: p, Offset: start, Msg: "unterminated character class"}
			}
			i++

		default:
			i++
		}
	}
	return nil
}

// Match reports whether name matches pattern p.
func Match(p, name string) bool {
	if len(p) > 0 && p[0] == negate {
		return !match(p[1:], name)
	}
	return match(p, name)
}

func match(p, s string) bool {
	for len(p) > 0 {
		switch p[0] {
		case anyOne:
			if len(s) == 0 {
				return false
			}
			p, s = p[1:], s[1:]

		case anyMany:
			for len(p) > 0 && p[0] == anyMany {
				p = p[1:]
			}
			if len(p) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if match(p, s[i:]) {
					return true
				}
			}
			return false

		case classOpen:
			if len(s) == 0 {
				return false
			}
			n, ok := matchClass(p, s[0])
			if n == 0 {
				// Unterminated class: the bracket is an ordinary character.
				if s[0] != classOpen {
					return false
				}
				p, s = p[1:], s[1:]
				continue
			}
			if !ok {
				return false
			}
			p, s = p[n:], s[1:]

		case escape:
			if len(p) < 2 {
				return false
			}
			if len(s) == 0 || s[0] != p[1] {
				return false
			}
			p, s = p[2:], s[1:]

		default:
			if len(s) == 0 || s[0] != p[0] {
				return false
			}
			p, s = p[1:], s[1:]
		}
	}
	return len(s) == 0
}

// matchClass matches c against the bracket class at the start of p. It
// returns the length of the class in p, or 0 if the class is unterminated.
func matchClass(p string, c byte) (int, bool) {
	i := 1
	inverted := false
	if i < len(p) && p[i] == negate {
		inverted = true
		i++
	}

	matched := false
	for i < len(p) && p[i] != classClose {
		lo, next, ok := classChar(p, i)
		if !ok {
			return 0, false
		}
		i = next

		hi := lo
		if i+1 < len(p) && p[i] == classRange && p[i+1] != classClose {
			hi, next, ok = classChar(p, i+1)
			if !ok {
				return 0, false
			}
			i = next
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo <= c && c <= hi {
			matched = true
		}
	}
	if i >= len(p) {
		return 0, false
	}
	return i + 1, matched != inverted
}

// classChar reads one possibly escaped character of a class at p[i].
func classChar(p string, i int) (byte, int, bool) {
	if p[i] == escape {
		if i+1 >= len(p) {
			return 0, 0, false
		}
		return p[i+1], i + 2, true
	}
	return p[i], i + 1, true
}
