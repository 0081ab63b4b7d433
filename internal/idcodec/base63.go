// Package idcodec provides a compact, stable base-63 text encoding for the
// dense id spaces used across the compiler (SymId, HirNodeId, BlockId).
//
// Base-63 Alphabet: A-Z (0-25), a-z (26-51), 0-9 (52-61), _ (62)
// This gives at most 6 characters for any uint32 id, versus up to 8 for hex.
package idcodec

import (
	"errors"
	"fmt"
)

const (
	Base     = 63
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_"
)

var (
	ErrEmptyString = errors.New("idcodec: empty encoded string")
	ErrInvalidChar = errors.New("idcodec: invalid character in encoded string")
	ErrOverflow    = errors.New("idcodec: decoded value overflow")
)

// Encode encodes a uint32 value to a base-63 string.
// Returns "A" for zero (minimum non-empty encoding).
func Encode(value uint32) string {
	if value == 0 {
		return "A"
	}

	var buf [6]byte
	pos := len(buf)
	v := uint64(value)
	for v > 0 {
		pos--
		buf[pos] = Alphabet[v%Base]
		v /= Base
	}

	return string(buf[pos:])
}

// Decode decodes a base-63 string to a uint32 value.
// Returns an error for empty strings, invalid characters, or overflow.
func Decode(encoded string) (uint32, error) {
	if encoded == "" {
		return 0, ErrEmptyString
	}

	var value uint64
	for _, c := range encoded {
		charVal, err := charToValue(c)
		if err != nil {
			return 0, err
		}
		if value > (^uint64(0))/Base {
			return 0, ErrOverflow
		}
		value = value*Base + charVal
	}
	if value > uint64(^uint32(0)) {
		return 0, ErrOverflow
	}

	return uint32(value), nil
}

// IsValid reports whether encoded is a well-formed base-63 string.
func IsValid(encoded string) bool {
	if encoded == "" {
		return false
	}
	for _, c := range encoded {
		if _, err := charToValue(c); err != nil {
			return false
		}
	}
	return true
}

func charToValue(c rune) (uint64, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return uint64(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 26, nil
	case c >= '0' && c <= '9':
		return uint64(c-'0') + 52, nil
	case c == '_':
		return 62, nil
	default:
		return 0, fmt.Errorf("%w: %c", ErrInvalidChar, c)
	}
}
