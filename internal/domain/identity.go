package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultMaxNameLength = 32

// Name is the display name that keys a connected identity.
type Name string

// NormalizeName trims raw and checks it is usable as a display name.
func NormalizeName(raw string, maxLength int) (Name, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxNameLength
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if !utf8.ValidString(trimmed) {
		return "", fmt.Errorf("%w: name is not valid utf-8", ErrInvalidName)
	}
	if n := utf8.RuneCountInString(trimmed); n > maxLength {
		return "", fmt.Errorf("%w: name is %d characters, limit is %d", ErrInvalidName, n, maxLength)
	}
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: name contains control characters", ErrInvalidName)
	}

	return Name(trimmed), nil
}

func (n Name) String() string {
	return string(n)
}
