package util

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidFileName is returned for names that are empty or contain a ".." path component.
var ErrInvalidFileName = errors.New("invalid file name")

// maxFileNameLen keeps "<uuid>-<name>" under common filesystem limits.
const maxFileNameLen = 200

// SanitizeFileName removes path separators and control characters and rejects traversal
// patterns. Long names are truncated from the front so the extension survives.
func SanitizeFileName(name string) (string, error) {
	if hasDotDotComponent(name) {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		start := len(s) - maxFileNameLen
		for start < len(s) && !utf8.RuneStart(s[start]) {
			start++
		}
		s = s[start:]
	}
	return s, nil
}

// hasDotDotComponent reports whether any path component of name is "..". Dots inside a
// component, as in "invoice..pdf", are fine.
func hasDotDotComponent(name string) bool {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
	for _, p := range parts {
		if strings.TrimSpace(p) == ".." {
			return true
		}
	}
	return false
}
