package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for any declared extension other than .pdf or .docx.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrDecodeFailure matches every *DecodeError under errors.Is.
	ErrDecodeFailure = errors.New("failed to extract text")
)

// DecodeError reports a file that could not be read or decoded for its declared format.
// Err holds the underlying cause and is meant for logs only.
type DecodeError struct {
	Format string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %s: %v", e.Format, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrDecodeFailure as a match so callers need not type-assert.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailure
}
