package object

import (
	"context"
	"io"
)

// StoredFile describes an object written by a Store.
type StoredFile struct {
	// Key is the unique object name, e.g. "<uuid>-invoice.pdf".
	Key string
	// Path is where the object can be read from on the local filesystem.
	Path      string
	SizeBytes int64
}

// Store saves incoming uploads under unique names and removes them when asked.
type Store interface {
	Save(ctx context.Context, fileName string, r io.Reader) (StoredFile, error)
	Remove(ctx context.Context, key string) error
}
