package storage

import (
	"context"
	"errors"
	"io"
)

// Sentinel errors for document uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Storage persists a named document stream and returns a stable reference
// (URL or path) for later retrieval. Implementations may back onto local
// disk, object storage or a drive folder; the intake flow only relies on
// the returned reference.
type Storage interface {
	Save(ctx context.Context, slot string, r io.Reader, size int64, contentType string) (string, error)
}
