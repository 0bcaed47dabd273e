package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Allowed document MIME types. Applicants upload scans or phone photos, so
// the set covers images plus PDF.
var allowedMIMETypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Local stores documents on local disk under a single directory and serves
// them back under /uploads.
type Local struct {
	dir      string
	maxBytes int64
}

// NewLocal creates a local-disk Storage rooted at dir.
func NewLocal(dir string, maxBytes int64) *Local {
	return &Local{dir: dir, maxBytes: maxBytes}
}

// Save writes the stream to disk under a slot-prefixed UUID filename and
// returns the relative URL path to the saved file.
func (s *Local) Save(ctx context.Context, slot string, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}

	if size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, size, s.maxBytes)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := slot + "_" + uuid.New().String() + ext
	destPath := filepath.Join(s.dir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against size lies in the multipart header: a stream
	// that outruns the cap is discarded, never stored truncated.
	written, err := io.Copy(dst, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(destPath)
		return "", fmt.Errorf("%w: stream exceeds %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	return "/uploads/" + filename, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
