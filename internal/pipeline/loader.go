package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Loader reads bureau documents from disk
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader that rejects documents larger than maxBytes.
// A non-positive limit disables the check.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// Load returns the document at path. An empty path is an absent document and
// yields empty text. "-" reads standard input.
func (l *Loader) Load(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open document: %w", err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	return l.read(r, path)
}

func (l *Loader) read(r io.Reader, name string) (string, error) {
	if l.maxBytes > 0 {
		r = io.LimitReader(r, l.maxBytes+1)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if l.maxBytes > 0 && int64(len(body)) > l.maxBytes {
		return "", fmt.Errorf("document %s exceeds %d bytes", name, l.maxBytes)
	}

	return string(body), nil
}
