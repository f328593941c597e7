package filestore

import (
	"io"
)

// FileStore keeps attachment blobs addressed by their content hash.
type FileStore interface {
	// Save stores the content and returns its hash and size.
	// Saving the same content twice is a no-op for the second call.
	Save(r io.Reader) (hash string, size int64, err error)

	// Get retrieves the content stored under hash.
	Get(hash string) (io.ReadCloser, error)
}
