package filestore

import (
	"io"
)

// Store is a content-addressed blob store used for uploaded avatar images.
type Store interface {
	// Save stores the content and returns its hash. It is idempotent:
	// saving the same content twice returns the same hash.
	Save(r io.Reader) (string, error)

	// Open retrieves the content for the given hash.
	Open(hash string) (io.ReadCloser, error)
}
