// Package filestore abstracts where uploaded lecture modules and seminar
// slides end up. The disk store is the default; Cloudinary is available for
// deployments that want uploads mirrored to a CDN.
package filestore

import (
	"context"
	"io"
)

// Uploader stores a named binary blob and returns a reference to it
// (a relative path for disk, a secure URL for remote backends).
type Uploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// Store extends Uploader with read-back, for files the API serves itself.
type Store interface {
	Uploader
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Exists(ctx context.Context, name string) bool
}
