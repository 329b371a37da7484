// Package storage abstracts the remote object store that receives captured
// binaries at commit time.
package storage

import "context"

// ObjectStorage writes one object and returns its public URL. Implementations
// must be safe for concurrent use; the upload pipeline dispatches every asset
// at once.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Func adapts a plain function to the ObjectStorage interface.
type Func func(ctx context.Context, key string, body []byte, contentType string) (string, error)

func (f Func) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return f(ctx, key, body, contentType)
}
