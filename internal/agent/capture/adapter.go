// Package capture abstracts the device camera and document scanner. The
// engine only sees an awaitable request/response: ask for a capture, get a
// local asset ref back, or a cancellation, or an error.
package capture

import (
	"context"
	"errors"

	"convoyinspect/internal/agent/models"
)

// Kind selects which capture hardware path to invoke.
type Kind string

const (
	KindPhoto   Kind = "photo"
	KindScan    Kind = "scan"
	KindReceipt Kind = "receipt"
)

// ErrCancelled is returned when the user dismissed the capture UI without
// taking a picture. Callers treat it as a no-op, never as a failure.
var ErrCancelled = errors.New("capture cancelled")

// Adapter invokes the device camera or scanner and returns a reference to
// the captured binary. Blocking; honors ctx cancellation.
type Adapter interface {
	Capture(ctx context.Context, kind Kind) (*models.AssetRef, error)
}

// Func adapts a plain function to the Adapter interface.
type Func func(ctx context.Context, kind Kind) (*models.AssetRef, error)

func (f Func) Capture(ctx context.Context, kind Kind) (*models.AssetRef, error) {
	return f(ctx, kind)
}
