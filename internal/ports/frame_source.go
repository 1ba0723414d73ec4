package ports

import (
	"context"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// FrameSource is a capture device.
//
// A source is idle until Start is called and must be stopped with Stop on
// every exit path. Next blocks until the next image is available.
type FrameSource interface {
	// Start puts the device into its playing state.
	Start(ctx context.Context) error

	// Next returns the next captured item. The item's Index is assigned by the
	// source and increases by one per call, starting at zero.
	Next(ctx context.Context) (*domain.Item, error)

	// Stop returns the device to its idle state and releases its resources.
	Stop() error
}
