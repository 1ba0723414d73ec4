package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/parlaynu/pi-multicapture/internal/domain"
	"github.com/parlaynu/pi-multicapture/internal/ports"
)

// DeviceState is the playback state of a capture device.
type DeviceState int

const (
	DeviceIdle DeviceState = iota
	DevicePlaying
	DeviceStopped
)

// String returns a human-readable representation of the state.
func (s DeviceState) String() string {
	switch s {
	case DeviceIdle:
		return "Idle"
	case DevicePlaying:
		return "Playing"
	case DeviceStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Device wraps a FrameSource with a guarded state machine.
//
// Valid transitions are Idle -> Playing -> Stopped and Idle -> Stopped.
// Next is only allowed while Playing.
type Device struct {
	mu     sync.Mutex
	state  DeviceState
	source ports.FrameSource
	logger ports.Logger
}

// NewDevice creates an idle device.
func NewDevice(source ports.FrameSource, logger ports.Logger) *Device {
	return &Device{
		state:  DeviceIdle,
		source: source,
		logger: logger,
	}
}

// State returns the current device state.
func (d *Device) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Start moves the device from Idle to Playing.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DeviceIdle {
		return fmt.Errorf("%w: start from %s", domain.ErrInvalidTransition, d.state)
	}
	if err := d.source.Start(ctx); err != nil {
		return fmt.Errorf("%w: start source: %v", domain.ErrDevice, err)
	}
	d.transition(DevicePlaying)
	return nil
}

// Next pulls one item from the source.
func (d *Device) Next(ctx context.Context) (*domain.Item, error) {
	if s := d.State(); s != DevicePlaying {
		return nil, fmt.Errorf("%w: next while %s", domain.ErrInvalidTransition, s)
	}
	item, err := d.source.Next(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: capture: %v", domain.ErrDevice, err)
	}
	return item, nil
}

// Stop moves the device to Stopped. Stopping a stopped device is a no-op so
// it can be deferred unconditionally.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DeviceStopped {
		return nil
	}
	wasPlaying := d.state == DevicePlaying
	d.transition(DeviceStopped)

	if !wasPlaying {
		return nil
	}
	if err := d.source.Stop(); err != nil {
		return fmt.Errorf("%w: stop source: %v", domain.ErrDevice, err)
	}
	return nil
}

// transition must be called with mu held.
func (d *Device) transition(to DeviceState) {
	from := d.state
	d.state = to
	d.logger.Info("device state",
		ports.String("from", from.String()),
		ports.String("to", to.String()),
	)
}
