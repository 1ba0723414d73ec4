package domain

import "errors"

// Error classes. Callers wrap these with fmt.Errorf("...: %w", ...) and check
// them with errors.Is. Each one is fatal to the process that encounters it.
var (
	// ErrConfiguration is returned for unparseable addresses, URLs or settings.
	ErrConfiguration = errors.New("multicapture: configuration error")

	// ErrDevice is returned when capturing, transforming or encoding a frame fails.
	ErrDevice = errors.New("multicapture: device error")

	// ErrTransport is returned when a socket cannot bind, connect, send or receive.
	ErrTransport = errors.New("multicapture: transport error")

	// ErrProtocol is returned when an inbound message cannot be decoded into a Frame.
	ErrProtocol = errors.New("multicapture: protocol error")

	// ErrStorage is returned when a frame cannot be written to disk.
	ErrStorage = errors.New("multicapture: storage error")

	// ErrInvalidTransition is returned when a device is driven through an
	// illegal state change.
	ErrInvalidTransition = errors.New("multicapture: invalid device state transition")
)
