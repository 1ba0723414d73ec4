package domain

import (
	"fmt"
	"strings"
)

// Frame is a single image addressed to the collector.
// A Frame is immutable once created and is consumed exactly once.
type Frame struct {
	// Peer is the name of the producing node. It selects the output directory.
	Peer string

	// Index is the per-session sequence number of the image.
	// It is not required to be unique or contiguous across restarts.
	Index uint64

	// Payload is the opaque encoded image.
	Payload []byte
}

// Validate checks the invariants on the peer name.
func (f Frame) Validate() error {
	return ValidatePeer(f.Peer)
}

// ValidatePeer reports whether name can be used as a peer name.
func ValidatePeer(name string) error {
	if name == "" {
		return fmt.Errorf("%w: peer name is empty", ErrConfiguration)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: peer name %q contains NUL", ErrConfiguration, name)
	}
	return nil
}
