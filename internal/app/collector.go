package app

import (
	"context"
	"fmt"

	"github.com/parlaynu/pi-multicapture/internal/ports"
	"github.com/parlaynu/pi-multicapture/internal/wire"
)

// Collector receives frames from any number of producers and stores them.
//
// Messages are handled strictly one at a time: a frame is decoded and written
// before the next receive, so a slow disk throttles every producer.
// Any malformed message, store failure or receive failure ends Run.
type Collector struct {
	in     ports.Inbound
	store  ports.FrameStore
	logger ports.Logger
}

// NewCollector creates a collector reading from in.
func NewCollector(in ports.Inbound, store ports.FrameStore, logger ports.Logger) *Collector {
	return &Collector{
		in:     in,
		store:  store,
		logger: logger,
	}
}

// Run executes the receive loop until an error occurs or ctx is cancelled.
// Cancellation closes the inbound socket; no in-flight message is drained.
func (c *Collector) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { c.in.Close() })
	defer stop()

	for {
		msg, err := c.in.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if _, err := c.handle(msg); err != nil {
			c.logger.Error("collector stopping", ports.Err(err))
			return err
		}
	}
}

// handle decodes and stores one message, returning the path written.
func (c *Collector) handle(msg [][]byte) (string, error) {
	f, err := wire.Decode(msg)
	if err != nil {
		return "", err
	}

	path, err := c.store.Store(f.Peer, f.Index, f.Payload)
	if err != nil {
		return "", fmt.Errorf("store %s/%d: %w", f.Peer, f.Index, err)
	}

	c.logger.Info("saving",
		ports.String("path", path),
		ports.Int("bytes", len(f.Payload)),
	)
	return path, nil
}
