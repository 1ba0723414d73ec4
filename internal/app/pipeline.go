package app

import (
	"context"
	"fmt"

	"github.com/parlaynu/pi-multicapture/internal/domain"
	"github.com/parlaynu/pi-multicapture/internal/ports"
)

// FrameSender is the transmit end of a pipeline. *Transmitter satisfies it.
type FrameSender interface {
	Send(ctx context.Context, f domain.Frame) error
}

// Pipeline pulls one item at a time from a device, runs it through every
// stage and hands the result to the sender before asking for the next item.
// Nothing is buffered between stages, so a slow encoder or a full transmit
// queue holds back capture.
type Pipeline struct {
	Device *Device
	Stages []Stage
	Sender FrameSender
	Peer   string

	// Limit stops the pipeline after this many frames. Zero means no limit.
	Limit int

	Logger ports.Logger
}

// Run starts the device, streams frames and stops the device on every exit
// path. Cancelling ctx is the orderly way to end an unlimited run; it
// returns nil.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	if err := domain.ValidatePeer(p.Peer); err != nil {
		return err
	}
	if err := p.Device.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if stopErr := p.Device.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	for n := 0; p.Limit <= 0 || n < p.Limit; n++ {
		item, err := p.Device.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, stage := range p.Stages {
			if item, err = stage(ctx, item); err != nil {
				return err
			}
		}
		if !item.HasEncoded() {
			return fmt.Errorf("%w: item %d has no payload", domain.ErrDevice, item.Index)
		}

		p.Logger.Info("sending image", ports.Uint64("index", item.Index), ports.Int("bytes", len(item.Encoded)))

		frame := domain.Frame{Peer: p.Peer, Index: item.Index, Payload: item.Encoded}
		if err := p.Sender.Send(ctx, frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	return nil
}
