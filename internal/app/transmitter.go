package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/parlaynu/pi-multicapture/internal/domain"
	"github.com/parlaynu/pi-multicapture/internal/ports"
	"github.com/parlaynu/pi-multicapture/internal/wire"
)

// DefaultQueueCapacity is the number of undelivered messages a Transmitter
// holds before Send blocks.
const DefaultQueueCapacity = 10

// Transmitter owns one outbound connection and a bounded queue of pending
// messages. Messages reach the wire in the order they were sent.
//
// A message is pending from the moment Send accepts it until the outbound
// socket has taken it, so at most capacity messages are ever held.
type Transmitter struct {
	out    ports.Outbound
	logger ports.Logger

	slots chan struct{}
	queue chan [][]byte

	done    chan struct{}
	errOnce sync.Once
	err     error

	closeOnce sync.Once
	drained   chan struct{}
}

// NewTransmitter starts a transmitter writing to out. The capacity is fixed
// for the lifetime of the transmitter; values below one are treated as one.
func NewTransmitter(out ports.Outbound, capacity int, logger ports.Logger) *Transmitter {
	if capacity < 1 {
		capacity = 1
	}
	t := &Transmitter{
		out:     out,
		logger:  logger,
		slots:   make(chan struct{}, capacity),
		queue:   make(chan [][]byte, capacity),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
	go t.drain()
	return t
}

// Capacity returns the maximum number of pending messages.
func (t *Transmitter) Capacity() int {
	return cap(t.slots)
}

// Pending returns the number of messages accepted but not yet delivered.
func (t *Transmitter) Pending() int {
	return len(t.slots)
}

// Send encodes f and enqueues it. It blocks while the queue is full and
// returns early only if ctx is cancelled or the connection has failed.
func (t *Transmitter) Send(ctx context.Context, f domain.Frame) error {
	msg, err := wire.Encode(f)
	if err != nil {
		return err
	}
	if err := t.Err(); err != nil {
		return err
	}

	select {
	case t.slots <- struct{}{}:
	case <-t.done:
		return t.failure()
	case <-ctx.Done():
		return ctx.Err()
	}

	// A slot was taken, so the queue has room.
	t.queue <- msg
	return nil
}

// Err returns the latched transport failure, if any.
func (t *Transmitter) Err() error {
	select {
	case <-t.done:
		return t.failure()
	default:
		return nil
	}
}

// Close stops accepting messages, waits for queued messages to be handed to
// the socket, and closes it. Send must not be called concurrently with or
// after Close.
func (t *Transmitter) Close() error {
	t.closeOnce.Do(func() { close(t.queue) })
	<-t.drained

	closeErr := t.out.Close()
	if err := t.Err(); err != nil {
		return err
	}
	return closeErr
}

func (t *Transmitter) drain() {
	defer close(t.drained)

	for msg := range t.queue {
		if t.Err() != nil {
			<-t.slots
			continue
		}
		if err := t.out.Send(msg); err != nil {
			t.fail(err)
		}
		<-t.slots
	}
}

func (t *Transmitter) fail(err error) {
	t.errOnce.Do(func() {
		t.err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		t.logger.Error("outbound connection failed", ports.Err(err))
		close(t.done)
	})
}

func (t *Transmitter) failure() error {
	return t.err
}
