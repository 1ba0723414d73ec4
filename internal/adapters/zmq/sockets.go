package zmq

import (
	"fmt"
	"net"

	"github.com/go-zeromq/zmq4"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// Push implements ports.Outbound.
type Push struct {
	sock zmq4.Socket
}

// Send writes segments as one atomic multipart message.
func (p *Push) Send(segments [][]byte) error {
	if err := p.sock.SendMulti(zmq4.NewMsgFrom(segments...)); err != nil {
		return fmt.Errorf("%w: send: %v", domain.ErrTransport, err)
	}
	return nil
}

// Close closes the socket.
func (p *Push) Close() error {
	return p.sock.Close()
}

// Pull implements ports.Inbound.
type Pull struct {
	sock zmq4.Socket
}

// Recv blocks until the next multipart message arrives.
func (p *Pull) Recv() ([][]byte, error) {
	msg, err := p.sock.Recv()
	if err != nil {
		return nil, fmt.Errorf("%w: receive: %v", domain.ErrTransport, err)
	}
	return msg.Frames, nil
}

// Addr returns the listener address, which carries the kernel-assigned port
// or socket path.
func (p *Pull) Addr() net.Addr {
	return p.sock.Addr()
}

// Close closes the socket.
func (p *Pull) Close() error {
	return p.sock.Close()
}
