package ports

import "net"

// Outbound sends multipart messages over one connection.
// Send blocks until the message has been handed to the network layer.
type Outbound interface {
	Send(segments [][]byte) error
	Close() error
}

// Inbound receives multipart messages from any number of connected peers.
// Recv blocks until a message arrives or the socket is closed.
type Inbound interface {
	Recv() ([][]byte, error)

	// Addr returns the address the socket is actually bound to.
	Addr() net.Addr

	Close() error
}
