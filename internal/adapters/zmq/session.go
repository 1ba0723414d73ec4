// Package zmq provides the PUSH/PULL messaging transport used between camera
// producers and the storage collector.
//
// A Session is the per-process messaging context. It is created once at
// process start, passed explicitly to whatever needs a socket, and closed at
// process end, which closes every socket it opened.
package zmq

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"sync"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parlaynu/pi-multicapture/internal/domain"
	"github.com/parlaynu/pi-multicapture/internal/endpoint"
)

// dialRetry is the pause between connection attempts while the collector is
// not yet reachable.
const dialRetry = 250 * time.Millisecond

// Session owns the sockets of one process.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	zlog   *stdlog.Logger

	mu      sync.Mutex
	sockets []zmq4.Socket
	closed  bool
}

// NewSession creates a messaging session. Internal transport diagnostics are
// written to logger.
func NewSession(ctx context.Context, logger zerolog.Logger) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(ctx)
	zl := logger.With().Str("component", "zmq4").Str("session", id).Logger()
	return &Session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		zlog:   stdlog.New(zl, "", 0),
	}
}

// ID returns the unique session id.
func (s *Session) ID() string {
	return s.id
}

// Push connects a PUSH socket to ep.
func (s *Session) Push(ep endpoint.Endpoint) (*Push, error) {
	sock := zmq4.NewPush(s.ctx, zmq4.WithLogger(s.zlog), zmq4.WithDialerRetry(dialRetry))
	if err := s.track(sock); err != nil {
		return nil, err
	}
	if err := sock.Dial(ep.String()); err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", domain.ErrTransport, ep, err)
	}
	return &Push{sock: sock}, nil
}

// Pull binds a PULL socket on ep.
func (s *Session) Pull(ep endpoint.Endpoint) (*Pull, error) {
	sock := zmq4.NewPull(s.ctx, zmq4.WithLogger(s.zlog))
	if err := s.track(sock); err != nil {
		return nil, err
	}
	if err := sock.Listen(ep.String()); err != nil {
		return nil, fmt.Errorf("%w: bind %s: %v", domain.ErrTransport, ep, err)
	}
	return &Pull{sock: sock}, nil
}

func (s *Session) track(sock zmq4.Socket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sock.Close()
		return fmt.Errorf("%w: session closed", domain.ErrTransport)
	}
	s.sockets = append(s.sockets, sock)
	return nil
}

// Close closes every socket opened through the session. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sockets := s.sockets
	s.sockets = nil
	s.mu.Unlock()

	var errs []error
	for _, sock := range sockets {
		if err := sock.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.cancel()
	return errors.Join(errs...)
}
