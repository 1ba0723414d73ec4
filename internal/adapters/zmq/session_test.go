package zmq

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parlaynu/pi-multicapture/internal/domain"
	"github.com/parlaynu/pi-multicapture/internal/endpoint"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(context.Background(), zerolog.Nop())
	t.Cleanup(func() { s.Close() })
	return s
}

func recvWithTimeout(t *testing.T, p *Pull) [][]byte {
	t.Helper()
	type result struct {
		segs [][]byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		segs, err := p.Recv()
		ch <- result{segs, err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			t.Fatalf("Recv: %v", r.err)
		}
		return r.segs
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

func roundTrip(t *testing.T, s *Session, bind endpoint.Endpoint) {
	t.Helper()

	pull, err := s.Pull(bind)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	connect, err := endpoint.Advertise(bind, pull.Addr())
	if err != nil {
		t.Fatalf("Advertise: %v", err)
	}

	push, err := s.Push(connect)
	if err != nil {
		t.Fatalf("Push(%s): %v", connect, err)
	}

	for _, body := range []string{"a", "b", "c"} {
		if err := push.Send([][]byte{[]byte("cam1"), []byte("1"), []byte(body)}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		segs := recvWithTimeout(t, pull)
		if len(segs) != 3 {
			t.Fatalf("got %d segments, want 3", len(segs))
		}
		if string(segs[0]) != "cam1" || string(segs[2]) != want {
			t.Errorf("got %q/%q, want cam1/%s", segs[0], segs[2], want)
		}
	}
}

func TestSession_TCPRoundTrip(t *testing.T) {
	s := newTestSession(t)
	roundTrip(t, s, endpoint.Endpoint{Scheme: endpoint.TCP, Host: "127.0.0.1", Port: 0})
}

func TestSession_IPCRoundTrip(t *testing.T) {
	s := newTestSession(t)
	path := filepath.Join(t.TempDir(), "sink.ipc")
	roundTrip(t, s, endpoint.Endpoint{Scheme: endpoint.IPC, Path: path})
}

func TestSession_BindFailure(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Pull(endpoint.Endpoint{Scheme: endpoint.IPC, Path: filepath.Join(t.TempDir(), "missing", "dir", "sink.ipc")})
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("Pull error = %v, want ErrTransport", err)
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s := NewSession(context.Background(), zerolog.Nop())
	if s.ID() == "" {
		t.Fatal("session id is empty")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := s.Pull(endpoint.Endpoint{Scheme: endpoint.TCP, Host: "127.0.0.1"}); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("Pull after Close error = %v, want ErrTransport", err)
	}
}
