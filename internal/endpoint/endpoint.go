// Package endpoint parses transport URLs and resolves collector bind
// specifications into the address producers should connect to.
package endpoint

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// Scheme selects the transport.
type Scheme string

const (
	TCP Scheme = "tcp"
	IPC Scheme = "ipc"
)

// Endpoint is a concrete transport address.
// TCP endpoints use Host and Port; IPC endpoints use Path.
type Endpoint struct {
	Scheme Scheme
	Host   string
	Port   int
	Path   string
}

// String returns the URL form, e.g. tcp://10.0.0.5:8089 or ipc:///tmp/x/sink.ipc.
func (e Endpoint) String() string {
	if e.Scheme == IPC {
		return "ipc://" + e.Path
	}
	return "tcp://" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// IsWildcard reports whether e is a TCP endpoint on the unspecified address,
// which can be bound but not connected to.
func (e Endpoint) IsWildcard() bool {
	if e.Scheme != TCP {
		return false
	}
	if e.Host == "" || e.Host == "*" {
		return true
	}
	ip := net.ParseIP(e.Host)
	return ip != nil && ip.IsUnspecified()
}

// Parse parses a tcp://host:port or ipc://path URL.
func Parse(url string) (Endpoint, error) {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %q is not a tcp:// or ipc:// url", domain.ErrConfiguration, url)
	}

	switch Scheme(scheme) {
	case TCP:
		host, portStr, err := net.SplitHostPort(rest)
		if err != nil {
			return Endpoint{}, fmt.Errorf("%w: %q: %v", domain.ErrConfiguration, url, err)
		}
		if host == "" {
			return Endpoint{}, fmt.Errorf("%w: %q: missing host", domain.ErrConfiguration, url)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 0 || port > 65535 {
			return Endpoint{}, fmt.Errorf("%w: %q: invalid port %q", domain.ErrConfiguration, url, portStr)
		}
		return Endpoint{Scheme: TCP, Host: host, Port: port}, nil

	case IPC:
		if rest == "" {
			return Endpoint{}, fmt.Errorf("%w: %q: missing socket path", domain.ErrConfiguration, url)
		}
		return Endpoint{Scheme: IPC, Path: rest}, nil

	default:
		return Endpoint{}, fmt.Errorf("%w: unsupported scheme %q", domain.ErrConfiguration, scheme)
	}
}
