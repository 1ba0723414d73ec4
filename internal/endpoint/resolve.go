package endpoint

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

const (
	// WildcardHost binds every interface.
	WildcardHost = "0.0.0.0"

	// LoopbackHost binds the local host only.
	LoopbackHost = "127.0.0.1"
)

// probeTarget is a well-known routable address. OutboundIP never sends to it.
var probeTarget = "8.8.8.8:80"

// BindSpec describes where the collector listens.
type BindSpec struct {
	// AllInterfaces binds the wildcard address. Ignored when Host is set.
	AllInterfaces bool

	// Host is an explicit address to bind.
	Host string

	// Port is the TCP port. Zero lets the kernel pick one.
	Port int

	// IPC selects a local socket instead of TCP.
	IPC bool

	// IPCPath is the socket path. Empty means an ephemeral path inside a
	// freshly created temporary directory.
	IPCPath string
}

// BindEndpoint returns the endpoint the collector should bind.
func (s BindSpec) BindEndpoint() (Endpoint, error) {
	if s.IPC {
		path := s.IPCPath
		if path == "" {
			var err error
			if path, err = TempSocketPath(); err != nil {
				return Endpoint{}, err
			}
		}
		return Endpoint{Scheme: IPC, Path: path}, nil
	}

	if s.Port < 0 || s.Port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: invalid port %d", domain.ErrConfiguration, s.Port)
	}

	host := LoopbackHost
	switch {
	case s.Host != "":
		host = s.Host
	case s.AllInterfaces:
		host = WildcardHost
	}
	return Endpoint{Scheme: TCP, Host: host, Port: s.Port}, nil
}

// TempSocketPath creates a private temporary directory and returns a socket
// path inside it.
func TempSocketPath() (string, error) {
	dir, err := os.MkdirTemp("", "storagesink-")
	if err != nil {
		return "", fmt.Errorf("%w: create socket dir: %v", domain.ErrConfiguration, err)
	}
	return filepath.Join(dir, "sink-"+uuid.NewString()[:8]+".ipc"), nil
}

// Advertise returns the endpoint producers should connect to, given the bind
// endpoint and the address the transport reports as actually bound.
func Advertise(bind Endpoint, bound net.Addr) (Endpoint, error) {
	switch bind.Scheme {
	case IPC:
		ua, ok := bound.(*net.UnixAddr)
		if !ok || ua.Name == "" {
			return Endpoint{}, fmt.Errorf("%w: bound address %v is not a unix socket", domain.ErrTransport, bound)
		}
		return Endpoint{Scheme: IPC, Path: ua.Name}, nil

	case TCP:
		out := bind
		if ta, ok := bound.(*net.TCPAddr); ok {
			out.Port = ta.Port
		}
		if out.IsWildcard() {
			out.Host = OutboundIP().String()
		}
		return out, nil
	}
	return Endpoint{}, fmt.Errorf("%w: unsupported scheme %q", domain.ErrConfiguration, bind.Scheme)
}

// OutboundIP returns the local address the host would use to reach the
// outside world. A UDP "connection" only selects a route; no packet is sent.
// Without a route it returns the loopback address.
func OutboundIP() net.IP {
	conn, err := net.Dial("udp", probeTarget)
	if err != nil {
		return net.ParseIP(LoopbackHost)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() {
		return net.ParseIP(LoopbackHost)
	}
	return addr.IP
}
