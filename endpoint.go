package teles

import (
	"net"
	"strconv"
	"strings"

	"github.com/pior/teles/protocol"
)

// DefaultPort is the TCP port a Teles server listens on unless told otherwise.
const DefaultPort = 2856

// Endpoint is the address of a Teles server.
type Endpoint struct {
	Host string
	Port int
}

// ParseEndpoint parses "host" or "host:port". The port defaults to
// DefaultPort. Only the first colon separates host from port.
func ParseEndpoint(s string) (Endpoint, error) {
	host, portStr, hasPort := strings.Cut(strings.TrimSpace(s), ":")
	if host == "" {
		return Endpoint{}, &protocol.ValidationError{Field: "server", Message: "missing host in " + strconv.Quote(s)}
	}

	if !hasPort {
		return Endpoint{Host: host, Port: DefaultPort}, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Endpoint{}, &protocol.ValidationError{Field: "server", Message: "invalid port in " + strconv.Quote(s)}
	}

	return Endpoint{Host: host, Port: port}, nil
}

// String returns the endpoint in host:port form, suitable for dialing.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}
