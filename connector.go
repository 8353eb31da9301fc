package tcpio

import (
	"context"
	"errors"
)

// Connector establishes connected sockets. The zero value connects over the
// host network stack.
type Connector struct {
	// Transport used to reach endpoints. If nil, Host() is used.
	Transport Transport
}

// Connect opens a socket scoped to the endpoint's address family and
// attempts a single connection to it. On success the returned socket is in
// the Connected state and exclusively owned by the caller, who must close
// it. On failure a *ConnectError is returned and no socket resource remains
// open; there is no fallback to other endpoints.
func (c *Connector) Connect(ctx context.Context, ep Endpoint) (*Socket, error) {
	if !ep.Addr.IsValid() {
		return nil, &ConnectError{Endpoint: ep, Err: errors.New("endpoint has an invalid address")}
	}

	transport := c.Transport
	if transport == nil {
		transport = Host()
	}

	// The dial primitive releases any partially-opened resource itself on
	// failure, so the error path holds nothing to clean up.
	conn, err := transport.DialContext(ctx, ep.network(), ep.String())
	if err != nil {
		return nil, &ConnectError{Endpoint: ep, Err: err}
	}

	return NewSocket(conn), nil
}
