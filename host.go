package tcpio

import (
	"context"
	"net"
)

var _ Transport = (*HostTransport)(nil)

type HostTransport struct{}

// Host returns a transport that uses the host's network stack.
func Host() *HostTransport {
	return &HostTransport{}
}

func (t *HostTransport) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, addr)
}

func (t *HostTransport) LookupContextHost(ctx context.Context, host string) ([]string, error) {
	return net.DefaultResolver.LookupHost(ctx, host)
}

func (t *HostTransport) Listen(network, address string) (net.Listener, error) {
	return net.Listen(network, address)
}

func (t *HostTransport) ListenPacket(network, address string) (net.PacketConn, error) {
	return net.ListenPacket(network, address)
}
