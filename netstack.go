package tcpio

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"gvisor.dev/gvisor/pkg/tcpip"
	"gvisor.dev/gvisor/pkg/tcpip/adapters/gonet"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv4"
	"gvisor.dev/gvisor/pkg/tcpip/network/ipv6"
	"gvisor.dev/gvisor/pkg/tcpip/stack"
)

var _ Transport = (*NetstackTransport)(nil)

type NetstackTransport struct {
	stack       *stack.Stack
	nicID       tcpip.NICID
	resolveConf *ResolveConfig
}

// Netstack returns a transport backed by the provided userspace netstack
// stack and NIC ID. It lets the resolve/connect/transfer pipeline run
// entirely in-process.
func Netstack(stack *stack.Stack, nicID tcpip.NICID, resolveConf *ResolveConfig) *NetstackTransport {
	return &NetstackTransport{stack: stack, nicID: nicID, resolveConf: resolveConf}
}

func (t *NetstackTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("could not parse address %s: %w", address, err)
	}

	// Resolve the hostname to one or more addresses.
	var addrs []Address
	if addr, err := ParseAddress(host); err == nil {
		addrs = []Address{addr}
	} else {
		hosts, err := t.LookupContextHost(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("could not resolve hostname %s: %w", host, err)
		}

		addrs = make([]Address, len(hosts))
		for i, h := range hosts {
			addr, err := ParseAddress(h)
			if err != nil {
				return nil, err
			}
			addrs[i] = addr
		}
	}

	// Resolve the port to an integer.
	port, err := net.LookupPort(network, portStr)
	if err != nil {
		return nil, fmt.Errorf("could not resolve port %s: %w", portStr, err)
	}

	// Try to connect to each address until one succeeds.
	var firstErr error
	for _, addr := range addrs {
		fa, pn := t.convertToFullAddr(NewEndpoint(addr, uint16(port)).AddrPort())

		var conn net.Conn
		var err error
		switch network {
		case "tcp", "tcp4", "tcp6":
			conn, err = gonet.DialContextTCP(ctx, t.stack, fa, pn)
		case "udp", "udp4", "udp6":
			conn, err = gonet.DialUDP(t.stack, nil, &fa, pn)
		default:
			return nil, fmt.Errorf("unsupported network type: %s", network)
		}
		if err == nil {
			return conn, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}

	return nil, fmt.Errorf("could not connect to any address: %w", firstErr)
}

func (t *NetstackTransport) LookupContextHost(ctx context.Context, host string) ([]string, error) {
	// If no custom DNS servers are set, use the system default resolver.
	if t.resolveConf == nil || len(t.resolveConf.Nameservers) == 0 {
		return net.DefaultResolver.LookupHost(ctx, host)
	}

	return t.resolveConf.LookupContextHost(ctx, host, t.DialContext)
}

func (t *NetstackTransport) Listen(network, address string) (net.Listener, error) {
	addrPort, err := parseAddrPort(network, address)
	if err != nil {
		return nil, err
	}

	fa, pn := t.convertToFullAddr(addrPort)

	lis, err := gonet.ListenTCP(t.stack, fa, pn)
	if err != nil {
		return nil, err
	}

	return &netstackListener{lis}, nil
}

func (t *NetstackTransport) ListenPacket(network, address string) (net.PacketConn, error) {
	addrPort, err := parseAddrPort(network, address)
	if err != nil {
		return nil, err
	}

	fa, pn := t.convertToFullAddr(addrPort)

	return gonet.DialUDP(t.stack, &fa, nil, pn)
}

func parseAddrPort(network, address string) (netip.AddrPort, error) {
	addrStr, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("could not parse address %s: %w", address, err)
	}

	addr, err := ParseAddress(addrStr)
	if err != nil {
		return netip.AddrPort{}, err
	}

	port, err := net.LookupPort(network, portStr)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("could not resolve port %s: %w", portStr, err)
	}

	return NewEndpoint(addr, uint16(port)).AddrPort(), nil
}

func (t *NetstackTransport) convertToFullAddr(addrPort netip.AddrPort) (tcpip.FullAddress, tcpip.NetworkProtocolNumber) {
	var protoNumber tcpip.NetworkProtocolNumber
	if addrPort.Addr().Is4() {
		protoNumber = ipv4.ProtocolNumber
	} else {
		protoNumber = ipv6.ProtocolNumber
	}
	return tcpip.FullAddress{
		NIC:  t.nicID,
		Addr: tcpip.AddrFromSlice(addrPort.Addr().AsSlice()),
		Port: addrPort.Port(),
	}, protoNumber
}

// netstackListener is a net.Listener that translates netstack errors to stdnet errors.
type netstackListener struct {
	net.Listener
}

func (l *netstackListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		if strings.Contains(err.Error(), (&tcpip.ErrInvalidEndpointState{}).String()) {
			return nil, net.ErrClosed
		}

		return nil, err
	}

	return conn, nil
}
