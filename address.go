package tcpio

import (
	"net"
	"net/netip"
	"strconv"
)

// Version selects an IP protocol version.
type Version int

const (
	V4 Version = iota + 1
	V6
)

func (v Version) String() string {
	switch v {
	case V4:
		return "v4"
	case V6:
		return "v6"
	default:
		return "invalid"
	}
}

// Address is an IP protocol version independent address. A valid Address is
// only ever produced by ParseAddress or Wildcard; the zero value is invalid.
type Address struct {
	addr netip.Addr
}

// ParseAddress parses a textual IP address, either dotted-decimal (v4) or
// colon-hex (v6). Any non-conforming input fails with a *ParseError.
func ParseAddress(s string) (Address, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return Address{}, &ParseError{Input: s, Reason: "not a dotted-decimal or colon-hex address"}
	}

	// Canonicalize 4-in-6 mapped addresses so that equality and family
	// selection depend only on the address itself.
	return Address{addr: addr.Unmap()}, nil
}

// Wildcard returns the all-interfaces address for the given IP version,
// suitable for constructing a listening endpoint.
func Wildcard(v Version) Address {
	if v == V6 {
		return Address{addr: netip.IPv6Unspecified()}
	}

	return Address{addr: netip.IPv4Unspecified()}
}

// IsValid reports whether the address was produced by ParseAddress or
// Wildcard (as opposed to being the zero value).
func (a Address) IsValid() bool {
	return a.addr.IsValid()
}

// Version returns the IP version of the address.
func (a Address) Version() Version {
	if a.addr.Is4() {
		return V4
	}

	return V6
}

// Addr returns the underlying netip representation.
func (a Address) Addr() netip.Addr {
	return a.addr
}

func (a Address) String() string {
	return a.addr.String()
}

// Endpoint identifies one end of a connection as an (address, port) pair.
// Endpoints are comparable; two endpoints are equal iff their addresses and
// ports are equal.
type Endpoint struct {
	Addr Address
	Port uint16
}

// NewEndpoint constructs an endpoint from an address and a port. It always
// succeeds given a valid Address; port 0 is legal but only meaningful in
// listen contexts.
func NewEndpoint(addr Address, port uint16) Endpoint {
	return Endpoint{Addr: addr, Port: port}
}

// AddrPort returns the endpoint in netip form.
func (e Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.Addr.addr, e.Port)
}

// String returns the endpoint in host:port form.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Addr.String(), strconv.Itoa(int(e.Port)))
}

// network returns the family-scoped network name for dialing the endpoint.
func (e Endpoint) network() string {
	if e.Addr.Version() == V4 {
		return "tcp4"
	}

	return "tcp6"
}
