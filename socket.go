package tcpio

import (
	"net"
	"net/netip"
	"sync"
	"time"
)

// SocketState describes the lifecycle of a Socket.
type SocketState int

const (
	// Unopened is the state of a zero-valued Socket: no OS resource has
	// been allocated.
	Unopened SocketState = iota
	// OpenUnconnected means an OS resource exists but no connection has
	// been established yet.
	OpenUnconnected
	// Connected means the socket is connected and ready for transfer.
	Connected
	// Closed means the socket has been closed and its OS resource
	// released.
	Closed
)

func (s SocketState) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case OpenUnconnected:
		return "open-unconnected"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

// Socket owns exactly one OS-level connection resource. A socket supports a
// single in-flight operation at a time; concurrent use from multiple
// goroutines must be serialized by the caller.
type Socket struct {
	mu    sync.Mutex
	conn  net.Conn
	state SocketState
}

// NewSocket adopts an already-connected net.Conn, taking ownership of it.
// It is the bridge for connections obtained elsewhere, e.g. accepted from a
// listener.
func NewSocket(conn net.Conn) *Socket {
	return &Socket{conn: conn, state: Connected}
}

// State returns the socket's current lifecycle state.
func (s *Socket) State() SocketState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// RemoteEndpoint returns the endpoint of the connected peer, if known.
func (s *Socket) RemoteEndpoint() (Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Connected {
		return Endpoint{}, false
	}

	return endpointFromAddr(s.conn.RemoteAddr())
}

// LocalEndpoint returns the local endpoint of the connection, if known.
func (s *Socket) LocalEndpoint() (Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Connected {
		return Endpoint{}, false
	}

	return endpointFromAddr(s.conn.LocalAddr())
}

// SetDeadline sets the read and write deadline on the underlying connection.
// The transfer engine imposes no deadlines of its own; a caller wanting a
// bounded transfer sets one here.
func (s *Socket) SetDeadline(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Connected {
		return net.ErrClosed
	}

	return s.conn.SetDeadline(t)
}

// Close releases the underlying OS resource. It is idempotent and always
// safe to call.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Closed || s.conn == nil {
		s.state = Closed
		return nil
	}

	s.state = Closed
	return s.conn.Close()
}

// writeSome issues a single underlying write attempt.
func (s *Socket) writeSome(p []byte) (int, error) {
	s.mu.Lock()
	conn, state := s.conn, s.state
	s.mu.Unlock()

	if state != Connected {
		return 0, net.ErrClosed
	}

	return conn.Write(p)
}

// readSome issues a single underlying read attempt.
func (s *Socket) readSome(p []byte) (int, error) {
	s.mu.Lock()
	conn, state := s.conn, s.state
	s.mu.Unlock()

	if state != Connected {
		return 0, net.ErrClosed
	}

	return conn.Read(p)
}

func endpointFromAddr(addr net.Addr) (Endpoint, bool) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return Endpoint{}, false
	}

	ip, ok := netip.AddrFromSlice(tcpAddr.IP)
	if !ok {
		return Endpoint{}, false
	}

	return NewEndpoint(Address{addr: ip.Unmap()}, uint16(tcpAddr.Port)), true
}
