//go:build linux

package engine

import (
	"fmt"
	"net/netip"

	"github.com/touka-aoi/low-level-reactor/core/core"
)

type Listener interface {
	Fd() int
	Addr() netip.AddrPort
	Accept() (int, netip.AddrPort, error)
	Close() error
}

type TCPListener struct {
	socket *core.Socket
}

// Listen opens a non-blocking listening socket whose descriptor can be monitored by the reactor.
func Listen(protocol, address string, backlog int) (Listener, error) {
	switch protocol {
	case "tcp", "tcp4", "tcp6":
		addr, err := netip.ParseAddrPort(address)
		if err != nil {
			return nil, err
		}
		s, err := core.ListenTCP(addr, backlog)
		if err != nil {
			return nil, err
		}
		return &TCPListener{socket: s}, nil
	}
	return nil, fmt.Errorf("unsupported protocol %q", protocol)
}

func (l *TCPListener) Fd() int {
	return l.socket.Fd
}

func (l *TCPListener) Addr() netip.AddrPort {
	return l.socket.LocalAddr
}

func (l *TCPListener) Accept() (int, netip.AddrPort, error) {
	return l.socket.Accept()
}

func (l *TCPListener) Close() error {
	return l.socket.Close()
}
