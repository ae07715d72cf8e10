//go:build linux

package core

import (
	"fmt"
	"log/slog"
	"net/netip"

	"golang.org/x/sys/unix"
)

type Socket struct {
	Fd        int
	LocalAddr netip.AddrPort
}

func ListenTCP(addr netip.AddrPort, backlog int) (*Socket, error) {
	domain := unix.AF_INET
	if addr.Addr().Is6() && !addr.Addr().Is4In6() {
		domain = unix.AF_INET6
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		slog.Error("Failed to create socket", "err", err)
		return nil, err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		slog.Error("Failed to set socket option", "fd", fd, "err", err)
		unix.Close(fd)
		return nil, err
	}

	if err := unix.Bind(fd, ToSockaddr(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}

	if err := unix.Listen(fd, backlog); err != nil {
		slog.Error("Failed to listen", "fd", fd, "err", err)
		unix.Close(fd)
		return nil, err
	}

	local, err := LocalAddr(fd)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &Socket{Fd: fd, LocalAddr: local}, nil
}

// Accept returns a non-blocking connected descriptor and its peer address.
func (s *Socket) Accept() (int, netip.AddrPort, error) {
	nfd, sa, err := unix.Accept4(s.Fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return -1, netip.AddrPort{}, err
	}
	remote, err := FromSockaddr(sa)
	if err != nil {
		unix.Close(nfd)
		return -1, netip.AddrPort{}, err
	}
	return nfd, remote, nil
}

func (s *Socket) Close() error {
	return unix.Close(s.Fd)
}

func LocalAddr(fd int) (netip.AddrPort, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return FromSockaddr(sa)
}

func RemoteAddr(fd int) (netip.AddrPort, error) {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return FromSockaddr(sa)
}

func ToSockaddr(addr netip.AddrPort) unix.Sockaddr {
	ip := addr.Addr()
	if ip.Is4() || ip.Is4In6() {
		return &unix.SockaddrInet4{Port: int(addr.Port()), Addr: ip.Unmap().As4()}
	}
	return &unix.SockaddrInet6{Port: int(addr.Port()), Addr: ip.As16()}
}

func FromSockaddr(sa unix.Sockaddr) (netip.AddrPort, error) {
	switch addr := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(addr.Addr), uint16(addr.Port)), nil
	case *unix.SockaddrInet6:
		return netip.AddrPortFrom(netip.AddrFrom16(addr.Addr), uint16(addr.Port)), nil
	default:
		return netip.AddrPort{}, unix.EAFNOSUPPORT
	}
}
