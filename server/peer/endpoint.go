package peer

import "net/netip"

// Endpoint is the read-only view of a peer handed to middleware.
type Endpoint interface {
	Fd() int
	LocalAddr() netip.AddrPort
	RemoteAddr() netip.AddrPort
	Status() string
}

var _ Endpoint = (*Peer)(nil)
