package peer

import (
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// Peer is one accepted connection. The descriptor is owned by whoever
// accepted it; the reactor only holds registrations for it.
type Peer struct {
	SessionID  string
	fd         int
	localAddr  netip.AddrPort
	remoteAddr netip.AddrPort
	status     ConnState
	LastActive time.Time

	BytesIn  int
	BytesOut int
}

func NewPeer(fd int, localAddr netip.AddrPort, remoteAddr netip.AddrPort) *Peer {
	sessionID := uuid.NewString()
	return &Peer{
		SessionID:  sessionID,
		fd:         fd,
		localAddr:  localAddr,
		remoteAddr: remoteAddr,
		status:     StateNew,
		LastActive: time.Now(),
	}
}

func (p *Peer) Fd() int {
	return p.fd
}

func (p *Peer) LocalAddr() netip.AddrPort {
	return p.localAddr
}

func (p *Peer) RemoteAddr() netip.AddrPort {
	return p.remoteAddr
}

func (p *Peer) Status() string {
	return p.status.String()
}

func (p *Peer) State() ConnState {
	return p.status
}

func (p *Peer) SetState(s ConnState) {
	p.status = s
}

func (p *Peer) Received(n int) {
	p.BytesIn += n
	p.LastActive = time.Now()
	if p.status == StateNew || p.status == StateIdle {
		p.status = StateActive
	}
}

func (p *Peer) Queued(n int) {
	p.BytesOut += n
	p.LastActive = time.Now()
}
