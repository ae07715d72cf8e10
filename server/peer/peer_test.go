package peer

import (
	"net/netip"
	"testing"
)

func TestNewPeer(t *testing.T) {
	local := netip.MustParseAddrPort("127.0.0.1:8080")
	remote := netip.MustParseAddrPort("127.0.0.1:50000")
	a := NewPeer(7, local, remote)
	b := NewPeer(8, local, remote)

	if a.SessionID == "" || a.SessionID == b.SessionID {
		t.Fatalf("session ids %q and %q", a.SessionID, b.SessionID)
	}
	if a.Fd() != 7 || a.LocalAddr() != local || a.RemoteAddr() != remote {
		t.Fatal("peer fields not set")
	}
	if a.Status() != "new" {
		t.Fatalf("status = %s", a.Status())
	}
}

func TestPeerAccounting(t *testing.T) {
	p := NewPeer(3, netip.AddrPort{}, netip.AddrPort{})
	p.Received(5)
	if p.State() != StateActive || p.BytesIn != 5 {
		t.Fatalf("state = %s, in = %d", p.State(), p.BytesIn)
	}
	p.Queued(5)
	p.SetState(StateIdle)
	p.Received(2)
	if p.State() != StateActive || p.BytesIn != 7 || p.BytesOut != 5 {
		t.Fatalf("state = %s, in = %d, out = %d", p.State(), p.BytesIn, p.BytesOut)
	}
	p.SetState(StateClosing)
	p.Received(1)
	if p.State() != StateClosing {
		t.Fatal("a closing peer must stay closing")
	}
}

func TestConnStateNames(t *testing.T) {
	for s, want := range map[ConnState]string{
		StateNew: "new", StateActive: "active", StateIdle: "idle", StateClosing: "closing", StateClosed: "closed",
	} {
		if s.String() != want {
			t.Errorf("%d = %q, want %q", s, s.String(), want)
		}
	}
}
