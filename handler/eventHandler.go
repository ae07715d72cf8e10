//go:build linux

package handler

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/touka-aoi/low-level-reactor/core/engine"
	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
	"github.com/touka-aoi/low-level-reactor/core/event"
	"github.com/touka-aoi/low-level-reactor/middleware"
	"github.com/touka-aoi/low-level-reactor/reactor"
	"github.com/touka-aoi/low-level-reactor/server/peer"
	"github.com/touka-aoi/low-level-reactor/transport"
)

const (
	maxConnections = 1000
)

// SessionManager serves connections accepted from a listener on a reactor.
// Inbound data runs through the pipeline and any response is queued as a
// managed write on the same descriptor.
type SessionManager struct {
	reactor     *reactor.Reactor
	listener    engine.Listener
	pipeline    *middleware.Pipeline
	app         transport.Transport
	ctx         context.Context
	connections map[int]*peer.Peer
	limit       int
	closeFd     func(fd int) error
}

func NewSessionManager(r *reactor.Reactor, listener engine.Listener, pipeline *middleware.Pipeline) *SessionManager {
	if pipeline == nil {
		pipeline = middleware.NewPipeline()
	}
	return &SessionManager{
		reactor:     r,
		listener:    listener,
		pipeline:    pipeline,
		ctx:         context.Background(),
		connections: make(map[int]*peer.Peer),
		limit:       maxConnections,
		closeFd:     unix.Close,
	}
}

func (sm *SessionManager) SetTransport(app transport.Transport) {
	sm.app = app
}

// accept はリアクタのループ内で行う
func (sm *SessionManager) Start(ctx context.Context) error {
	if ctx != nil {
		sm.ctx = ctx
	}
	return sm.reactor.MonitorReadFd(sm.listener.Fd(), reactor.ReadyFunc(sm.handleAccept))
}

func (sm *SessionManager) Connections() int {
	return len(sm.connections)
}

func (sm *SessionManager) Peer(fd int) (*peer.Peer, bool) {
	p, ok := sm.connections[fd]
	return p, ok
}

func (sm *SessionManager) handleAccept(r *reactor.Reactor, _ int) {
	for {
		newFd, remoteAddr, err := sm.listener.Accept()
		if err != nil {
			if !rerrors.IsTemporary(err) && !errors.Is(err, unix.ECONNABORTED) {
				slog.Error("Failed to accept connection", "error", err)
			}
			return
		}
		if len(sm.connections) >= sm.limit {
			slog.Warn("Connection limit reached, rejecting", "fd", newFd, "remoteAddr", remoteAddr)
			sm.closeFd(newFd)
			continue
		}

		p := peer.NewPeer(newFd, sm.listener.Addr(), remoteAddr)
		if sm.app != nil {
			if err := sm.app.OnConnect(sm.ctx, p); err != nil {
				slog.WarnContext(sm.ctx, "Application rejected connection", "fd", newFd, "remoteAddr", remoteAddr, "error", err)
				sm.closeFd(newFd)
				continue
			}
		}
		if err := r.AddReadFd(newFd, reactor.IOFunc(sm.handleRead), reactor.CloseFunc(sm.handlePeerClosed)); err != nil {
			slog.Error("Failed to register read", "fd", newFd, "error", err)
			sm.closeFd(newFd)
			continue
		}
		sm.connections[newFd] = p
		r.SetExternalFdContext(event.StreamRead, newFd, p)

		slog.Debug("Accepted new connection", "fd", newFd, "session", p.SessionID, "localAddr", p.LocalAddr(), "remoteAddr", remoteAddr)
	}
}

func (sm *SessionManager) handleRead(r *reactor.Reactor, fd int, data []byte) {
	p, ok := sm.connections[fd]
	if !ok {
		slog.Warn("Data for unknown connection", "fd", fd)
		return
	}
	p.Received(len(data))

	ctx := middleware.NewContext(data, fd, p)
	if err := sm.pipeline.Execute(ctx); err != nil {
		slog.Warn("Dropping connection after pipeline error", "fd", fd, "session", p.SessionID, "error", err)
		r.RemoveReadFd(fd)
		r.RemoveWriteFd(fd)
		sm.finish(fd)
		return
	}
	response := ctx.Response
	if sm.app != nil {
		out, err := sm.app.OnData(sm.ctx, p, data)
		if err != nil {
			slog.ErrorContext(sm.ctx, "Application error", "fd", fd, "error", err)
		}
		response = append(response, out...)
	}
	if len(response) == 0 {
		return
	}

	if err := r.AddWriteFd(fd, response, nil, reactor.CloseFunc(sm.handleFlushed)); err != nil {
		slog.Warn("Failed to queue response", "fd", fd, "error", err)
		return
	}
	p.Queued(len(response))
}

func (sm *SessionManager) handlePeerClosed(r *reactor.Reactor, fd int) {
	p, ok := sm.connections[fd]
	if !ok {
		return
	}
	if r.Pending(fd) > 0 {
		p.SetState(peer.StateClosing)
		return
	}
	sm.finish(fd)
}

// レスポンスを書き切った
func (sm *SessionManager) handleFlushed(_ *reactor.Reactor, fd int) {
	p, ok := sm.connections[fd]
	if !ok {
		return
	}
	if p.State() == peer.StateClosing {
		sm.finish(fd)
		return
	}
	p.SetState(peer.StateIdle)
}

func (sm *SessionManager) finish(fd int) {
	p, ok := sm.connections[fd]
	if !ok {
		return
	}
	delete(sm.connections, fd)
	p.SetState(peer.StateClosed)
	if sm.app != nil {
		if err := sm.app.OnDisconnect(sm.ctx, p); err != nil {
			slog.ErrorContext(sm.ctx, "Application error", "fd", fd, "error", err)
		}
	}
	if err := sm.closeFd(fd); err != nil {
		slog.Warn("Failed to close connection", "fd", fd, "error", err)
	}
	slog.Debug("Connection closed", "fd", fd, "session", p.SessionID, "in", p.BytesIn, "out", p.BytesOut)
}

// ループが終わってから呼ぶ
func (sm *SessionManager) Close() error {
	for fd := range sm.connections {
		sm.reactor.RemoveReadFd(fd)
		sm.reactor.RemoveWriteFd(fd)
		sm.finish(fd)
	}
	sm.reactor.RemoveReadFd(sm.listener.Fd())
	return sm.listener.Close()
}
