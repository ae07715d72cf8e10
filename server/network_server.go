//go:build linux

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/touka-aoi/low-level-reactor/core/engine"
	"github.com/touka-aoi/low-level-reactor/handler"
	"github.com/touka-aoi/low-level-reactor/middleware"
	"github.com/touka-aoi/low-level-reactor/reactor"
	"github.com/touka-aoi/low-level-reactor/transport"
)

const defaultBacklog = 1024

type NetworkServerConfig struct {
	Protocol string
	Address  string
	Port     int
	Backlog  int
}

// NetworkServer ties a listener, a session manager and a reactor together.
type NetworkServer struct {
	reactor  *reactor.Reactor
	listener engine.Listener
	config   NetworkServerConfig
	pipeline *middleware.Pipeline
	app      transport.Transport
	sessions *handler.SessionManager
}

func NewNetworkServer(r *reactor.Reactor, config NetworkServerConfig, pipeline *middleware.Pipeline, app transport.Transport) *NetworkServer {
	if config.Protocol == "" {
		config.Protocol = "tcp"
	}
	if config.Backlog <= 0 {
		config.Backlog = defaultBacklog
	}
	return &NetworkServer{
		reactor:  r,
		config:   config,
		pipeline: pipeline,
		app:      app,
	}
}

func (ns *NetworkServer) Listen(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", ns.config.Address, ns.config.Port)
	listener, err := engine.Listen(ns.config.Protocol, addr, ns.config.Backlog)
	if err != nil {
		return err
	}
	ns.listener = listener

	ns.sessions = handler.NewSessionManager(ns.reactor, listener, ns.pipeline)
	if ns.app != nil {
		ns.sessions.SetTransport(ns.app)
	}
	if err := ns.sessions.Start(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to start accepting connections", "error", err)
		listener.Close()
		return err
	}

	slog.InfoContext(ctx, "Listening on", "address", listener.Addr())
	return nil
}

// Serve runs the reactor until ctx is done or the reactor stops, then closes
// every remaining session and the listener.
func (ns *NetworkServer) Serve(ctx context.Context) error {
	if ns.sessions == nil {
		return errors.New("server is not listening")
	}
	err := ns.reactor.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Reactor stopped with error", "error", err)
	}
	if closeErr := ns.sessions.Close(); closeErr != nil {
		slog.WarnContext(ctx, "Failed to close listener", "error", closeErr)
	}
	slog.InfoContext(ctx, "Server stopped", "status", ns.Status())
	return err
}

func (ns *NetworkServer) Status() reactor.Status {
	return ns.reactor.Status()
}

func (ns *NetworkServer) Addr() netip.AddrPort {
	if ns.listener == nil {
		return netip.AddrPort{}
	}
	return ns.listener.Addr()
}

func (ns *NetworkServer) Connections() int {
	if ns.sessions == nil {
		return 0
	}
	return ns.sessions.Connections()
}
