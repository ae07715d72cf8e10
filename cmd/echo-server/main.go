//go:build linux

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/touka-aoi/low-level-reactor/middleware"
	"github.com/touka-aoi/low-level-reactor/reactor"
	"github.com/touka-aoi/low-level-reactor/server"
)

func main() {
	// Parse flags
	var (
		host       = flag.String("host", "0.0.0.0", "Host to listen on")
		port       = flag.Int("port", 8080, "Port to listen on")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		engineName = flag.String("engine", "select", "Readiness engine: select or poll")
		timeout    = flag.Duration("timeout", 500*time.Millisecond, "Wait timeout per loop iteration")
	)
	flag.Parse()

	// Setup logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg := reactor.DefaultConfig()
	cfg.Engine = *engineName
	cfg.Timeout = *timeout
	cfg.DrainTimeout = 10 * time.Second
	r, err := reactor.New(reactor.WithLogger(logger), reactor.WithConfig(cfg))
	if err != nil {
		slog.Error("Failed to create reactor", "error", err)
		os.Exit(1)
	}
	defer r.Destroy()

	pipeline := middleware.NewPipeline().
		Use(middleware.Recover).
		Use(middleware.Logging(logger)).
		Use(middleware.Limit(64 << 10)).
		Use(middleware.Echo)

	// Create network server
	networkServer := server.NewNetworkServer(r, server.NetworkServerConfig{
		Protocol: "tcp",
		Address:  *host,
		Port:     *port,
		Backlog:  128,
	}, pipeline, nil)

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received")
		cancel()
	}()

	if err := networkServer.Listen(ctx); err != nil {
		slog.Error("Failed to create listener", "error", err)
		os.Exit(1)
	}

	slog.Info("Echo server starting", "address", networkServer.Addr(), "engine", r.EngineName())

	// Run the server
	if err := networkServer.Serve(ctx); err != nil {
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
