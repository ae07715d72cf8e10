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
)

const (
	stdin  = 0
	stdout = 1
)

func main() {
	var (
		debug        = flag.Bool("debug", false, "Enable debug logging")
		pageSize     = flag.Int("page-size", reactor.DefaultPageSize, "Bytes requested per read")
		timeout      = flag.Duration("timeout", 500*time.Millisecond, "Wait timeout per loop iteration")
		engineName   = flag.String("engine", "select", "Readiness engine: select or poll")
		drainTimeout = flag.Duration("drain-timeout", 10*time.Second, "Upper bound on flushing output after stdin closes")
		upper        = flag.Bool("upper", false, "Upper-case relayed data")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	// stdout はデータ用
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	r, err := reactor.New(
		reactor.WithLogger(logger),
		reactor.WithConfig(reactor.Config{
			PageSize:     *pageSize,
			Timeout:      *timeout,
			Debug:        *debug,
			DrainTimeout: *drainTimeout,
			Engine:       *engineName,
		}),
	)
	if err != nil {
		slog.Error("Failed to create reactor", "error", err)
		os.Exit(1)
	}
	defer r.Destroy()

	pipeline := middleware.NewPipeline().Use(middleware.Recover)
	if *upper {
		pipeline.Use(middleware.Upper)
	}
	pipeline.Use(middleware.Echo)

	relay := reactor.IOFunc(func(r *reactor.Reactor, fd int, data []byte) {
		ctx := middleware.NewContext(data, fd, nil)
		if err := pipeline.Execute(ctx); err != nil {
			slog.Warn("Dropping input", "error", err)
			return
		}
		if len(ctx.Response) == 0 {
			return
		}
		if err := r.AddWriteFd(stdout, ctx.Response, nil, nil); err != nil {
			slog.Error("Failed to queue output", "error", err)
			r.Stop(true)
		}
	})
	closed := reactor.CloseFunc(func(r *reactor.Reactor, fd int) {
		slog.Debug("Input closed", "fd", fd)
		r.Stop(false)
	})
	if err := r.AddReadFd(stdin, relay, closed); err != nil {
		slog.Error("Failed to register stdin", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		slog.Info("Shutting down relay...")
		cancel()
	}()

	slog.Debug("Relay starting", "engine", r.EngineName(), "pageSize", r.PageSize(), "timeout", r.Timeout())
	if err := r.Run(ctx); err != nil {
		slog.Error("Relay stopped with error", "error", err)
		os.Exit(1)
	}
	if pending := r.Pending(stdout); pending > 0 {
		slog.Warn("Output not fully flushed", "bytes", pending)
	}
}
