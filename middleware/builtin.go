package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var ErrTooLarge = errors.New("inbound chunk exceeds limit")

// Logging logs every chunk after the rest of the pipeline has run.
func Logging(logger *slog.Logger) MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx *Context, next NextFunc) error {
		start := time.Now()
		err := next(ctx)
		attrs := []any{
			"fd", ctx.Fd,
			"in", len(ctx.Data),
			"out", len(ctx.Response),
			"elapsed", time.Since(start),
		}
		if ctx.Peer != nil {
			attrs = append(attrs, "remoteAddr", ctx.Peer.RemoteAddr())
		}
		if err != nil {
			logger.Warn("pipeline failed", append(attrs, "error", err)...)
			return err
		}
		logger.Debug("pipeline handled data", attrs...)
		return nil
	}
}

// Recover turns a panic further down the pipeline into an error.
func Recover(ctx *Context, next NextFunc) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("middleware panic: %v", v)
		}
	}()
	return next(ctx)
}

func Limit(max int) MiddlewareFunc {
	return func(ctx *Context, next NextFunc) error {
		if len(ctx.Data) > max {
			return fmt.Errorf("%w: %d > %d", ErrTooLarge, len(ctx.Data), max)
		}
		return next(ctx)
	}
}

// Echo copies the inbound data into the response.
func Echo(ctx *Context, next NextFunc) error {
	ctx.Response = append(ctx.Response, ctx.Data...)
	return next(ctx)
}

func Upper(ctx *Context, next NextFunc) error {
	if err := next(ctx); err != nil {
		return err
	}
	ctx.Response = bytes.ToUpper(ctx.Response)
	return nil
}
