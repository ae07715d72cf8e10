package reactor

import (
	"context"
	"time"

	"github.com/touka-aoi/low-level-reactor/core/engine"
	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
	"github.com/touka-aoi/low-level-reactor/core/event"
)

func (r *Reactor) loop(ctx context.Context) error {
	var drainingDeadline time.Time

	for !r.exitNow {
		if ctx.Err() != nil && !r.exitRequested {
			r.logger.InfoContext(ctx, "context done, draining", "pending", r.writesBuffered())
			r.exitRequested = true
		}

		if r.exitRequested {
			if !r.writesBuffered() {
				r.exitNow = true
				continue
			}
			if r.drainTimeout > 0 {
				if drainingDeadline.IsZero() {
					drainingDeadline = time.Now().Add(r.drainTimeout)
				} else if time.Now().After(drainingDeadline) {
					r.logger.WarnContext(ctx, "drain timed out, abandoning queued writes", "timeout", r.drainTimeout)
					r.exitNow = true
					continue
				}
			}
		}

		if r.prepare != nil {
			r.prepare(r)
		}
		if r.exitNow {
			continue
		}
		// prepare の中で Stop(false) されたかもしれない
		if r.exitRequested && !r.writesBuffered() {
			r.exitNow = true
			continue
		}

		maxFd := -1
		writeMax := r.write.populate(r.writeSet)
		maxFd = max(maxFd, writeMax)

		readMax, exceptMax := -1, -1
		readSet, exceptSet := r.readSet, r.exceptSet
		// 終了処理中は新しい入力を受け付けない
		if !r.exitRequested {
			readMax = r.read.populate(r.readSet)
			exceptMax = r.except.populate(r.exceptSet)
			maxFd = max(maxFd, readMax, exceptMax)
		} else {
			readSet, exceptSet = nil, nil
		}

		if maxFd < 0 {
			r.exitNow = true
			return rerrors.FdNotFound
		}

		if r.debug {
			r.logger.DebugContext(ctx, "waiting",
				"engine", r.engine.Name(),
				"max_fd", maxFd,
				"write_fd", writeMax,
				"read_fd", readMax,
				"error_fd", exceptMax,
				"timeout", r.timeout,
			)
		}

		n, err := r.engine.Wait(readSet, r.writeSet, exceptSet, r.timeout)
		if err != nil {
			if r.exitNow {
				continue
			}
			if rerrors.IsTemporary(err) {
				if r.debug {
					r.logger.DebugContext(ctx, "wait interrupted", "error", err)
				}
				continue
			}
			r.exitNow = true
			r.logger.ErrorContext(ctx, "readiness wait failed", "engine", r.engine.Name(), "error", err)
			return rerrors.Wrap(rerrors.TerminatedByError, err)
		}

		if n == 0 {
			if r.exitNow {
				continue
			}
			if r.debug {
				r.logger.DebugContext(ctx, "timeout occurred, no descriptor ready")
			} else if r.onTimeout != nil {
				r.onTimeout(r)
			}
			continue
		}

		if r.postWait != nil {
			r.postWait(r)
		}
		if r.exitNow {
			continue
		}

		sets := map[event.Stream]*engine.DescriptorSet{
			event.StreamError: exceptSet,
			event.StreamWrite: r.writeSet,
			event.StreamRead:  readSet,
		}
		for _, stream := range event.DispatchOrder {
			r.processReady(ctx, stream, sets[stream])
		}
	}
	return nil
}
