package reactor

import (
	"context"
	"errors"

	"github.com/eapache/queue"

	"github.com/touka-aoi/low-level-reactor/core/engine"
	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
	"github.com/touka-aoi/low-level-reactor/core/event"
)

// コールバックが登録を変えるので先にスナップショットを取り、処理前に引き直す
func (r *Reactor) processReady(ctx context.Context, stream event.Stream, ready *engine.DescriptorSet) {
	if r.exitNow || ready.Len() == 0 {
		return
	}
	l, err := r.list(stream)
	if err != nil {
		return
	}

	snapshot := queue.New()
	for d := range l.list.All() {
		if ready.Has(d.fd) {
			snapshot.Add(d)
		}
	}

	for snapshot.Length() > 0 && !r.exitNow {
		fd := snapshot.Remove().(*Descriptor).fd
		d, ok := l.find(fd)
		if !ok {
			continue
		}
		switch {
		case d.mode == MonitorOnly:
			if r.debug {
				r.logger.DebugContext(ctx, "descriptor ready", "fd", fd, "stream", stream)
			}
			d.ready.OnReady(r, fd)
		case stream == event.StreamWrite:
			r.dispatchWrite(ctx, l, d)
		default:
			r.dispatchRead(ctx, l, d)
		}
	}
}

func (r *Reactor) dispatchWrite(ctx context.Context, l *fdList, d *Descriptor) {
	if err := r.performWrite(d); err != nil && r.debug {
		r.logger.DebugContext(ctx, "write attempt failed", "fd", d.fd, "id", d.id, "error", err)
	}
	if d.io != nil {
		d.io.OnIO(r, d.fd, nil)
	}
	if !d.buf.Empty() {
		return
	}
	// コールバックで差し替え済みかも
	if cur, ok := l.find(d.fd); !ok || cur != d {
		return
	}
	if err := l.remove(d.fd); err != nil {
		r.logger.WarnContext(ctx, "failed to remove drained descriptor", "fd", d.fd, "error", err)
		return
	}
	if d.onClose != nil {
		d.onClose.OnClose(r, d.fd)
	}
}

func (r *Reactor) dispatchRead(ctx context.Context, l *fdList, d *Descriptor) {
	err := r.performRead(d)
	switch {
	case err == nil:
		d.lastReadEmpty = false
		d.io.OnIO(r, d.fd, d.buf.Bytes())
		d.buf.Reset()
	case errors.Is(err, rerrors.NoDataFromRead):
		if !d.lastReadEmpty {
			d.lastReadEmpty = true
			return
		}
		if r.debug {
			r.logger.DebugContext(ctx, "end of stream", "fd", d.fd, "id", d.id, "stream", d.stream, "error", err)
		}
		if err := l.remove(d.fd); err != nil {
			r.logger.WarnContext(ctx, "failed to remove closed descriptor", "fd", d.fd, "error", err)
			return
		}
		if d.onClose != nil {
			d.onClose.OnClose(r, d.fd)
		}
	default:
		if r.debug {
			r.logger.DebugContext(ctx, "read attempt failed", "fd", d.fd, "id", d.id, "error", err)
		}
	}
}
