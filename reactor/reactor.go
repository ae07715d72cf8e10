// Package reactor implements a single-threaded readiness reactor.
package reactor

import (
	"context"
	"log/slog"
	"time"

	"github.com/touka-aoi/low-level-reactor/core/engine"
	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
	"github.com/touka-aoi/low-level-reactor/core/event"
)

type Status int

const (
	Running Status = iota
	Draining
	Stopped
)

var stateName = map[Status]string{
	Running:  "running",
	Draining: "draining",
	Stopped:  "stopped",
}

func (s Status) String() string {
	return stateName[s]
}

type Reactor struct {
	read   *fdList
	write  *fdList
	except *fdList

	readSet   *engine.DescriptorSet
	writeSet  *engine.DescriptorSet
	exceptSet *engine.DescriptorSet

	pageSize     int
	timeout      time.Duration
	drainTimeout time.Duration

	prepare   Hook
	postWait  Hook
	onTimeout Hook

	external any

	initialized   bool
	exitRequested bool
	exitNow       bool
	debug         bool

	engine  engine.ReadinessEngine
	sys     sysIO
	logger  *slog.Logger
	scratch []byte
}

func New(opts ...Option) (*Reactor, error) {
	r := &Reactor{}
	if err := r.Init(); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// engine と logger は Destroy/Init をまたいで残る
func (r *Reactor) Init() error {
	if r == nil {
		return rerrors.NullContext
	}
	if r.initialized {
		return rerrors.InitFailed
	}
	r.read = newFdList()
	r.write = newFdList()
	r.except = newFdList()
	r.readSet = engine.NewDescriptorSet()
	r.writeSet = engine.NewDescriptorSet()
	r.exceptSet = engine.NewDescriptorSet()

	r.pageSize = DefaultPageSize
	r.timeout = 0
	r.drainTimeout = 0
	r.prepare = nil
	r.postWait = nil
	r.onTimeout = nil
	r.external = nil
	r.debug = false
	r.exitRequested = false
	r.exitNow = false

	if r.engine == nil {
		r.engine = engine.NewSelectEngine()
	}
	if r.sys == nil {
		r.sys = unixIO{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.initialized = true
	return nil
}

func (r *Reactor) Destroy() error {
	if r == nil {
		return rerrors.NullContext
	}
	if !r.initialized {
		return nil
	}
	r.initialized = false
	r.external = nil
	r.prepare = nil
	r.postWait = nil
	r.onTimeout = nil
	r.read.clear()
	r.write.clear()
	r.except.clear()
	r.scratch = nil
	return nil
}

// Stop(false) は書き込み待ちを流し切ってから止まる
func (r *Reactor) Stop(immediate bool) error {
	if r == nil {
		return rerrors.NullContext
	}
	r.exitRequested = true
	if immediate {
		r.exitNow = true
	}
	return nil
}

// ctx のキャンセルは Stop(false) と同じ
func (r *Reactor) Run(ctx context.Context) error {
	if r == nil {
		return rerrors.NullContext
	}
	if !r.initialized {
		return rerrors.UninitializedContext
	}
	if r.exitRequested {
		return rerrors.Exiting
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// 前回 FdNotFound で止まっていた場合
	r.exitNow = false
	return r.loop(ctx)
}

func (r *Reactor) Status() Status {
	switch {
	case r == nil || !r.initialized || r.exitNow:
		return Stopped
	case r.exitRequested:
		return Draining
	default:
		return Running
	}
}

func (r *Reactor) Initialized() bool {
	return r != nil && r.initialized
}

func (r *Reactor) list(stream event.Stream) (*fdList, error) {
	switch stream {
	case event.StreamRead:
		return r.read, nil
	case event.StreamWrite:
		return r.write, nil
	case event.StreamError:
		return r.except, nil
	default:
		return nil, rerrors.InvalidStreamType
	}
}

func (r *Reactor) usable() error {
	if r == nil {
		return rerrors.NullContext
	}
	if !r.initialized {
		return rerrors.UninitializedContext
	}
	return nil
}

func (r *Reactor) Lookup(stream event.Stream, fd int) (*Descriptor, error) {
	if err := r.usable(); err != nil {
		return nil, err
	}
	l, err := r.list(stream)
	if err != nil {
		return nil, err
	}
	if fd < 0 {
		return nil, rerrors.FdNegative
	}
	d, ok := l.find(fd)
	if !ok {
		return nil, rerrors.FdNotFound
	}
	return d, nil
}

func (r *Reactor) Count(stream event.Stream) int {
	if r.usable() != nil {
		return 0
	}
	l, err := r.list(stream)
	if err != nil {
		return 0
	}
	return l.size()
}

func (r *Reactor) Registered(stream event.Stream, fd int) bool {
	_, err := r.Lookup(stream, fd)
	return err == nil
}

// Pending returns the unwritten bytes queued for fd.
func (r *Reactor) Pending(fd int) int {
	d, err := r.Lookup(event.StreamWrite, fd)
	if err != nil {
		return 0
	}
	return d.buf.Len()
}

func (r *Reactor) writesBuffered() bool {
	for d := range r.write.list.All() {
		if d.mode == ManagedIO && !d.buf.Empty() {
			return true
		}
	}
	return false
}

func (r *Reactor) SetExternalContext(v any) error {
	if err := r.usable(); err != nil {
		return err
	}
	r.external = v
	return nil
}

func (r *Reactor) ExternalContext() any {
	if r.usable() != nil {
		return nil
	}
	return r.external
}

func (r *Reactor) SetExternalFdContext(stream event.Stream, fd int, v any) error {
	d, err := r.Lookup(stream, fd)
	if err != nil {
		return err
	}
	d.external = v
	return nil
}

func (r *Reactor) ExternalFdContext(stream event.Stream, fd int) (any, error) {
	d, err := r.Lookup(stream, fd)
	if err != nil {
		return nil, err
	}
	return d.external, nil
}
