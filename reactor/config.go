package reactor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/touka-aoi/low-level-reactor/core/engine"
	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
)

const DefaultPageSize = 4096

type Config struct {
	// 0 なら DefaultPageSize
	PageSize int
	// 0 はポーリング
	Timeout time.Duration
	Debug   bool
	DrainTimeout time.Duration
	// "select" or "poll"
	Engine string
}

func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		Engine:   "select",
	}
}

type Option func(r *Reactor) error

func WithEngine(e engine.ReadinessEngine) Option {
	return func(r *Reactor) error {
		if e == nil {
			return fmt.Errorf("%w: nil engine", rerrors.InitFailed)
		}
		r.engine = e
		return nil
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Reactor) error {
		if l != nil {
			r.logger = l
		}
		return nil
	}
}

func WithConfig(c Config) Option {
	return func(r *Reactor) error {
		return r.Configure(c)
	}
}

func (r *Reactor) Configure(c Config) error {
	if err := r.usable(); err != nil {
		return err
	}
	if c.Engine != "" && c.Engine != r.engine.Name() {
		e, err := engine.New(c.Engine)
		if err != nil {
			return rerrors.Wrap(rerrors.InitFailed, err)
		}
		r.engine = e
	}
	pageSize := c.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if err := r.SetPageSize(pageSize); err != nil {
		return err
	}
	if err := r.SetTimeout(c.Timeout); err != nil {
		return err
	}
	if err := r.SetDrainTimeout(c.DrainTimeout); err != nil {
		return err
	}
	r.SetDebug(c.Debug)
	return nil
}

func (r *Reactor) SetPageSize(n int) error {
	if err := r.usable(); err != nil {
		return err
	}
	if n <= 0 {
		return rerrors.InvalidPageSize
	}
	r.pageSize = n
	return nil
}

func (r *Reactor) PageSize() int {
	if r == nil {
		return 0
	}
	return r.pageSize
}

func (r *Reactor) SetTimeout(d time.Duration) error {
	if err := r.usable(); err != nil {
		return err
	}
	if d < 0 {
		return rerrors.InvalidTimeout
	}
	r.timeout = d
	return nil
}

func (r *Reactor) Timeout() time.Duration {
	if r == nil {
		return 0
	}
	return r.timeout
}

func (r *Reactor) SetDrainTimeout(d time.Duration) error {
	if err := r.usable(); err != nil {
		return err
	}
	if d < 0 {
		return rerrors.InvalidTimeout
	}
	r.drainTimeout = d
	return nil
}

func (r *Reactor) SetPrepareHook(h Hook) error {
	if err := r.usable(); err != nil {
		return err
	}
	r.prepare = h
	return nil
}

func (r *Reactor) SetPostWaitHook(h Hook) error {
	if err := r.usable(); err != nil {
		return err
	}
	r.postWait = h
	return nil
}

func (r *Reactor) SetTimeoutHook(h Hook) error {
	if err := r.usable(); err != nil {
		return err
	}
	r.onTimeout = h
	return nil
}

func (r *Reactor) SetDebug(debug bool) {
	if r != nil {
		r.debug = debug
	}
}

func (r *Reactor) Debug() bool {
	return r != nil && r.debug
}

func (r *Reactor) EngineName() string {
	if r == nil || r.engine == nil {
		return ""
	}
	return r.engine.Name()
}
