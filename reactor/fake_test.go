package reactor

import (
	"log/slog"
	"testing"
	"time"

	"github.com/touka-aoi/low-level-reactor/core/engine"
)

// readyEngine reports every watched descriptor as ready, or none when idle.
type readyEngine struct {
	waits int
	errs  []error
	idle  bool
}

func (e *readyEngine) Name() string { return "fake" }

func (e *readyEngine) Wait(read, write, except *engine.DescriptorSet, _ time.Duration) (int, error) {
	e.waits++
	if len(e.errs) > 0 {
		err := e.errs[0]
		e.errs = e.errs[1:]
		if err != nil {
			return -1, err
		}
	}
	if e.idle {
		for _, s := range []*engine.DescriptorSet{read, write, except} {
			if s != nil {
				s.Reset()
			}
		}
		return 0, nil
	}
	return read.Len() + write.Len() + except.Len(), nil
}

type readStep struct {
	data string
	err  error
}

// scriptIO replays scripted reads per descriptor and records writes.
// A descriptor with no steps left reads as end of stream.
type scriptIO struct {
	reads      map[int][]readStep
	maxWrite   int
	zeroWrites bool
	writeErr   error
	written    map[int][]byte
	writes     int
}

func newScriptIO() *scriptIO {
	return &scriptIO{
		reads:   make(map[int][]readStep),
		written: make(map[int][]byte),
	}
}

func (s *scriptIO) Read(fd int, p []byte) (int, error) {
	steps := s.reads[fd]
	if len(steps) == 0 {
		return 0, nil
	}
	step := steps[0]
	if step.err != nil {
		s.reads[fd] = steps[1:]
		return -1, step.err
	}
	n := copy(p, step.data)
	if n < len(step.data) {
		s.reads[fd][0].data = step.data[n:]
	} else {
		s.reads[fd] = steps[1:]
	}
	return n, nil
}

func (s *scriptIO) Write(fd int, p []byte) (int, error) {
	s.writes++
	if s.writeErr != nil {
		return -1, s.writeErr
	}
	if s.zeroWrites {
		return 0, nil
	}
	n := len(p)
	if s.maxWrite > 0 && n > s.maxWrite {
		n = s.maxWrite
	}
	s.written[fd] = append(s.written[fd], p[:n]...)
	return n, nil
}

func newTestReactor(t *testing.T, e engine.ReadinessEngine, sys *scriptIO) *Reactor {
	t.Helper()
	r, err := New(WithEngine(e), WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatal(err)
	}
	if sys != nil {
		r.sys = sys
	}
	t.Cleanup(func() { r.Destroy() })
	return r
}

// stopAfter returns a prepare hook that stops the reactor immediately on its n-th call.
func stopAfter(n int, calls *int) Hook {
	return func(r *Reactor) {
		*calls++
		if *calls >= n {
			r.Stop(true)
		}
	}
}

func ignoreIO(*Reactor, int, []byte) {}
