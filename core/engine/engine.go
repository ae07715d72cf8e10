package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownEngine = errors.New("unknown readiness engine")

// ReadinessEngine is the blocking wait primitive the reactor is built on.
type ReadinessEngine interface {
	// Wait blocks until a descriptor in read, write or except is ready or the timeout elapses.
	// Nil sets are not watched. On success every set is narrowed to its ready members and the
	// number of ready (descriptor, set) pairs is returned; zero means the timeout elapsed.
	// A negative timeout blocks indefinitely.
	Wait(read, write, except *DescriptorSet, timeout time.Duration) (int, error)
	Name() string
}

// New returns the engine registered under name. The empty name selects select(2).
func New(name string) (ReadinessEngine, error) {
	switch name {
	case "", "select":
		return NewSelectEngine(), nil
	case "poll":
		return NewPollEngine(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

func readyCount(sets ...*DescriptorSet) int {
	n := 0
	for _, s := range sets {
		n += s.Len()
	}
	return n
}
