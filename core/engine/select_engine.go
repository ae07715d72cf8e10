//go:build linux

package engine

import (
	"time"

	"golang.org/x/sys/unix"
)

// fdSetSize is FD_SETSIZE: select(2) cannot watch descriptors at or above it.
const fdSetSize = unix.FD_SETSIZE

// SelectEngine waits with select(2).
type SelectEngine struct {
	rfds, wfds, efds unix.FdSet
}

func NewSelectEngine() *SelectEngine {
	return &SelectEngine{}
}

func (e *SelectEngine) Name() string {
	return "select"
}

func (e *SelectEngine) Wait(read, write, except *DescriptorSet, timeout time.Duration) (int, error) {
	maxFd := -1
	rs, err := fill(&e.rfds, read, &maxFd)
	if err != nil {
		return 0, err
	}
	ws, err := fill(&e.wfds, write, &maxFd)
	if err != nil {
		return 0, err
	}
	es, err := fill(&e.efds, except, &maxFd)
	if err != nil {
		return 0, err
	}

	var tv *unix.Timeval
	if timeout >= 0 {
		t := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	n, err := unix.Select(maxFd+1, rs, ws, es, tv)
	if err != nil {
		return 0, err
	}

	narrow(read, rs)
	narrow(write, ws)
	narrow(except, es)
	if n == 0 {
		return 0, nil
	}
	return readyCount(read, write, except), nil
}

func fill(fds *unix.FdSet, set *DescriptorSet, maxFd *int) (*unix.FdSet, error) {
	fds.Zero()
	if set.Len() == 0 {
		return nil, nil
	}
	m := set.Max()
	if m >= fdSetSize {
		return nil, unix.EINVAL
	}
	for _, fd := range set.Descriptors() {
		fds.Set(fd)
	}
	if m > *maxFd {
		*maxFd = m
	}
	return fds, nil
}

func narrow(set *DescriptorSet, fds *unix.FdSet) {
	if set == nil {
		return
	}
	if fds == nil {
		set.Reset()
		return
	}
	set.retain(fds.IsSet)
}
