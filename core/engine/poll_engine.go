//go:build linux

package engine

import (
	"time"

	"golang.org/x/sys/unix"
)

const (
	pollReadReady   = unix.POLLIN | unix.POLLHUP | unix.POLLERR
	pollWriteReady  = unix.POLLOUT | unix.POLLHUP | unix.POLLERR
	pollExceptReady = unix.POLLPRI
)

// PollEngine waits with ppoll(2). Unlike select it has no upper bound on descriptor numbers.
type PollEngine struct {
	fds   []unix.PollFd
	index map[int]int
}

func NewPollEngine() *PollEngine {
	return &PollEngine{index: make(map[int]int)}
}

func (e *PollEngine) Name() string {
	return "poll"
}

func (e *PollEngine) Wait(read, write, except *DescriptorSet, timeout time.Duration) (int, error) {
	e.fds = e.fds[:0]
	clear(e.index)
	e.watch(read, unix.POLLIN)
	e.watch(write, unix.POLLOUT)
	e.watch(except, unix.POLLPRI)

	var ts *unix.Timespec
	if timeout >= 0 {
		t := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &t
	}

	n, err := unix.Ppoll(e.fds, ts, nil)
	if err != nil {
		return 0, err
	}
	for _, pfd := range e.fds {
		// select reports EBADF for a closed descriptor; keep that contract
		if pfd.Revents&unix.POLLNVAL != 0 {
			return 0, unix.EBADF
		}
	}

	e.narrow(read, pollReadReady)
	e.narrow(write, pollWriteReady)
	e.narrow(except, pollExceptReady)
	if n == 0 {
		return 0, nil
	}
	return readyCount(read, write, except), nil
}

func (e *PollEngine) watch(set *DescriptorSet, events int16) {
	for _, fd := range set.Descriptors() {
		if i, ok := e.index[fd]; ok {
			e.fds[i].Events |= events
			continue
		}
		e.index[fd] = len(e.fds)
		e.fds = append(e.fds, unix.PollFd{Fd: int32(fd), Events: events})
	}
}

func (e *PollEngine) narrow(set *DescriptorSet, mask int16) {
	if set == nil {
		return
	}
	set.retain(func(fd int) bool {
		i, ok := e.index[fd]
		return ok && e.fds[i].Revents&mask != 0
	})
}
