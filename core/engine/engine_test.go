//go:build linux

package engine

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func socketpair(t *testing.T) [2]int {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds
}

func engines() []ReadinessEngine {
	return []ReadinessEngine{NewSelectEngine(), NewPollEngine()}
}

func TestNew(t *testing.T) {
	for name, want := range map[string]string{"": "select", "select": "select", "poll": "poll"} {
		e, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		if e.Name() != want {
			t.Fatalf("New(%q).Name() = %q", name, e.Name())
		}
	}
	if _, err := New("epoll"); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("err = %v", err)
	}
}

func TestWaitReadReady(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			fds := socketpair(t)
			if _, err := unix.Write(fds[1], []byte("x")); err != nil {
				t.Fatal(err)
			}

			read := NewDescriptorSet()
			read.Add(fds[0])
			read.Add(fds[1])
			n, err := e.Wait(read, nil, nil, time.Second)
			if err != nil {
				t.Fatal(err)
			}
			if n != 1 || !read.Has(fds[0]) || read.Has(fds[1]) {
				t.Fatalf("n = %d, ready = %v", n, read.Descriptors())
			}
		})
	}
}

func TestWaitWriteReady(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			fds := socketpair(t)
			read := NewDescriptorSet()
			read.Add(fds[0])
			write := NewDescriptorSet()
			write.Add(fds[1])

			n, err := e.Wait(read, write, NewDescriptorSet(), time.Second)
			if err != nil {
				t.Fatal(err)
			}
			if n != 1 || !write.Has(fds[1]) || read.Len() != 0 {
				t.Fatalf("n = %d, write = %v, read = %v", n, write.Descriptors(), read.Descriptors())
			}
		})
	}
}

func TestWaitTimeout(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			fds := socketpair(t)
			read := NewDescriptorSet()
			read.Add(fds[0])

			start := time.Now()
			n, err := e.Wait(read, nil, nil, 20*time.Millisecond)
			if err != nil {
				t.Fatal(err)
			}
			if n != 0 || read.Len() != 0 {
				t.Fatalf("n = %d, ready = %v", n, read.Descriptors())
			}
			if time.Since(start) < 10*time.Millisecond {
				t.Fatal("wait returned before the timeout")
			}
		})
	}
}

func TestWaitHangupIsReadable(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
			if err != nil {
				t.Fatal(err)
			}
			defer unix.Close(fds[0])
			unix.Close(fds[1])

			read := NewDescriptorSet()
			read.Add(fds[0])
			n, err := e.Wait(read, nil, nil, time.Second)
			if err != nil {
				t.Fatal(err)
			}
			if n != 1 || !read.Has(fds[0]) {
				t.Fatal("a closed peer should make the descriptor readable")
			}
		})
	}
}

func TestWaitClosedDescriptor(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			var p [2]int
			if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
				t.Fatal(err)
			}
			unix.Close(p[0])
			defer unix.Close(p[1])

			read := NewDescriptorSet()
			read.Add(p[0])
			if _, err := e.Wait(read, nil, nil, 10*time.Millisecond); !errors.Is(err, unix.EBADF) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestSelectRejectsLargeDescriptor(t *testing.T) {
	read := NewDescriptorSet()
	read.Add(fdSetSize + 5)
	if _, err := NewSelectEngine().Wait(read, nil, nil, 0); !errors.Is(err, unix.EINVAL) {
		t.Fatalf("err = %v", err)
	}
}
