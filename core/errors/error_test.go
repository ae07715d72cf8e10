package rerrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func TestStringCoversEveryCode(t *testing.T) {
	seen := make(map[string]Code)
	for c := Success; c <= InvalidTimeout; c++ {
		s := String(c)
		if !strings.HasPrefix(s, "reactor: ") {
			t.Errorf("code %d has unexpected string %q", c, s)
		}
		if prev, ok := seen[s]; ok {
			t.Errorf("codes %d and %d share string %q", prev, c, s)
		}
		seen[s] = c
	}
}

func TestStringUnrecognized(t *testing.T) {
	if got := String(Code(999)); got != "reactor: unrecognized result 999" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestCodeIsError(t *testing.T) {
	var err error = FdNotFound
	if !errors.Is(err, FdNotFound) {
		t.Fatal("code should match itself")
	}
	if errors.Is(err, FdNegative) {
		t.Fatal("distinct codes should not match")
	}
	if err.Error() != "reactor: fd not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapKeepsBoth(t *testing.T) {
	err := Wrap(FdWriteFailed, unix.EPIPE)
	if !errors.Is(err, FdWriteFailed) {
		t.Fatal("wrapped error lost its code")
	}
	if !errors.Is(err, unix.EPIPE) {
		t.Fatal("wrapped error lost its cause")
	}
	if CodeOf(err) != FdWriteFailed {
		t.Fatalf("CodeOf = %v", CodeOf(err))
	}
	if Wrap(FdReadFailed, nil) != FdReadFailed {
		t.Fatal("nil cause should return the bare code")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != Success {
		t.Fatal("nil should be Success")
	}
	if CodeOf(fmt.Errorf("plain")) != TerminatedByError {
		t.Fatal("foreign error should be TerminatedByError")
	}
}

func TestIsTemporary(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{unix.EAGAIN, true},
		{unix.EINTR, true},
		{fmt.Errorf("read: %w", unix.EAGAIN), true},
		{unix.EBADF, false},
		{unix.EPIPE, false},
		{errors.New("other"), false},
		{nil, false},
	}
	for _, c := range cases {
		if got := IsTemporary(c.err); got != c.want {
			t.Errorf("IsTemporary(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
