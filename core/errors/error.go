package rerrors

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Code は reactor の全操作が返す結果コード
// Success 以外は error として返される
type Code int

const (
	Success Code = iota
	InitFailed
	DestroyFailed
	FdOpenFailed
	FdReadFailed
	FdWriteFailed
	FdCloseFailed
	FdNotFound
	FdNegative
	FdEOFReached
	IndexNotFound
	ListRemoveFailed
	ListBadSize
	NoDataFromRead
	NoDataForWrite
	OutOfMemory
	TerminatedByError
	UninitializedContext
	NullContext
	NullCallback
	NullList
	NullFd
	NullBuffer
	DuplicateFd
	InvalidStreamType
	Exiting
	InvalidPageSize
	InvalidTimeout
)

var codeName = map[Code]string{
	Success:              "reactor: operation succeeded",
	InitFailed:           "reactor: init failed",
	DestroyFailed:        "reactor: destroy failed",
	FdOpenFailed:         "reactor: fd open failed",
	FdReadFailed:         "reactor: fd read failed",
	FdWriteFailed:        "reactor: fd write failed",
	FdCloseFailed:        "reactor: fd close failed",
	FdNotFound:           "reactor: fd not found",
	FdNegative:           "reactor: fd is negative",
	FdEOFReached:         "reactor: fd reached EOF",
	IndexNotFound:        "reactor: list index not found",
	ListRemoveFailed:     "reactor: list removal failed",
	ListBadSize:          "reactor: bad list size",
	NoDataFromRead:       "reactor: no data read",
	NoDataForWrite:       "reactor: no data to write",
	OutOfMemory:          "reactor: out of memory",
	TerminatedByError:    "reactor: terminated by error",
	UninitializedContext: "reactor: not initialized",
	NullContext:          "reactor: null context",
	NullCallback:         "reactor: null callback",
	NullList:             "reactor: null descriptor list",
	NullFd:               "reactor: null descriptor record",
	NullBuffer:           "reactor: null buffer",
	DuplicateFd:          "reactor: duplicate fd",
	InvalidStreamType:    "reactor: invalid stream type",
	Exiting:              "reactor: exiting",
	InvalidPageSize:      "reactor: invalid page size",
	InvalidTimeout:       "reactor: invalid timeout",
}

func String(c Code) string {
	if s, ok := codeName[c]; ok {
		return s
	}
	return fmt.Sprintf("reactor: unrecognized result %d", int(c))
}

func (c Code) String() string {
	return String(c)
}

func (c Code) Error() string {
	return String(c)
}

// コードを持たない error は TerminatedByError
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return TerminatedByError
}

func Wrap(c Code, cause error) error {
	if cause == nil {
		return c
	}
	return fmt.Errorf("%w: %w", c, cause)
}

// EINTR, EAGAIN
func IsTemporary(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == unix.EINTR || errno == unix.EAGAIN || errno == unix.EWOULDBLOCK
}
