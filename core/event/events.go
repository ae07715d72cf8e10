package event

import "fmt"

type Stream int

const (
	StreamWrite Stream = iota
	StreamRead
	StreamError
)

func (s Stream) String() string {
	switch s {
	case StreamWrite:
		return "write"
	case StreamRead:
		return "read"
	case StreamError:
		return "error"
	default:
		return fmt.Sprintf("UNKNOWN: %d", int(s))
	}
}

func (s Stream) Valid() bool {
	return s >= StreamWrite && s <= StreamError
}

// error -> write -> read
var DispatchOrder = [...]Stream{StreamError, StreamWrite, StreamRead}
