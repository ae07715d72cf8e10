package peer

// 参考: https://go.googlesource.com/go/%2B/master/src/net/http/server.go#3267
type ConnState int

const (
	StateNew     ConnState = iota
	StateActive            // read data or queued writes
	StateIdle              // nothing queued
	StateClosing           // peer sent EOF, flushing queued writes
	StateClosed
)

var stateName = map[ConnState]string{
	StateNew:     "new",
	StateActive:  "active",
	StateIdle:    "idle",
	StateClosing: "closing",
	StateClosed:  "closed",
}

func (s ConnState) String() string {
	return stateName[s]
}
