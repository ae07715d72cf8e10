package reactor

import (
	"github.com/google/uuid"

	"github.com/touka-aoi/low-level-reactor/core/buffer"
	"github.com/touka-aoi/low-level-reactor/core/event"
)

type Mode int

const (
	MonitorOnly Mode = iota
	ManagedIO
)

var modeName = map[Mode]string{
	MonitorOnly: "monitor",
	ManagedIO:   "managed",
}

func (m Mode) String() string {
	return modeName[m]
}

type Descriptor struct {
	id     string
	fd     int
	stream event.Stream
	mode   Mode

	ready   ReadyHandler
	io      IOHandler
	onClose CloseHandler

	buf            buffer.Buffer
	lastReadEmpty  bool
	lastWriteEmpty bool

	external any
}

func newDescriptor(stream event.Stream, fd int, mode Mode) *Descriptor {
	return &Descriptor{
		id:     uuid.NewString(),
		fd:     fd,
		stream: stream,
		mode:   mode,
	}
}

// 再登録すると別の ID になる
func (d *Descriptor) ID() string {
	return d.id
}

func (d *Descriptor) Fd() int {
	return d.fd
}

func (d *Descriptor) Stream() event.Stream {
	return d.stream
}

func (d *Descriptor) Mode() Mode {
	return d.mode
}

func (d *Descriptor) Buffered() int {
	return d.buf.Len()
}
