package reactor

import (
	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
	"github.com/touka-aoi/low-level-reactor/core/event"
)

func (r *Reactor) accepting() error {
	if err := r.usable(); err != nil {
		return err
	}
	if r.exitRequested {
		return rerrors.Exiting
	}
	return nil
}

// AddReadFd: 2回連続で空読みしたら登録を外して onClose
func (r *Reactor) AddReadFd(fd int, io IOHandler, onClose CloseHandler) error {
	return r.addManagedInput(event.StreamRead, fd, io, onClose)
}

func (r *Reactor) AddErrorFd(fd int, io IOHandler, onClose CloseHandler) error {
	return r.addManagedInput(event.StreamError, fd, io, onClose)
}

func (r *Reactor) addManagedInput(stream event.Stream, fd int, io IOHandler, onClose CloseHandler) error {
	if err := r.accepting(); err != nil {
		return err
	}
	if missing(io) {
		return rerrors.NullCallback
	}
	d := newDescriptor(stream, fd, ManagedIO)
	d.io = io
	d.onClose = optionalClose(onClose)
	return r.register(d)
}

// 既に書き込み待ちがあれば後ろに追記する。ハンドラは最初の登録のもの
func (r *Reactor) AddWriteFd(fd int, data []byte, io IOHandler, onClose CloseHandler) error {
	if err := r.accepting(); err != nil {
		return err
	}
	if len(data) == 0 {
		return rerrors.NoDataForWrite
	}
	if fd < 0 {
		return rerrors.FdNegative
	}
	if d, ok := r.write.find(fd); ok {
		if d.mode != ManagedIO {
			return rerrors.DuplicateFd
		}
		d.buf.Append(data)
		return nil
	}
	d := newDescriptor(event.StreamWrite, fd, ManagedIO)
	d.io = optionalIO(io)
	d.onClose = optionalClose(onClose)
	d.buf.Append(data)
	return r.register(d)
}

func (r *Reactor) MonitorReadFd(fd int, ready ReadyHandler) error {
	return r.monitor(event.StreamRead, fd, ready)
}

func (r *Reactor) MonitorWriteFd(fd int, ready ReadyHandler) error {
	return r.monitor(event.StreamWrite, fd, ready)
}

func (r *Reactor) MonitorErrorFd(fd int, ready ReadyHandler) error {
	return r.monitor(event.StreamError, fd, ready)
}

func (r *Reactor) monitor(stream event.Stream, fd int, ready ReadyHandler) error {
	if err := r.accepting(); err != nil {
		return err
	}
	if missing(ready) {
		return rerrors.NullCallback
	}
	d := newDescriptor(stream, fd, MonitorOnly)
	d.ready = ready
	return r.register(d)
}

func (r *Reactor) register(d *Descriptor) error {
	l, err := r.list(d.stream)
	if err != nil {
		return err
	}
	if err := l.add(d); err != nil {
		return err
	}
	if r.debug {
		r.logger.Debug("registered descriptor", "fd", d.fd, "id", d.id, "stream", d.stream, "mode", d.mode)
	}
	return nil
}

func (r *Reactor) RemoveReadFd(fd int) error {
	return r.Remove(event.StreamRead, fd)
}

func (r *Reactor) RemoveWriteFd(fd int) error {
	return r.Remove(event.StreamWrite, fd)
}

func (r *Reactor) RemoveErrorFd(fd int) error {
	return r.Remove(event.StreamError, fd)
}

// fd 自体は閉じない
func (r *Reactor) Remove(stream event.Stream, fd int) error {
	if err := r.usable(); err != nil {
		return err
	}
	l, err := r.list(stream)
	if err != nil {
		return err
	}
	return l.remove(fd)
}
