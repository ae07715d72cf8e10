package reactor

import (
	"github.com/touka-aoi/low-level-reactor/core/engine"
	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
	"github.com/touka-aoi/low-level-reactor/core/registry"
)

type fdList struct {
	list *registry.List[*Descriptor, int]
}

func newFdList() *fdList {
	l := registry.New[*Descriptor, int]()
	l.SetSeeker(func(d *Descriptor, fd int) bool {
		return d.fd == fd
	})
	return &fdList{list: l}
}

func (l *fdList) add(d *Descriptor) error {
	if d.fd < 0 {
		return rerrors.FdNegative
	}
	if _, ok := l.find(d.fd); ok {
		return rerrors.DuplicateFd
	}
	l.list.Append(d)
	return nil
}

func (l *fdList) find(fd int) (*Descriptor, bool) {
	if fd < 0 {
		return nil, false
	}
	return l.list.Seek(fd)
}

func (l *fdList) remove(fd int) error {
	if fd < 0 {
		return rerrors.FdNegative
	}
	i, err := l.list.SeekIndex(fd)
	if err != nil {
		return rerrors.Wrap(rerrors.IndexNotFound, err)
	}
	if i < 0 {
		return rerrors.FdNotFound
	}
	if err := l.list.DeleteAt(i); err != nil {
		return rerrors.Wrap(rerrors.ListRemoveFailed, err)
	}
	return nil
}

func (l *fdList) clear() {
	for d := range l.list.All() {
		d.buf.Reset()
	}
	l.list.Clear()
}

func (l *fdList) size() int {
	return l.list.Size()
}

// 最大の fd を返す。空なら -1
func (l *fdList) populate(set *engine.DescriptorSet) int {
	set.Reset()
	for d := range l.list.All() {
		set.Add(d.fd)
	}
	return set.Max()
}
