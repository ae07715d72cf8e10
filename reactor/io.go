//go:build linux

package reactor

import (
	"golang.org/x/sys/unix"

	rerrors "github.com/touka-aoi/low-level-reactor/core/errors"
)

type sysIO interface {
	Read(fd int, p []byte) (int, error)
	Write(fd int, p []byte) (int, error)
}

type unixIO struct{}

func (unixIO) Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

func (unixIO) Write(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

// EOF とハードエラーは NoDataFromRead、EAGAIN/EINTR は FdReadFailed
func (r *Reactor) performRead(d *Descriptor) error {
	if cap(r.scratch) < r.pageSize {
		r.scratch = make([]byte, r.pageSize)
	}
	n, err := r.sys.Read(d.fd, r.scratch[:r.pageSize])
	switch {
	case err != nil && rerrors.IsTemporary(err):
		return rerrors.Wrap(rerrors.FdReadFailed, err)
	case err != nil:
		return rerrors.Wrap(rerrors.NoDataFromRead, err)
	case n <= 0:
		return rerrors.NoDataFromRead
	}
	d.buf.Append(r.scratch[:n])
	return nil
}

func (r *Reactor) performWrite(d *Descriptor) error {
	if d.buf.Empty() {
		return rerrors.NoDataForWrite
	}
	n, err := r.sys.Write(d.fd, d.buf.Bytes())
	switch {
	case err != nil && rerrors.IsTemporary(err):
		return rerrors.Wrap(rerrors.FdWriteFailed, err)
	case err != nil:
		r.discard(d, err)
		return rerrors.Wrap(rerrors.FdWriteFailed, err)
	case n <= 0:
		// 0バイト書き込みは1回だけ許す
		if d.lastWriteEmpty {
			r.discard(d, nil)
			return rerrors.FdWriteFailed
		}
		d.lastWriteEmpty = true
		return rerrors.FdWriteFailed
	}
	d.lastWriteEmpty = false
	d.buf.Consume(n)
	return nil
}

func (r *Reactor) discard(d *Descriptor, cause error) {
	r.logger.Warn("dropping unwritten data", "fd", d.fd, "id", d.id, "bytes", d.buf.Len(), "error", cause)
	d.buf.Reset()
	d.lastWriteEmpty = false
}
