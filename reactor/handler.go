package reactor

// ReadyHandler: monitor-only 用。I/O はしない
type ReadyHandler interface {
	OnReady(r *Reactor, fd int)
}

// IOHandler: 書き込み後は data が nil。data は呼び出し中のみ有効
type IOHandler interface {
	OnIO(r *Reactor, fd int, data []byte)
}

type CloseHandler interface {
	OnClose(r *Reactor, fd int)
}

type ReadyFunc func(r *Reactor, fd int)

func (f ReadyFunc) OnReady(r *Reactor, fd int) { f(r, fd) }

type IOFunc func(r *Reactor, fd int, data []byte)

func (f IOFunc) OnIO(r *Reactor, fd int, data []byte) { f(r, fd, data) }

type CloseFunc func(r *Reactor, fd int)

func (f CloseFunc) OnClose(r *Reactor, fd int) { f(r, fd) }

type Hook func(r *Reactor)

// nil func をアダプタで包んだものも nil 扱い
func missing(h any) bool {
	switch v := h.(type) {
	case nil:
		return true
	case ReadyFunc:
		return v == nil
	case IOFunc:
		return v == nil
	case CloseFunc:
		return v == nil
	}
	return false
}

func optionalIO(h IOHandler) IOHandler {
	if missing(h) {
		return nil
	}
	return h
}

func optionalClose(h CloseHandler) CloseHandler {
	if missing(h) {
		return nil
	}
	return h
}
