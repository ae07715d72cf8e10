// Package registry はリアクタがディスクリプタを保持する順序付きリスト
package registry

import (
	"errors"
	"iter"
	"slices"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoSeeker        = errors.New("seeker not set")
)

type Seeker[T, K any] func(elem T, key K) bool

// List keeps insertion order; lookups go through the seeker.
type List[T, K any] struct {
	elems  []T
	seeker Seeker[T, K]
}

func New[T, K any]() *List[T, K] {
	return &List[T, K]{}
}

func (l *List[T, K]) SetSeeker(fn Seeker[T, K]) {
	l.seeker = fn
}

func (l *List[T, K]) Append(v T) {
	l.elems = append(l.elems, v)
}

func (l *List[T, K]) DeleteAt(i int) error {
	if i < 0 || i >= len(l.elems) {
		return ErrIndexOutOfRange
	}
	// 残りの順序は保つ
	l.elems = slices.Delete(l.elems, i, i+1)
	return nil
}

func (l *List[T, K]) Seek(key K) (T, bool) {
	var zero T
	i, err := l.SeekIndex(key)
	if err != nil || i < 0 {
		return zero, false
	}
	return l.elems[i], true
}

// SeekIndex returns -1 when nothing matches.
func (l *List[T, K]) SeekIndex(key K) (int, error) {
	if l.seeker == nil {
		return -1, ErrNoSeeker
	}
	return slices.IndexFunc(l.elems, func(e T) bool {
		return l.seeker(e, key)
	}), nil
}

func (l *List[T, K]) Size() int {
	return len(l.elems)
}

func (l *List[T, K]) Empty() bool {
	return len(l.elems) == 0
}

func (l *List[T, K]) Clear() {
	clear(l.elems)
	l.elems = l.elems[:0]
}

// All はイテレート中の変更に対応していない
func (l *List[T, K]) All() iter.Seq[T] {
	return slices.Values(l.elems)
}
