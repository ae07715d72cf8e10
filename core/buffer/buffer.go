package buffer

import (
	"log/slog"
)

// Buffer is a per-descriptor accumulation buffer.
// The zero value is the single empty state: no storage is held.
type Buffer struct {
	buf []byte
}

func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	used := len(b.buf)
	if used+len(p) > cap(b.buf) {
		grown := make([]byte, used, used+len(p))
		copy(grown, b.buf)
		b.buf = grown
	}
	b.buf = append(b.buf, p...)
}

// 先頭 n バイトを捨てて詰める。全部消費したら解放
func (b *Buffer) Consume(n int) {
	if n <= 0 {
		slog.Warn("Invalid consume value", "n", n)
		return
	}
	if n >= len(b.buf) {
		if n > len(b.buf) {
			slog.Warn("Invalid consume value exceeds buffer length", "n", n, "length", len(b.buf))
		}
		b.Reset()
		return
	}
	rest := make([]byte, len(b.buf)-n)
	copy(rest, b.buf[n:])
	b.buf = rest
}

// Bytes returns the buffered bytes. The slice is only valid until the next mutation.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

func (b *Buffer) Len() int {
	return len(b.buf)
}

func (b *Buffer) Cap() int {
	return cap(b.buf)
}

func (b *Buffer) Empty() bool {
	return len(b.buf) == 0
}

func (b *Buffer) Reset() {
	b.buf = nil
}
