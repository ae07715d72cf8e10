package engine

import "math/bits"

// DescriptorSet is the set of descriptors one stream hands to a ReadinessEngine.
// After Wait it holds only the descriptors reported ready.
// The zero value is an empty set.
type DescriptorSet struct {
	fds  []int
	bits []uint64
}

func NewDescriptorSet() *DescriptorSet {
	return &DescriptorSet{}
}

func (s *DescriptorSet) Add(fd int) {
	if fd < 0 || s.Has(fd) {
		return
	}
	word := fd / 64
	if word >= len(s.bits) {
		grown := make([]uint64, word+1)
		copy(grown, s.bits)
		s.bits = grown
	}
	s.bits[word] |= 1 << (uint(fd) % 64)
	s.fds = append(s.fds, fd)
}

func (s *DescriptorSet) Has(fd int) bool {
	if s == nil || fd < 0 {
		return false
	}
	word := fd / 64
	if word >= len(s.bits) {
		return false
	}
	return s.bits[word]&(1<<(uint(fd)%64)) != 0
}

func (s *DescriptorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fds)
}

// 空なら -1
func (s *DescriptorSet) Max() int {
	if s == nil {
		return -1
	}
	for i := len(s.bits) - 1; i >= 0; i-- {
		if w := s.bits[i]; w != 0 {
			return i*64 + 63 - bits.LeadingZeros64(w)
		}
	}
	return -1
}

func (s *DescriptorSet) Descriptors() []int {
	if s == nil {
		return nil
	}
	return s.fds
}

func (s *DescriptorSet) Reset() {
	s.fds = s.fds[:0]
	clear(s.bits)
}

// retain keeps only the members for which ready returns true.
func (s *DescriptorSet) retain(ready func(fd int) bool) {
	kept := s.fds[:0]
	for _, fd := range s.fds {
		if ready(fd) {
			kept = append(kept, fd)
			continue
		}
		s.bits[fd/64] &^= 1 << (uint(fd) % 64)
	}
	s.fds = kept
}
