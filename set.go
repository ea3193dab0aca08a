package hpack

import "math/bits"

// setEntries is the number of addressable slots in an indexSet, matching
// the dynamic table's fixed 128-entry offset ring.
const setEntries = 128

const setWords = setEntries / 64

// indexSet is a fixed-width bitmap over [0, setEntries), used to track the
// reference set R and the not-yet-emitted set E against the dynamic table's
// internal (stable) slot indices.
type indexSet [setWords]uint64

func (s *indexSet) clear() {
	*s = indexSet{}
}

func (s *indexSet) fill() {
	for i := range s {
		s[i] = ^uint64(0)
	}
}

func (s *indexSet) add(idx int) {
	s[idx>>6] |= 1 << uint(idx&63)
}

func (s *indexSet) remove(idx int) {
	s[idx>>6] &^= 1 << uint(idx&63)
}

func (s *indexSet) has(idx int) bool {
	return s[idx>>6]&(1<<uint(idx&63)) != 0
}

func (s *indexSet) isEmpty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

func (s *indexSet) isFull() bool {
	for _, w := range s {
		if w != ^uint64(0) {
			return false
		}
	}
	return true
}

func (s *indexSet) equals(o *indexSet) bool {
	return *s == *o
}

func (s *indexSet) set(o *indexSet) {
	*s = *o
}

// union sets s = s | o.
func (s *indexSet) union(o *indexSet) {
	for i := range s {
		s[i] |= o[i]
	}
}

// intersect sets s = s & o.
func (s *indexSet) intersect(o *indexSet) {
	for i := range s {
		s[i] &= o[i]
	}
}

// relativeComplement removes from s every member of o (s = s &^ o).
func (s *indexSet) relativeComplement(o *indexSet) {
	for i := range s {
		s[i] &^= o[i]
	}
}

// complement sets s to its bitwise complement over the whole universe.
func (s *indexSet) complement() {
	for i := range s {
		s[i] = ^s[i]
	}
}

// count returns the number of set bits.
func (s *indexSet) count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// indexSetIterator walks the members of an indexSet in ascending order.
type indexSetIterator struct {
	set  *indexSet
	word int
	bit  uint64
}

func (s *indexSet) iterator() indexSetIterator {
	return indexSetIterator{set: s, word: 0, bit: s[0]}
}

// next returns the next member in ascending order, or (-1, false) when
// exhausted.
func (it *indexSetIterator) next() (int, bool) {
	for it.word < setWords {
		if it.bit == 0 {
			it.word++
			if it.word >= setWords {
				return -1, false
			}
			it.bit = it.set[it.word]
			continue
		}
		b := bits.TrailingZeros64(it.bit)
		it.bit &^= 1 << uint(b)
		return it.word*64 + b, true
	}
	return -1, false
}

// reset restarts the iterator from the beginning of its set.
func (it *indexSetIterator) reset() {
	it.word = 0
	it.bit = it.set[0]
}
