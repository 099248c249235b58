package split

import "math/bits"

/*
LevelSet is a set of categorical level indexes stored as a bitmask, bit l of
word l/64 standing for level l.
*/
type LevelSet []uint64

// NewLevelSet returns a LevelSet with the given levels.
func NewLevelSet(levels ...int) LevelSet {
	var ls LevelSet
	for _, l := range levels {
		ls = ls.With(l)
	}
	return ls
}

// With returns the set with level l added. Negative levels are ignored.
func (ls LevelSet) With(l int) LevelSet {
	if l < 0 {
		return ls
	}
	for len(ls) <= l/64 {
		ls = append(ls, 0)
	}
	ls[l/64] |= 1 << uint(l%64)
	return ls
}

// Contains reports whether level l belongs to the set.
func (ls LevelSet) Contains(l int) bool {
	if l < 0 || l/64 >= len(ls) {
		return false
	}
	return ls[l/64]&(1<<uint(l%64)) != 0
}

// Levels returns the levels in the set in ascending order.
func (ls LevelSet) Levels() []int {
	var levels []int
	for w, word := range ls {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			levels = append(levels, w*64+b)
			word &^= 1 << uint(b)
		}
	}
	return levels
}

// Len returns the number of levels in the set.
func (ls LevelSet) Len() int {
	var n int
	for _, word := range ls {
		n += bits.OnesCount64(word)
	}
	return n
}

// Equal reports whether both sets hold the same levels.
func (ls LevelSet) Equal(other LevelSet) bool {
	long, short := ls, other
	if len(short) > len(long) {
		long, short = short, long
	}
	for i, word := range long {
		var o uint64
		if i < len(short) {
			o = short[i]
		}
		if word != o {
			return false
		}
	}
	return true
}
