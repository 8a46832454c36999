package save

import "sort"

// requiredXPList returns a monotonic XP-threshold table of length
// maxLevel: requiredXPList()[i] is the minimum experience needed to be
// level i+1. The real game's table isn't available in this module's
// reference material (see DESIGN.md); this is a self-generated cubic
// curve that is monotonic and self-consistent, which is all the level
// derivation in spec section 4.6 requires.
func requiredXPList(maxLevel int) []uint32 {
	out := make([]uint32, maxLevel)
	for i := range out {
		n := uint64(i)
		out[i] = uint32(60 * n * n * n / 4)
	}
	return out
}

// levelForXP implements "level = count of thresholds <= xp".
func levelForXP(thresholds []uint32, xp uint32) int {
	return sort.Search(len(thresholds), func(i int) bool { return thresholds[i] > xp })
}

// xpForLevel returns the minimum XP for level, or (if topVal and a
// higher level exists) one below the next threshold.
func xpForLevel(thresholds []uint32, level int, topVal bool) uint32 {
	if level < 1 {
		level = 1
	}
	if level > len(thresholds) {
		level = len(thresholds)
	}
	min := thresholds[level-1]
	if topVal && level < len(thresholds) {
		return thresholds[level] - 1
	}
	return min
}
