// Package position computes slot assignments for ordered board items.
// All functions are pure: they read position lists and return plans,
// the callers apply them through the store.
package position

import "sort"

// NextAppend returns the position for an item appended after the given
// siblings: max+1, or 0 when there are none.
func NextAppend(existing []int) int {
	if len(existing) == 0 {
		return 0
	}
	max := existing[0]
	for _, p := range existing[1:] {
		if p > max {
			max = p
		}
	}
	return max + 1
}

// Plan describes where an inserted item lands and which sibling positions
// must be incremented by one to make room for it.
type Plan struct {
	Position int
	Shift    []int
}

// InsertAt clamps desired to be non-negative and returns the resulting
// insertion plan. Shift lists every sibling position at or after the
// normalized slot, in ascending order. Nothing is mutated.
func InsertAt(existing []int, desired int) Plan {
	if desired < 0 {
		desired = 0
	}
	var shift []int
	for _, p := range existing {
		if p >= desired {
			shift = append(shift, p)
		}
	}
	sort.Ints(shift)
	return Plan{Position: desired, Shift: shift}
}

// Compact returns the canonical zero-based contiguous renumbering of the
// given positions, aligned index-for-index with the input. Relative order is
// preserved; equal positions keep their input order. The result never
// contains gaps, duplicates, or negative values.
func Compact(positions []int) []int {
	if len(positions) == 0 {
		return nil
	}
	idx := make([]int, len(positions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return positions[idx[a]] < positions[idx[b]]
	})
	out := make([]int, len(positions))
	for rank, i := range idx {
		out[i] = rank
	}
	return out
}
