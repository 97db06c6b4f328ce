// Package perm enumerates permutations of small index sets. The layout
// package uses it to search every left-to-right order of narrow layers.
package perm

import "math"

// Seq returns [0, 1, ..., n-1]; empty for n <= 0.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!, or 1 for n <= 1. Results that do not fit an int
// saturate at math.MaxInt.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		if result > math.MaxInt/i {
			return math.MaxInt
		}
		result *= i
	}
	return result
}

// Each calls fn with every permutation of [0, n) in Heap's order, starting
// with the identity and stopping early when fn returns false. The slice
// passed to fn is reused between calls, so callers must keep n small and
// clone what they retain.
func Each(n int, fn func(p []int) bool) {
	p := Seq(n)
	if !fn(p) {
		return
	}
	state := make([]int, n)
	for i := 0; i < n; {
		if state[i] < i {
			if i&1 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[state[i]], p[i] = p[i], p[state[i]]
			}
			if !fn(p) {
				return
			}
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
}
