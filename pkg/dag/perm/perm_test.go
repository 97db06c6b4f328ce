package perm

import (
	"math"
	"slices"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestEachCounts(t *testing.T) {
	tests := []struct {
		n, stopAfter int
		want         int
	}{
		{0, 0, 1},
		{1, 0, 1},
		{4, 0, 24},
		{4, 10, 10},
		{4, 100, 24},
	}
	for _, tt := range tests {
		calls := 0
		Each(tt.n, func([]int) bool {
			calls++
			return tt.stopAfter <= 0 || calls < tt.stopAfter
		})
		if calls != tt.want {
			t.Errorf("Each(%d) stopping after %d made %d calls, want %d", tt.n, tt.stopAfter, calls, tt.want)
		}
	}
}

func TestEachDistinctPermutations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		seen := make(map[string]bool, Factorial(n))
		Each(n, func(p []int) bool {
			if !slices.Equal(slices.Sorted(slices.Values(p)), Seq(n)) {
				t.Fatalf("%v is not a permutation of [0,%d)", p, n)
			}
			key := fmtInts(p)
			if seen[key] {
				t.Fatalf("duplicate permutation %v", p)
			}
			seen[key] = true
			return true
		})
		if len(seen) != Factorial(n) {
			t.Fatalf("got %d permutations, want %d", len(seen), Factorial(n))
		}
	})
}

func TestFactorial(t *testing.T) {
	tests := []struct{ n, want int }{
		{-1, 1},
		{0, 1},
		{1, 1},
		{7, 5040},
		{12, 479001600},
		{21, math.MaxInt},
		{100, math.MaxInt},
	}
	for _, tt := range tests {
		if got := Factorial(tt.n); got != tt.want {
			t.Errorf("Factorial(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func fmtInts(p []int) string {
	var b strings.Builder
	for _, v := range p {
		b.WriteByte(byte('0' + v))
	}
	return b.String()
}
