package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// validPath reports whether path visits every dial once using legal moves.
func validPath(dials, path []int) bool {
	n := len(dials)
	if len(path) != n {
		return false
	}
	seen := make([]bool, n)
	for i, d := range path {
		if d < 0 || d >= n || seen[d] {
			return false
		}
		seen[d] = true
		if i == 0 {
			continue
		}
		prev := path[i-1]
		v := dials[prev]
		if m := moves(prev, v, n); d != m[0] && d != m[1] {
			return false
		}
	}
	return true
}

func TestSolveKnownClocks(t *testing.T) {
	tests := []struct {
		dials []int
		want  []int
	}{
		{dials: []int{2, 3, 1, -2, 4}, want: []int{0, 2, 1, 4, 3}},
		{dials: []int{1, 1, 1, 1}, want: []int{0, 3, 2, 1}},
		{dials: []int{1, 1, 2, 1, 3, 2}, want: []int{0, 5, 3, 2, 4, 1}},
		{dials: []int{3, 1, 2, 2, 1, 3, 1}, want: []int{6, 5, 2, 0, 4, 3, 1}},
		{dials: []int{13, -7, 100, 2, 9, -21}, want: []int{3, 1, 0, 5, 2, 4}},
		{dials: []int{5}, want: []int{0}},
		{dials: []int{1, math.MaxInt, 0}, want: []int{0, 1, 2}},
	}
	for _, tt := range tests {
		got, ok := Solve(tt.dials)
		if assert.True(t, ok, "dials=%v", tt.dials) {
			assert.Equal(t, tt.want, got, "dials=%v", tt.dials)
			assert.True(t, validPath(tt.dials, got))
		}
	}
}

func TestSolveNoPath(t *testing.T) {
	for _, dials := range [][]int{nil, {}, {1, 2, 3, 4}, {2, 2, 2, 2}, {0, 0}} {
		got, ok := Solve(dials)
		assert.False(t, ok, "dials=%v", dials)
		assert.Nil(t, got)
	}
}

func TestMod(t *testing.T) {
	assert.Equal(t, 1, mod(6, 5))
	assert.Equal(t, 4, mod(-1, 5))
	assert.Equal(t, 0, mod(-10, 5))
	assert.Equal(t, 3, mod(-7, 5))
}

func TestMovesAtIntLimits(t *testing.T) {
	tests := []struct {
		i, v, n int
		want    [2]int
	}{
		{i: 0, v: 2, n: 5, want: [2]int{2, 3}},
		{i: 3, v: -7, n: 5, want: [2]int{1, 0}},
		{i: 1, v: math.MaxInt, n: 3, want: [2]int{2, 0}},
		{i: 0, v: math.MinInt, n: 3, want: [2]int{1, 2}},
		{i: 2, v: math.MaxInt, n: 7, want: [2]int{2, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, moves(tt.i, tt.v, tt.n), "i=%d v=%d n=%d", tt.i, tt.v, tt.n)
	}
}
