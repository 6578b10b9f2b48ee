// Package solver finds an order in which every dial of a clock can be
// visited exactly once, and serves it over HTTP.
//
// From dial i holding value v the next dial is (i+v) mod n or (i-v) mod n.
// Starts are tried in index order and each start is explored depth-first,
// most recently discovered branch first, so the answer for a given clock is
// always the same.
package solver

// NoPathMessage is the answer given for clocks without a solution.
const NoPathMessage = "No valid path found"

type frame struct {
	current int
	path    []int
	visited []bool
}

// Solve returns a visiting order of all dials, or false when none exists.
func Solve(dials []int) ([]int, bool) {
	n := len(dials)
	if n == 0 {
		return nil, false
	}

	next := make([][2]int, n)
	for i, v := range dials {
		next[i] = moves(i, v, n)
	}

	for start := 0; start < n; start++ {
		visited := make([]bool, n)
		visited[start] = true
		stack := []frame{{current: start, path: []int{start}, visited: visited}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(f.path) == n {
				return f.path, true
			}
			for _, nb := range next[f.current] {
				if f.visited[nb] {
					continue
				}
				path := make([]int, len(f.path), len(f.path)+1)
				copy(path, f.path)
				seen := make([]bool, n)
				copy(seen, f.visited)
				seen[nb] = true
				stack = append(stack, frame{current: nb, path: append(path, nb), visited: seen})
			}
		}
	}
	return nil, false
}

// moves returns the two dials reachable from dial i holding v. v is reduced
// first so values near the int limits cannot overflow.
func moves(i, v, n int) [2]int {
	r := mod(v, n)
	return [2]int{mod(i+r, n), mod(i-r, n)}
}

// mod is the non-negative remainder of a divided by n.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
