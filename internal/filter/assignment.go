package filter

import (
	"math"

	"github.com/standardbeagle/ontomatch/internal/types"
)

// tieBreak is small enough never to override a real similarity difference
const tieBreak = 1e-9

// assignComponent solves one conflict component as a maximum-weight bipartite
// assignment. Earlier insertion gets a tiny bonus so equal-weight solutions
// resolve to the same answer every time.
func assignComponent(comp []ranked) []ranked {
	rowOf := make(map[types.EntityID]int)
	colOf := make(map[types.EntityID]int)
	for _, r := range comp {
		if _, ok := rowOf[r.m.Source]; !ok {
			rowOf[r.m.Source] = len(rowOf)
		}
		if _, ok := colOf[r.m.Target]; !ok {
			colOf[r.m.Target] = len(colOf)
		}
	}

	rows, cols := len(rowOf), len(colOf)
	transposed := rows > cols
	if transposed {
		rows, cols = cols, rows
	}
	weights := make([][]float64, rows)
	edges := make([][]int, rows)
	for i := range weights {
		weights[i] = make([]float64, cols)
		edges[i] = make([]int, cols)
		for j := range edges[i] {
			edges[i][j] = -1
		}
	}
	n := float64(len(comp))
	for k, r := range comp {
		i, j := rowOf[r.m.Source], colOf[r.m.Target]
		if transposed {
			i, j = j, i
		}
		weights[i][j] = r.m.Similarity + tieBreak*(n-float64(k))/n
		edges[i][j] = k
	}

	var kept []ranked
	for i, j := range assign(weights) {
		if j >= 0 && edges[i][j] >= 0 {
			kept = append(kept, comp[edges[i][j]])
		}
	}
	return kept
}

// assign returns the column given to each row by a maximum-weight assignment,
// using the Hungarian algorithm with potentials. Rows must not outnumber
// columns; missing edges weigh 0.
func assign(w [][]float64) []int {
	n := len(w)
	if n == 0 {
		return nil
	}
	m := len(w[0])
	inf := math.Inf(1)

	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1) // p[j] is the row holding column j, 1-based
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], inf, 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				if cur := -w[i0-1][j-1] - u[i0] - v[j]; cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			out[p[j]-1] = j - 1
		}
	}
	return out
}
