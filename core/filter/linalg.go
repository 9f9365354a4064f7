package filter

import (
	"fmt"
	"math"

	"github.com/huangsam/touchline/core"
)

// solve returns X with A X = B by Gaussian elimination with partial pivoting.
// A is n x n and B is n x m; neither is modified.
func solve(a, b [][]float64) ([][]float64, error) {
	n := len(a)
	m := 0
	if n > 0 {
		m = len(b[0])
	}
	aug := make([][]float64, n)
	for i := range n {
		aug[i] = make([]float64, 0, n+m)
		aug[i] = append(aug[i], a[i]...)
		aug[i] = append(aug[i], b[i]...)
	}
	for col := range n {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if aug[pivot][col] == 0 {
			return nil, fmt.Errorf("%w: singular system", core.ErrInvalidArgument)
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		for r := range n {
			if r == col {
				continue
			}
			f := aug[r][col] / aug[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < n+m; c++ {
				aug[r][c] -= f * aug[col][c]
			}
		}
	}
	out := make([][]float64, n)
	for i := range n {
		out[i] = make([]float64, m)
		for c := range m {
			out[i][c] = aug[i][n+c] / aug[i][i]
		}
	}
	return out, nil
}
