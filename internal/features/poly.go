package features

// expandedWidth is the number of degree-2 terms for n inputs without a bias
// column: n linear terms plus n(n+1)/2 products.
func expandedWidth(n int) int {
	return n + n*(n+1)/2
}

// expand returns x followed by every product x[i]*x[j] with i <= j, in
// row-major order over (i, j).
func expand(x []float64) []float64 {
	out := make([]float64, 0, expandedWidth(len(x)))
	out = append(out, x...)
	for i := range x {
		for j := i; j < len(x); j++ {
			out = append(out, x[i]*x[j])
		}
	}
	return out
}
