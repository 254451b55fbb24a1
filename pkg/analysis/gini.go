package analysis

import "errors"

// ErrInvalidDistribution is returned by [Gini] when the input distribution
// is degenerate: more than one value but a mean of zero, which would divide
// by zero. Callers see this as a typed failure instead of a silent NaN.
var ErrInvalidDistribution = errors.New("invalid distribution: zero mean")

// Gini computes the Gini coefficient of a distribution of non-negative
// values. The coefficient measures inequality: 0 means perfect equality,
// values approaching 1 mean maximum inequality.
//
// The result is the sum of absolute pairwise differences divided by
// n² times the mean, which stays in [0, 1) for non-negative inputs.
// Distributions of length 0 or 1 are perfectly equal and return 0.
func Gini(values []float64) (float64, error) {
	n := len(values)
	if n <= 1 {
		return 0, nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if mean == 0 {
		return 0, ErrInvalidDistribution
	}

	var diffsum float64
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			d := values[i] - values[j]
			if d < 0 {
				d = -d
			}
			diffsum += d
		}
	}

	return diffsum / (float64(n*n) * mean), nil
}
