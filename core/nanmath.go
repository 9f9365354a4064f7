package core

import "math"

// NaN is the missing-sample sentinel used by every frame-based container.
var NaN = math.NaN()

// IsMissing reports whether v is the missing-sample sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// NanSum sums the non-missing values. An all-missing input sums to 0.
func NanSum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

// NanMean averages the non-missing values. An all-missing input yields NaN.
func NanMean(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// NanMax returns the largest non-missing value, or NaN if there is none.
func NanMax(values []float64) float64 {
	best := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(best) || v > best {
			best = v
		}
	}
	return best
}

// NanMin returns the smallest non-missing value, or NaN if there is none.
func NanMin(values []float64) float64 {
	best := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(best) || v < best {
			best = v
		}
	}
	return best
}

// NanCumSum returns the running sum treating missing values as zero.
func NanCumSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		if !math.IsNaN(v) {
			sum += v
		}
		out[i] = sum
	}
	return out
}

// CountMissing returns how many values are the missing sentinel.
func CountMissing(values []float64) int {
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
