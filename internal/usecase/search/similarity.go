package search

import "math"

// cosine returns (a·b)/(‖a‖·‖b‖) accumulated in float64.
// A zero-norm vector on either side, a length mismatch or a non-finite
// result gives 0. The result is clamped to [-1, 1].
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(score), math.IsInf(score, 0):
		return 0
	case score > 1:
		return 1
	case score < -1:
		return -1
	}
	return score
}
