package fx

// drawEpsilon is the opacity below which an entity is not drawn.
const drawEpsilon = 0.01

// Approach moves current towards target by factor k (exponential smoothing).
func Approach(current, target, k float64) float64 {
	return current + (target-current)*k
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp returns a value in [lo, hi) for r in [0,1).
func lerp(lo, hi, r float64) float64 {
	return lo + (hi-lo)*r
}
