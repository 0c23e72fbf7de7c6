package control

import (
	"math"

	"go-synthctl/synth"
)

// unit clamps a normalized coordinate to [0,1]. NaN becomes 0.
func unit(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return max(min(n, 1), 0)
}

// ScaleContinuous maps normalized in [0,1] linearly onto r. Inputs outside
// [0,1] are clamped first, so the result is always within r, and both ends
// map exactly onto r.Min and r.Max.
func ScaleContinuous(normalized float64, r synth.Range) float64 {
	n := unit(normalized)
	return r.Clamp((1-n)*r.Min + n*r.Max)
}

// ScaleDiscrete maps normalized in [0,1] onto r as r.Min plus the floor of
// the scaled span. Only normalized == 1 reaches r.Max.
func ScaleDiscrete(normalized float64, r synth.IntRange) int {
	return r.Clamp(r.Min + int(math.Floor(unit(normalized)*float64(r.Span()))))
}

// AccumulateContinuous adds a normalized delta scaled to r onto old and
// clamps the result.
func AccumulateContinuous(old, delta float64, r synth.Range) float64 {
	if math.IsNaN(delta) {
		return r.Clamp(old)
	}
	return r.Clamp(old + delta*r.Span())
}

// AccumulateDiscrete adds a normalized delta scaled to r onto old. The
// fractional part of the step is returned as carry and must be passed back
// with the next delta, so slow motion still moves the value. Motion past a
// bound is not banked.
func AccumulateDiscrete(old int, delta, carry float64, r synth.IntRange) (value int, newCarry float64) {
	if math.IsNaN(delta) || math.IsNaN(carry) {
		return r.Clamp(old), 0
	}
	limit := float64(r.Span() + 1)
	step := max(min(delta*float64(r.Span())+carry, limit), -limit)
	whole := math.Trunc(step)
	value = r.Clamp(old) + int(whole)
	if clamped := r.Clamp(value); clamped != value {
		return clamped, 0
	}
	return value, step - whole
}
