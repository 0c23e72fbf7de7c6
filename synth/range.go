package synth

import "math"

// Range is an inclusive interval of a continuous parameter.
type Range struct {
	Min, Max float64
}

// Clamp limits value to the range. NaN clamps to Min.
func (r Range) Clamp(value float64) float64 {
	if math.IsNaN(value) {
		return r.Min
	}
	return max(min(value, r.Max), r.Min)
}

func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// IntRange is an inclusive interval of a discrete parameter.
type IntRange struct {
	Min, Max int
}

func (r IntRange) Clamp(value int) int {
	return max(min(value, r.Max), r.Min)
}

func (r IntRange) Span() int { return r.Max - r.Min }

func (r IntRange) Contains(value int) bool {
	return value >= r.Min && value <= r.Max
}
