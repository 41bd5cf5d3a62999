package nutrition

import "math"

const (
	minSizeFactor = 0.5
	maxSizeFactor = 1.5
)

// PortionEstimator turns a detection into an estimated portion in grams.
type PortionEstimator struct {
	table *Table
}

func NewPortionEstimator(t *Table) *PortionEstimator {
	return &PortionEstimator{table: t}
}

// BasePortion returns the typical serving for food, DefaultBasePortion when unknown.
func (e *PortionEstimator) BasePortion(food string) float64 {
	if f, ok := e.table.Lookup(food); ok {
		return f.BasePortion
	}
	return DefaultBasePortion
}

// Estimate scales the base portion by 0.5+0.5*confidence and, when size
// signals are present, by clamp(mean(area)*2, 0.5, 1.5). The result is rounded
// to a whole gram and never drops below one.
func (e *PortionEstimator) Estimate(food string, confidence float64, sizeSignals []float64) float64 {
	confidence = math.Max(0, math.Min(1, confidence))
	mult := 0.5 + 0.5*confidence

	if len(sizeSignals) > 0 {
		var sum float64
		for _, a := range sizeSignals {
			sum += a
		}
		mult *= SizeFactor(sum / float64(len(sizeSignals)))
	}

	return math.Max(1, math.Round(e.BasePortion(food)*mult))
}

// SizeFactor maps a mean normalized area to a portion multiplier.
func SizeFactor(area float64) float64 {
	return math.Min(math.Max(area*2, minSizeFactor), maxSizeFactor)
}
