package nutrition

import "strconv"

// PortionedFood pairs a detected food with its estimated portion.
type PortionedFood struct {
	Food    DetectedFood
	Portion float64
}

// EstimatedItem is a detected food with its portion and scaled nutrients.
type EstimatedItem struct {
	DetectedFood
	Portion      float64         `json:"portion"`
	PortionLabel string          `json:"portion_label"`
	Nutrients    NutrientProfile `json:"nutrients"`
}

// FormatPortion renders grams the way portions are shown to users, e.g. "150g".
func FormatPortion(grams float64) string {
	return strconv.FormatFloat(grams, 'f', -1, 64) + "g"
}

// Aggregator scales reference profiles and sums them into meal totals.
type Aggregator struct {
	table *Table
}

func NewAggregator(t *Table) *Aggregator {
	return &Aggregator{table: t}
}

// Aggregate scales each food's profile by portion/100, rounding per field, and
// sums the results. Foods missing from the table and non-positive portions are
// skipped.
func (a *Aggregator) Aggregate(items []PortionedFood) (NutrientProfile, []EstimatedItem) {
	total := EmptyProfile()
	out := make([]EstimatedItem, 0, len(items))

	for _, it := range items {
		if it.Portion <= 0 {
			continue
		}
		ref, ok := a.table.Lookup(it.Food.Name)
		if !ok {
			continue
		}
		scaled := ref.Profile.Scale(it.Portion)
		total = total.Add(scaled)
		out = append(out, EstimatedItem{
			DetectedFood: it.Food,
			Portion:      it.Portion,
			PortionLabel: FormatPortion(it.Portion),
			Nutrients:    scaled,
		})
	}
	return total, out
}
