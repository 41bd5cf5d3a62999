package nutrition

import "time"

// AnalysisResult is the complete assessment of one meal photo.
type AnalysisResult struct {
	ID                 string          `json:"id"`
	Timestamp          time.Time       `json:"timestamp"`
	ImageURL           string          `json:"image_url"`
	MealType           string          `json:"meal_type,omitempty"`
	Items              []EstimatedItem `json:"items"`
	Nutrients          NutrientProfile `json:"nutrients"`
	Calories           float64         `json:"calories"`
	Deficiencies       []string        `json:"deficiencies"`
	Suggestions        []string        `json:"suggestions"`
	BalancedPlateScore int             `json:"balanced_plate_score"`
	Report             MealReport      `json:"report"`
	Unresolved         []string        `json:"unresolved_labels,omitempty"`
}

// Meta carries the identity fields the caller assigns to an analysis.
type Meta struct {
	ID        string
	Timestamp time.Time
	ImageURL  string
	MealType  string
}

// Analyzer runs resolution, portion estimation, aggregation and scoring.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	table      *Table
	resolver   *Resolver
	portions   *PortionEstimator
	aggregator *Aggregator
}

func NewAnalyzer(t *Table) *Analyzer {
	return &Analyzer{
		table:      t,
		resolver:   NewResolver(t),
		portions:   NewPortionEstimator(t),
		aggregator: NewAggregator(t),
	}
}

// Table returns the reference table the analyzer was built with.
func (a *Analyzer) Table() *Table { return a.table }

// Estimate resolves a recognition output and returns meal totals and items.
func (a *Analyzer) Estimate(out RecognitionOutput) (NutrientProfile, []EstimatedItem, Detection) {
	det := a.resolver.Detect(out)

	portioned := make([]PortionedFood, 0, len(det.Foods))
	for _, f := range det.Foods {
		portioned = append(portioned, PortionedFood{
			Food:    f,
			Portion: a.portions.Estimate(f.Name, f.Confidence, det.SizeSignals),
		})
	}

	total, items := a.aggregator.Aggregate(portioned)
	return total, items, det
}

// Analyze builds a full AnalysisResult for out against targets.
func (a *Analyzer) Analyze(out RecognitionOutput, targets DailyTargets, meta Meta) AnalysisResult {
	total, items, det := a.Estimate(out)
	ev := Evaluate(total, targets)

	return AnalysisResult{
		ID:                 meta.ID,
		Timestamp:          meta.Timestamp,
		ImageURL:           meta.ImageURL,
		MealType:           meta.MealType,
		Items:              items,
		Nutrients:          total,
		Calories:           total.Calories,
		Deficiencies:       ev.Deficiencies,
		Suggestions:        ev.Suggestions,
		BalancedPlateScore: ev.Score,
		Report:             MealInsights(total),
		Unresolved:         det.Unresolved,
	}
}
