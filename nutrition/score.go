package nutrition

import "math"

// DeficiencyThreshold is the share of a target below which a nutrient is deficient.
const DeficiencyThreshold = 0.7

type checkedNutrient struct {
	Name   string
	Total  func(NutrientProfile) float64
	Target func(DailyTargets) float64
}

// checklist is the fixed set of nutrients scored and checked for deficiency.
// Calories, carbs and fat are balance concerns and are not part of it.
var checklist = []checkedNutrient{
	{"Protein", func(p NutrientProfile) float64 { return p.Proteins }, func(t DailyTargets) float64 { return t.Protein }},
	{"Fiber", func(p NutrientProfile) float64 { return p.Fiber }, func(t DailyTargets) float64 { return t.Fiber }},
	{"Calcium", func(p NutrientProfile) float64 { return p.Mineral("calcium") }, func(t DailyTargets) float64 { return t.Calcium }},
	{"Iron", func(p NutrientProfile) float64 { return p.Mineral("iron") }, func(t DailyTargets) float64 { return t.Iron }},
	{"Vitamin C", func(p NutrientProfile) float64 { return p.Vitamin("C") }, func(t DailyTargets) float64 { return t.VitaminC }},
	{"Vitamin D", func(p NutrientProfile) float64 { return p.Vitamin("D") }, func(t DailyTargets) float64 { return t.VitaminD }},
	{"Vitamin B12", func(p NutrientProfile) float64 { return p.Vitamin("B12") }, func(t DailyTargets) float64 { return t.VitaminB12 }},
	{"Magnesium", func(p NutrientProfile) float64 { return p.Mineral("magnesium") }, func(t DailyTargets) float64 { return t.Magnesium }},
	{"Potassium", func(p NutrientProfile) float64 { return p.Potassium }, func(t DailyTargets) float64 { return t.Potassium }},
	{"Omega-3", func(p NutrientProfile) float64 { return p.Omega3 }, func(t DailyTargets) float64 { return t.Omega3 }},
}

var suggestions = map[string]string{
	"Protein":     "Add lean meats, fish, eggs, legumes, or Greek yogurt",
	"Fiber":       "Include more whole grains, fruits, vegetables, and legumes",
	"Calcium":     "Add dairy products, leafy greens, or fortified plant milks",
	"Iron":        "Include red meat, spinach, lentils, or fortified cereals",
	"Vitamin C":   "Add citrus fruits, berries, bell peppers, or broccoli",
	"Vitamin D":   "Consider fortified foods, fatty fish, or sun exposure",
	"Vitamin B12": "Include meat, fish, dairy, or fortified plant foods",
	"Magnesium":   "Add nuts, seeds, whole grains, or dark leafy greens",
	"Potassium":   "Include bananas, potatoes, beans, or avocados",
	"Omega-3":     "Add fatty fish, walnuts, flaxseeds, or chia seeds",
}

// CheckedNutrients returns the names of the scored nutrients in checklist order.
func CheckedNutrients() []string {
	out := make([]string, len(checklist))
	for i, n := range checklist {
		out[i] = n.Name
	}
	return out
}

// Evaluation is the comparison of nutrient totals against targets.
// Suggestions[i] belongs to Deficiencies[i].
type Evaluation struct {
	Deficiencies []string `json:"deficiencies"`
	Suggestions  []string `json:"suggestions"`
	Score        int      `json:"balanced_plate_score"`
}

// Evaluate flags nutrients under DeficiencyThreshold of their target, pairs each
// with a food suggestion and computes the balanced-plate score: the rounded mean
// of per-nutrient percentages capped at 100.
func Evaluate(totals NutrientProfile, targets DailyTargets) Evaluation {
	ev := Evaluation{Deficiencies: []string{}, Suggestions: []string{}}

	var sum float64
	for _, n := range checklist {
		got, want := n.Total(totals), n.Target(targets)
		if got < want*DeficiencyThreshold {
			ev.Deficiencies = append(ev.Deficiencies, n.Name)
			ev.Suggestions = append(ev.Suggestions, SuggestionFor(n.Name))
		}
		sum += math.Min(100, got/want*100)
	}

	ev.Score = clampScore(int(math.Round(sum / float64(len(checklist)))))
	return ev
}

// SuggestionFor returns the food suggestion for a deficiency, or "" when there is none.
func SuggestionFor(deficiency string) string {
	return suggestions[deficiency]
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
