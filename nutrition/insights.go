package nutrition

import (
	"strings"
)

type Severity string

const (
	Info    Severity = "info"
	Caution Severity = "caution"
	High    Severity = "high"
)

// Insight is one finding about a meal's macro balance.
type Insight struct {
	Code           string   `json:"code"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

// MealReport is the per-meal balance assessment.
type MealReport struct {
	Score    int       `json:"score"`
	Insights []Insight `json:"insights"`
}

// Messages returns the insight messages in order.
func (r MealReport) Messages() []string {
	out := make([]string, len(r.Insights))
	for i, in := range r.Insights {
		out[i] = in.Message
	}
	return out
}

// Recommendations returns the recommendation for each insight in order.
func (r MealReport) Recommendations() []string {
	out := make([]string, len(r.Insights))
	for i, in := range r.Insights {
		out[i] = in.Recommendation
	}
	return out
}

// MealInsights rates a single meal's composition, starting from 100 and
// deducting for each rule that fires. Share-of-calorie rules are skipped for
// meals without calories.
func MealInsights(p NutrientProfile) MealReport {
	r := MealReport{Score: 100, Insights: []Insight{}}
	flag := func(code string, sev Severity, msg, rec string, penalty int) {
		r.Insights = append(r.Insights, Insight{Code: code, Severity: sev, Message: msg, Recommendation: rec})
		r.Score -= penalty
	}

	if p.Calories > 800 {
		flag("calories_high", Caution, "High calorie meal", "Consider reducing portion size", 10)
	}

	if p.Calories > 0 {
		protein := p.Proteins * 4 / p.Calories * 100
		switch {
		case protein < 15:
			flag("protein_low", Info, "Low protein content", "Add a protein source to your meal", 5)
		case protein > 40:
			flag("protein_high", Info, "Very high protein content", "Consider adding more carbohydrates for balance", 5)
		}

		carbs := p.Carbs * 4 / p.Calories * 100
		switch {
		case carbs < 20:
			flag("carbs_low", Info, "Low carbohydrate content", "Add complex carbohydrates for energy", 5)
		case carbs > 60:
			flag("carbs_high", Info, "High carbohydrate content", "Consider reducing carb portion", 5)
		}

		if p.Fats*9/p.Calories*100 > 35 {
			flag("fat_high", Caution, "High fat content", "Consider choosing leaner options", 10)
		}
	}

	if p.Fiber < 5 {
		flag("fiber_low", Info, "Low fiber content", "Add more vegetables or whole grains", 5)
	}
	if p.Sugar > 20 {
		flag("sugar_high", Caution, "High sugar content", "Consider reducing added sugars", 10)
	}
	if p.Sodium > 1000 {
		flag("sodium_high", High, "High sodium content", "Consider reducing salt intake", 10)
	}

	var low []string
	if p.Vitamin("A") < 10 {
		low = append(low, "Vitamin A")
	}
	if p.Vitamin("C") < 10 {
		low = append(low, "Vitamin C")
	}
	if p.Vitamin("D") < 10 {
		low = append(low, "Vitamin D")
	}
	if p.Mineral("calcium") < 100 {
		low = append(low, "Calcium")
	}
	if p.Mineral("iron") < 2 {
		low = append(low, "Iron")
	}
	if len(low) > 0 {
		flag("micronutrients_low", Info, "Low in: "+strings.Join(low, ", "), "Consider adding foods rich in these nutrients", 5)
	}

	r.Score = clampScore(r.Score)
	return r
}
