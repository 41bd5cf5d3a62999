package nutrition

import (
	"math"
	"time"
)

// ReferenceMealsPerDay is the meal count treated as 100% logged.
const ReferenceMealsPerDay = 4

// Progress is today's intake against targets.
type Progress struct {
	Date            time.Time  `json:"date"`
	Calories        float64    `json:"calories"`
	CaloriesTarget  float64    `json:"calories_target"`
	CaloriesPercent float64    `json:"calories_percent"`
	Protein         float64    `json:"protein"`
	ProteinTarget   float64    `json:"protein_target"`
	ProteinPercent  float64    `json:"protein_percent"`
	MealCount       int        `json:"meal_count"`
	MealPercent     float64    `json:"meal_percent"`
	Evaluation      Evaluation `json:"evaluation"`
}

// ProgressToday totals the meals on now's local day and compares them to targets.
func ProgressToday(history []AnalysisResult, targets DailyTargets, now time.Time) Progress {
	day := DailyTotals(history, 1, now)[0]

	return Progress{
		Date:            day.Date,
		Calories:        day.Calories,
		CaloriesTarget:  targets.Calories,
		CaloriesPercent: math.Round(day.Calories / targets.Calories * 100),
		Protein:         day.Nutrients.Proteins,
		ProteinTarget:   targets.Protein,
		ProteinPercent:  math.Round(day.Nutrients.Proteins / targets.Protein * 100),
		MealCount:       day.MealCount,
		MealPercent:     math.Round(float64(day.MealCount) / ReferenceMealsPerDay * 100),
		Evaluation:      Evaluate(day.Nutrients, targets),
	}
}
