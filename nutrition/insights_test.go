package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func codes(r MealReport) []string {
	out := make([]string, len(r.Insights))
	for i, in := range r.Insights {
		out[i] = in.Code
	}
	return out
}

func TestMealInsights_EmptyMeal(t *testing.T) {
	r := MealInsights(EmptyProfile())

	assert.Equal(t, []string{"fiber_low", "micronutrients_low"}, codes(r))
	assert.Equal(t, 90, r.Score)
	assert.Equal(t, "Low in: Vitamin A, Vitamin C, Vitamin D, Calcium, Iron", r.Messages()[1])
}

func TestMealInsights_HeavyMeal(t *testing.T) {
	p := NutrientProfile{
		Calories: 1200,
		Proteins: 30,
		Carbs:    50,
		Fats:     80,
		Fiber:    2,
		Sugar:    35,
		Sodium:   1800,
		Vitamins: map[string]float64{"A": 500, "C": 40, "D": 12},
		Minerals: map[string]float64{"calcium": 300, "iron": 5},
	}
	r := MealInsights(p)

	assert.Equal(t, []string{"calories_high", "protein_low", "carbs_low", "fat_high", "fiber_low", "sugar_high", "sodium_high"}, codes(r))
	assert.Equal(t, 45, r.Score)
	assert.Len(t, r.Recommendations(), len(r.Insights))
}

func TestMealInsights_BalancedMeal(t *testing.T) {
	p := NutrientProfile{
		Calories: 600,
		Proteins: 40,
		Carbs:    70,
		Fats:     17,
		Fiber:    9,
		Sugar:    8,
		Sodium:   500,
		Vitamins: map[string]float64{"A": 800, "C": 60, "D": 11},
		Minerals: map[string]float64{"calcium": 250, "iron": 4},
	}
	r := MealInsights(p)

	assert.Empty(t, r.Insights)
	assert.Equal(t, 100, r.Score)
}

func TestMealInsights_ScoreNeverNegative(t *testing.T) {
	p := NutrientProfile{Calories: 5000, Proteins: 10, Carbs: 10, Fats: 500, Sugar: 300, Sodium: 9000}
	r := MealInsights(p)
	assert.GreaterOrEqual(t, r.Score, 0)
}
