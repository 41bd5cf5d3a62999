package nutrition

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer(DefaultTable())
	targets, err := ComputeTargets(UserProfile{Sex: Male, Lifestyle: Sedentary})
	require.NoError(t, err)

	ts := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	meta := Meta{ID: "a-1", Timestamp: ts, ImageURL: "https://img/1.jpg", MealType: "lunch"}

	res := a.Analyze(RecognitionOutput{
		Labels: []Label{
			{Name: "Chicken Breast", Confidence: 1.0},
			{Name: "rice", Confidence: 0.5},
			{Name: "Tableware", Confidence: 0.9},
		},
	}, targets, meta)

	assert.Equal(t, "a-1", res.ID)
	assert.Equal(t, ts, res.Timestamp)
	assert.Equal(t, "https://img/1.jpg", res.ImageURL)
	assert.Equal(t, "lunch", res.MealType)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "chicken breast", res.Items[0].Name)
	assert.Equal(t, 150.0, res.Items[0].Portion)
	assert.Equal(t, "rice", res.Items[1].Name)
	assert.Equal(t, 75.0, res.Items[1].Portion)

	body, err := json.Marshal(res.Items[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"portion_label":"150g"`)

	assert.Equal(t, 346.0, res.Calories)
	assert.Equal(t, res.Nutrients.Calories, res.Calories)
	assert.Equal(t, []string{"Tableware"}, res.Unresolved)

	require.Len(t, res.Suggestions, len(res.Deficiencies))
	for i, d := range res.Deficiencies {
		assert.Equal(t, SuggestionFor(d), res.Suggestions[i])
	}
	assert.Equal(t, Evaluate(res.Nutrients, targets).Score, res.BalancedPlateScore)
	assert.Equal(t, MealInsights(res.Nutrients), res.Report)
}

func TestAnalyzer_NothingRecognized(t *testing.T) {
	a := NewAnalyzer(DefaultTable())
	targets, err := ComputeTargets(UserProfile{Sex: Female, Lifestyle: ModeratelyActive})
	require.NoError(t, err)

	res := a.Analyze(RecognitionOutput{}, targets, Meta{ID: "empty"})

	assert.Empty(t, res.Items)
	assert.Equal(t, 0.0, res.Calories)
	assert.Equal(t, 0, res.BalancedPlateScore)
	assert.Equal(t, CheckedNutrients(), res.Deficiencies)
}

func TestAnalyzer_SizeSignalsScalePortions(t *testing.T) {
	a := NewAnalyzer(DefaultTable())

	// mean area 0.6 gives a factor of 1.2 on banana's 120g base
	_, items, det := a.Estimate(RecognitionOutput{
		Objects: []DetectedObject{
			{Name: "banana", Confidence: 1.0, BoundingBox: BoundingBox{Width: 0.8, Height: 1.0}},
			{Name: "Plate", Confidence: 0.9, BoundingBox: BoundingBox{Width: 0.4, Height: 1.0}},
		},
	})

	require.Len(t, items, 1)
	assert.Len(t, det.SizeSignals, 2)
	assert.Equal(t, 144.0, items[0].Portion)
	assert.Equal(t, []string{"Plate"}, det.Unresolved)
}
