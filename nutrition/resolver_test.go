package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(DefaultTable())

	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"chicken breast", "chicken breast", true},
		{"  Chicken Breast ", "chicken breast", true},
		{"grilled chicken", "chicken", true},
		{"sweet potato fries", "sweet potato", true},
		{"Potato", "potato", true},
		{"Egg", "eggs", true},
		{"salmon fillet", "salmon", true},
		{"Pizza", "", false},
		{"Food", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := r.Resolve(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ResolveOnlyReturnsTableKeys(t *testing.T) {
	tbl := DefaultTable()
	r := NewResolver(tbl)
	for _, label := range []string{"rice", "brown rice", "milkshake", "cheeseburger", "orange juice", "fish and chips"} {
		name, ok := r.Resolve(label)
		if !ok {
			continue
		}
		_, found := tbl.Lookup(name)
		assert.True(t, found, "resolved %q to %q which is not in the table", label, name)
	}
}

func TestResolver_Detect_DeduplicatesKeepingMaxConfidence(t *testing.T) {
	r := NewResolver(DefaultTable())

	det := r.Detect(RecognitionOutput{
		Labels: []Label{
			{Name: "Rice", Confidence: 0.6},
			{Name: "Pizza", Confidence: 0.8},
			{Name: "Broccoli", Confidence: 0.7},
			{Name: "rice bowl", Confidence: 0.9},
		},
	})

	require.Len(t, det.Foods, 2)
	assert.Equal(t, "rice", det.Foods[0].Name)
	assert.Equal(t, 0.9, det.Foods[0].Confidence)
	assert.Equal(t, "rice bowl", det.Foods[0].Label)
	assert.Equal(t, "broccoli", det.Foods[1].Name)
	assert.Equal(t, []string{"Pizza"}, det.Unresolved)
	assert.Empty(t, det.SizeSignals)
}

func TestResolver_Detect_ObjectsProduceSizeSignals(t *testing.T) {
	r := NewResolver(DefaultTable())

	det := r.Detect(RecognitionOutput{
		Objects: []DetectedObject{
			{Name: "Salmon", Confidence: 0.8, BoundingBox: BoundingBox{Width: 0.5, Height: 0.4}},
			{Name: "Plate", Confidence: 0.9, BoundingBox: BoundingBox{Width: 1, Height: 1}},
			{Name: "Broccoli", Confidence: 0.4, BoundingBox: BoundingBox{Width: 0.2, Height: 0.2}},
		},
	})

	require.Len(t, det.Foods, 2)
	require.NotNil(t, det.Foods[0].BoxArea)
	assert.InDelta(t, 0.2, *det.Foods[0].BoxArea, 1e-9)
	// low-confidence objects are still resolved but do not feed size signals
	assert.InDeltaSlice(t, []float64{0.2, 1.0}, det.SizeSignals, 1e-9)
	assert.Equal(t, []string{"Plate"}, det.Unresolved)
}

func TestResolver_Detect_TextKeywords(t *testing.T) {
	r := NewResolver(DefaultTable())

	det := r.Detect(RecognitionOutput{
		Text: []TextSnippet{
			{Text: "Eggs 2 servings", Confidence: 0.8},
			{Text: "Yogurt 150 gram", Confidence: 0.5},
			{Text: "rice", Confidence: 0.9},
		},
	})

	require.Len(t, det.Foods, 1)
	assert.Equal(t, "eggs", det.Foods[0].Name)
	assert.Equal(t, 0.8, det.Foods[0].Confidence)
	assert.Empty(t, det.Unresolved)
}
