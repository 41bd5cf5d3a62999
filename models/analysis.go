package models

import (
	"time"

	"github.com/hakimbdev/NutriSnap/nutrition"
)

// Analysis is one persisted meal assessment. Nutrient totals and the insight
// report are stored as JSON documents.
type Analysis struct {
	ID                 string    `gorm:"primaryKey;size:36"`
	UserID             uint      `gorm:"index;not null"`
	TakenAt            time.Time `gorm:"index;not null"`
	ImageURL           string
	MealType           string `gorm:"size:32"`
	Calories           float64
	BalancedPlateScore int
	Nutrients          nutrition.NutrientProfile `gorm:"serializer:json;type:text"`
	Deficiencies       []string                  `gorm:"serializer:json;type:text"`
	Suggestions        []string                  `gorm:"serializer:json;type:text"`
	Report             nutrition.MealReport      `gorm:"serializer:json;type:text"`
	Unresolved         []string                  `gorm:"serializer:json;type:text"`
	Items              []AnalysisItem
	CreatedAt          time.Time
}

// AnalysisItem is one detected food of an analysis.
type AnalysisItem struct {
	ID         uint   `gorm:"primaryKey"`
	AnalysisID string `gorm:"index;size:36;not null"`
	Position   int
	Food       string `gorm:"size:64;not null"`
	Label      string
	Confidence float64
	BoxArea    *float64
	Portion    float64
	Calories   float64
	Nutrients  nutrition.NutrientProfile `gorm:"serializer:json;type:text"`
}
