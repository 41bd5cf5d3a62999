package nutrition

import (
	"fmt"
	"math"
)

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

type Lifestyle string

const (
	Sedentary        Lifestyle = "sedentary"
	LightlyActive    Lifestyle = "lightly_active"
	ModeratelyActive Lifestyle = "moderately_active"
	VeryActive       Lifestyle = "very_active"
	Pregnant         Lifestyle = "pregnant"
	Breastfeeding    Lifestyle = "breastfeeding"
)

// UserProfile drives target computation. Weight (kg) and height (cm) are
// optional and currently unused by ComputeTargets.
type UserProfile struct {
	Age       int       `json:"age"`
	Sex       Sex       `json:"sex"`
	Lifestyle Lifestyle `json:"lifestyle"`
	Weight    *float64  `json:"weight,omitempty"`
	Height    *float64  `json:"height,omitempty"`
}

// Validate checks the enumerated fields. Age zero means unknown.
func (p UserProfile) Validate() error {
	if p.Sex != Male && p.Sex != Female {
		return fmt.Errorf("%w: sex %q", ErrInvalidProfile, p.Sex)
	}
	if _, ok := activityMultipliers[p.Lifestyle]; !ok {
		return fmt.Errorf("%w: lifestyle %q", ErrInvalidProfile, p.Lifestyle)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age %d", ErrInvalidProfile, p.Age)
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidProfile)
	}
	if p.Height != nil && *p.Height <= 0 {
		return fmt.Errorf("%w: height must be positive", ErrInvalidProfile)
	}
	return nil
}

// DailyTargets are personalized daily intake goals.
type DailyTargets struct {
	Calories   float64 `json:"calories"`   // kcal
	Protein    float64 `json:"protein"`    // g
	Carbs      float64 `json:"carbs"`      // g
	Fat        float64 `json:"fat"`        // g
	Fiber      float64 `json:"fiber"`      // g
	Calcium    float64 `json:"calcium"`    // mg
	Iron       float64 `json:"iron"`       // mg
	VitaminC   float64 `json:"vitaminC"`   // mg
	VitaminD   float64 `json:"vitaminD"`   // mcg
	VitaminB12 float64 `json:"vitaminB12"` // mcg
	Magnesium  float64 `json:"magnesium"`  // mg
	Potassium  float64 `json:"potassium"`  // mg
	Omega3     float64 `json:"omega3"`     // g
}

// baseline holds the sex-dependent part of the targets.
type baseline struct {
	Calories, Protein, Iron, VitaminC, Magnesium, Omega3, Fiber float64
}

var sexBaselines = map[Sex]baseline{
	Male:   {Calories: 2500, Protein: 56, Iron: 8, VitaminC: 90, Magnesium: 400, Omega3: 1.6, Fiber: 38},
	Female: {Calories: 2000, Protein: 46, Iron: 18, VitaminC: 75, Magnesium: 310, Omega3: 1.1, Fiber: 25},
}

// Sex-independent baselines.
const (
	baseCalcium    = 1000.0
	baseVitaminD   = 15.0
	baseVitaminB12 = 2.4
	basePotassium  = 3500.0
)

var activityMultipliers = map[Lifestyle]float64{
	Sedentary:        1.0,
	LightlyActive:    1.2,
	ModeratelyActive: 1.4,
	VeryActive:       1.6,
	Pregnant:         1.3,
	Breastfeeding:    1.5,
}

// lifecycleOverride replaces baseline values with absolute amounts; nil fields keep the baseline.
type lifecycleOverride struct {
	Iron, Calcium, VitaminC, VitaminD, Fiber *float64
}

func amount(v float64) *float64 { return &v }

var lifecycleOverrides = map[Lifestyle]lifecycleOverride{
	Pregnant:      {Iron: amount(27), Calcium: amount(1000), VitaminD: amount(15), Fiber: amount(28)},
	Breastfeeding: {Iron: amount(9), Calcium: amount(1000), VitaminC: amount(120), VitaminD: amount(15)},
}

func init() {
	if err := validateBaselines(); err != nil {
		panic(err)
	}
}

func validateBaselines() error {
	for sex, b := range sexBaselines {
		for _, v := range []float64{b.Calories, b.Protein, b.Iron, b.VitaminC, b.Magnesium, b.Omega3, b.Fiber} {
			if v <= 0 {
				return fmt.Errorf("%w: non-positive baseline for %s", ErrInvalidTable, sex)
			}
		}
	}
	for _, v := range []float64{baseCalcium, baseVitaminD, baseVitaminB12, basePotassium} {
		if v <= 0 {
			return fmt.Errorf("%w: non-positive shared baseline", ErrInvalidTable)
		}
	}
	for ls, m := range activityMultipliers {
		if m <= 0 {
			return fmt.Errorf("%w: non-positive multiplier for %s", ErrInvalidTable, ls)
		}
	}
	for ls, o := range lifecycleOverrides {
		for _, v := range []*float64{o.Iron, o.Calcium, o.VitaminC, o.VitaminD, o.Fiber} {
			if v != nil && *v <= 0 {
				return fmt.Errorf("%w: non-positive override for %s", ErrInvalidTable, ls)
			}
		}
	}
	return nil
}

// ComputeTargets derives daily targets from the profile's sex and lifestyle.
func ComputeTargets(p UserProfile) (DailyTargets, error) {
	if err := p.Validate(); err != nil {
		return DailyTargets{}, err
	}
	b := sexBaselines[p.Sex]
	calories := b.Calories * activityMultipliers[p.Lifestyle]

	t := DailyTargets{
		Calories:   math.Round(calories),
		Protein:    b.Protein,
		Carbs:      math.Round(calories * 0.5 / 4),
		Fat:        math.Round(calories * 0.3 / 9),
		Fiber:      b.Fiber,
		Calcium:    baseCalcium,
		Iron:       b.Iron,
		VitaminC:   b.VitaminC,
		VitaminD:   baseVitaminD,
		VitaminB12: baseVitaminB12,
		Magnesium:  b.Magnesium,
		Potassium:  basePotassium,
		Omega3:     b.Omega3,
	}

	if o, ok := lifecycleOverrides[p.Lifestyle]; ok {
		override(&t.Iron, o.Iron)
		override(&t.Calcium, o.Calcium)
		override(&t.VitaminC, o.VitaminC)
		override(&t.VitaminD, o.VitaminD)
		override(&t.Fiber, o.Fiber)
	}
	return t, nil
}

func override(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
