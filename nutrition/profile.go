package nutrition

import "math"

// NutrientProfile holds nutrient amounts for a portion of food.
// Reference entries are defined per 100 g; scaled copies describe an actual portion.
type NutrientProfile struct {
	Calories  float64            `json:"calories" yaml:"calories"`   // kcal
	Proteins  float64            `json:"proteins" yaml:"proteins"`   // g
	Carbs     float64            `json:"carbs" yaml:"carbs"`         // g
	Fats      float64            `json:"fats" yaml:"fats"`           // g
	Fiber     float64            `json:"fiber" yaml:"fiber"`         // g
	Sugar     float64            `json:"sugar" yaml:"sugar"`         // g
	Sodium    float64            `json:"sodium" yaml:"sodium"`       // mg
	Potassium float64            `json:"potassium" yaml:"potassium"` // mg
	Omega3    float64            `json:"omega3" yaml:"omega3"`       // g
	Vitamins  map[string]float64 `json:"vitamins" yaml:"vitamins"`
	Minerals  map[string]float64 `json:"minerals" yaml:"minerals"`
}

// Scale multiplies every field by portion/100 and rounds each value to the
// nearest integer independently.
func (p NutrientProfile) Scale(portion float64) NutrientProfile {
	f := portion / 100
	r := func(v float64) float64 { return math.Round(v * f) }

	return NutrientProfile{
		Calories:  r(p.Calories),
		Proteins:  r(p.Proteins),
		Carbs:     r(p.Carbs),
		Fats:      r(p.Fats),
		Fiber:     r(p.Fiber),
		Sugar:     r(p.Sugar),
		Sodium:    r(p.Sodium),
		Potassium: r(p.Potassium),
		Omega3:    r(p.Omega3),
		Vitamins:  scaleMap(p.Vitamins, r),
		Minerals:  scaleMap(p.Minerals, r),
	}
}

// Add returns the field-by-field sum of p and o.
func (p NutrientProfile) Add(o NutrientProfile) NutrientProfile {
	return NutrientProfile{
		Calories:  p.Calories + o.Calories,
		Proteins:  p.Proteins + o.Proteins,
		Carbs:     p.Carbs + o.Carbs,
		Fats:      p.Fats + o.Fats,
		Fiber:     p.Fiber + o.Fiber,
		Sugar:     p.Sugar + o.Sugar,
		Sodium:    p.Sodium + o.Sodium,
		Potassium: p.Potassium + o.Potassium,
		Omega3:    p.Omega3 + o.Omega3,
		Vitamins:  addMap(p.Vitamins, o.Vitamins),
		Minerals:  addMap(p.Minerals, o.Minerals),
	}
}

// Vitamin returns the named vitamin amount, zero when absent.
func (p NutrientProfile) Vitamin(name string) float64 { return p.Vitamins[name] }

// Mineral returns the named mineral amount, zero when absent.
func (p NutrientProfile) Mineral(name string) float64 { return p.Minerals[name] }

// EmptyProfile returns an all-zero profile with initialized maps.
func EmptyProfile() NutrientProfile {
	return NutrientProfile{Vitamins: map[string]float64{}, Minerals: map[string]float64{}}
}

func (p NutrientProfile) clone() NutrientProfile {
	c := p
	c.Vitamins = scaleMap(p.Vitamins, func(v float64) float64 { return v })
	c.Minerals = scaleMap(p.Minerals, func(v float64) float64 { return v })
	return c
}

func (p NutrientProfile) validate() bool {
	for _, v := range []float64{p.Calories, p.Proteins, p.Carbs, p.Fats, p.Fiber, p.Sugar, p.Sodium, p.Potassium, p.Omega3} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, m := range []map[string]float64{p.Vitamins, p.Minerals} {
		for _, v := range m {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func scaleMap(m map[string]float64, fn func(float64) float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = fn(v)
	}
	return out
}

func addMap(a, b map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}
