package nutrition

import (
	"math"
	"time"
)

// DefaultTrendWindow is the number of trailing days in a trend report.
const DefaultTrendWindow = 7

// TrendNutrients are the nutrients tracked on the dashboard by default.
var TrendNutrients = []string{"Protein", "Fiber", "Calcium", "Iron"}

var nutrientUnits = map[string]string{
	"Protein": "g", "Fiber": "g", "Calcium": "mg", "Iron": "mg", "Vitamin C": "mg",
	"Vitamin D": "mcg", "Vitamin B12": "mcg", "Magnesium": "mg", "Potassium": "mg", "Omega-3": "g",
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

type Status string

const (
	Low      Status = "low"
	Adequate Status = "adequate"
	Excess   Status = "high"
)

// DayTotals are the summed nutrients of every meal on one local calendar day.
type DayTotals struct {
	Date      time.Time       `json:"date"`
	MealCount int             `json:"meal_count"`
	Nutrients NutrientProfile `json:"nutrients"`
	Calories  float64         `json:"calories"`
}

// NutrientTrend summarises one nutrient across the window.
type NutrientTrend struct {
	Nutrient  string    `json:"nutrient"`
	Unit      string    `json:"unit"`
	Values    []float64 `json:"values"`
	Average   float64   `json:"average"`
	Target    float64   `json:"target"`
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
	Status    Status    `json:"status"`
}

type TrendReport struct {
	Days      []DayTotals     `json:"days"`
	Nutrients []NutrientTrend `json:"nutrients"`
}

// Trends buckets history by local day (in now's location) over the trailing
// window ending today and classifies the default tracked nutrients.
func Trends(history []AnalysisResult, targets DailyTargets, window int, now time.Time) TrendReport {
	return TrendsFor(history, targets, window, now, TrendNutrients)
}

// TrendsFor is Trends over an explicit set of checklist nutrients. Unknown
// names are ignored.
func TrendsFor(history []AnalysisResult, targets DailyTargets, window int, now time.Time, nutrients []string) TrendReport {
	days := DailyTotals(history, window, now)

	report := TrendReport{Days: days, Nutrients: []NutrientTrend{}}
	for _, name := range nutrients {
		n, ok := checkedByName(name)
		if !ok {
			continue
		}
		values := make([]float64, len(days))
		var sum float64
		for i, d := range days {
			values[i] = n.Total(d.Nutrients)
			sum += values[i]
		}
		avg := sum / float64(len(values))
		target := n.Target(targets)
		pct := avg / target * 100

		report.Nutrients = append(report.Nutrients, NutrientTrend{
			Nutrient:  name,
			Unit:      nutrientUnits[name],
			Values:    values,
			Average:   round1(avg),
			Target:    target,
			Percent:   math.Round(pct),
			Direction: TrendDirection(values),
			Status:    statusFor(pct),
		})
	}
	return report
}

// DailyTotals sums history per local calendar day for the trailing window
// ending on now's day. Days without meals are present with zero totals.
func DailyTotals(history []AnalysisResult, window int, now time.Time) []DayTotals {
	if window <= 0 {
		window = DefaultTrendWindow
	}
	loc := now.Location()
	today := dayStart(now)
	first := today.AddDate(0, 0, -(window - 1))

	days := make([]DayTotals, window)
	for i := range days {
		days[i] = DayTotals{Date: first.AddDate(0, 0, i), Nutrients: EmptyProfile()}
	}

	for _, a := range history {
		d := dayStart(a.Timestamp.In(loc))
		if d.Before(first) || d.After(today) {
			continue
		}
		i := daysBetween(first, d)
		if i < 0 || i >= window {
			continue
		}
		days[i].MealCount++
		days[i].Nutrients = days[i].Nutrients.Add(a.Nutrients)
		days[i].Calories += a.Calories
	}
	return days
}

// TrendDirection compares the mean of the last three values with the mean of
// the earlier ones: up above 110%, down below 90%, flat otherwise.
func TrendDirection(values []float64) Direction {
	if len(values) < 2 {
		return Flat
	}
	split := len(values) - 3
	if split < 0 {
		split = 0
	}
	recent := sum(values[split:]) / 3
	earlier := sum(values[:split]) / math.Max(1, float64(len(values)-3))

	switch {
	case recent > earlier*1.1:
		return Up
	case recent < earlier*0.9:
		return Down
	default:
		return Flat
	}
}

func statusFor(pct float64) Status {
	switch {
	case pct < DeficiencyThreshold*100:
		return Low
	case pct > 130:
		return Excess
	default:
		return Adequate
	}
}

func checkedByName(name string) (checkedNutrient, bool) {
	for _, n := range checklist {
		if n.Name == name {
			return n, true
		}
	}
	return checkedNutrient{}, false
}

func sum(vs []float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, tolerating DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
