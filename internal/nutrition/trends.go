package nutrition

import (
	"sort"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// TrendPoint is one day in a weekly or monthly chart.
type TrendPoint struct {
	Date                 string   `json:"date"`
	Calories             int      `json:"calories"`
	TargetCalories       int      `json:"target_calories"`
	ProteinG             float64  `json:"protein_g"`
	CarbsG               float64  `json:"carbs_g"`
	FatG                 float64  `json:"fat_g"`
	CompletionPercentage int      `json:"completion_percentage"`
	MealsCompleted       int      `json:"meals_completed"`
	HydrationGlasses     int      `json:"hydration_glasses"`
	WeightKG             *float64 `json:"weight_kg,omitempty"`
	EnergyLevel          int      `json:"energy_level"`
	SleepHours           float64  `json:"sleep_hours"`
	Steps                int      `json:"steps"`
}

// TrendReport aggregates a range of daily plans.
type TrendReport struct {
	Days               int          `json:"days"`
	Points             []TrendPoint `json:"points"`
	AverageCalories    float64      `json:"average_calories"`
	AverageCompletion  float64      `json:"average_completion"`
	AverageHydration   float64      `json:"average_hydration"`
	AverageEnergy      float64      `json:"average_energy"`
	AverageSleepHours  float64      `json:"average_sleep_hours"`
	AverageSteps       float64      `json:"average_steps"`
	LatestWeightKG     *float64     `json:"latest_weight_kg,omitempty"`
	WeightChangeKG     *float64     `json:"weight_change_kg,omitempty"`
	TotalMealsComplete int          `json:"total_meals_completed"`
}

// AggregateTrends builds a chart report from daily plans. Plans are ordered by
// date; days without a plan are simply absent. Nothing is cached: callers
// recompute per request.
func AggregateTrends(plans []models.DailyPlan) TrendReport {
	sorted := make([]models.DailyPlan, len(plans))
	copy(sorted, plans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	report := TrendReport{Days: len(sorted), Points: make([]TrendPoint, 0, len(sorted))}
	if len(sorted) == 0 {
		return report
	}

	var calories, completion, hydration, energy, sleep, steps float64
	var firstWeight *float64
	for i := range sorted {
		p := &sorted[i]
		s := ComputeSummary(p)
		point := TrendPoint{
			Date:                 p.Date,
			Calories:             s.TotalCalories,
			TargetCalories:       s.TargetCalories,
			ProteinG:             s.Protein.Current,
			CarbsG:               s.Carbs.Current,
			FatG:                 s.Fat.Current,
			CompletionPercentage: s.CompletionPercentage,
			MealsCompleted:       s.MealsCompleted,
			HydrationGlasses:     p.Hydration.Glasses,
			WeightKG:             p.Metrics.WeightKG,
			EnergyLevel:          p.Metrics.EnergyLevel,
			SleepHours:           p.Metrics.SleepHours,
			Steps:                p.Metrics.Steps,
		}
		report.Points = append(report.Points, point)

		calories += float64(point.Calories)
		completion += float64(point.CompletionPercentage)
		hydration += float64(point.HydrationGlasses)
		energy += float64(point.EnergyLevel)
		sleep += point.SleepHours
		steps += float64(point.Steps)
		report.TotalMealsComplete += point.MealsCompleted

		if w := p.Metrics.WeightKG; w != nil {
			if firstWeight == nil {
				firstWeight = w
			}
			latest := *w
			report.LatestWeightKG = &latest
		}
	}

	n := float64(len(sorted))
	report.AverageCalories = calories / n
	report.AverageCompletion = completion / n
	report.AverageHydration = hydration / n
	report.AverageEnergy = energy / n
	report.AverageSleepHours = sleep / n
	report.AverageSteps = steps / n

	if firstWeight != nil && report.LatestWeightKG != nil {
		change := *report.LatestWeightKG - *firstWeight
		report.WeightChangeKG = &change
	}
	return report
}
