package nutrition

import (
	"math"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// MacroProgress is consumed grams against the plan target.
type MacroProgress struct {
	Current float64 `json:"current"`
	Target  int     `json:"target"`
}

// Summary is the read-only projection of a DailyPlan shown on the dashboard.
type Summary struct {
	Date                 string        `json:"date"`
	TotalCalories        int           `json:"total_calories"`
	TargetCalories       int           `json:"target_calories"`
	Protein              MacroProgress `json:"protein"`
	Carbs                MacroProgress `json:"carbs"`
	Fat                  MacroProgress `json:"fat"`
	CompletionPercentage int           `json:"completion_percentage"`
	MealsCompleted       int           `json:"meals_completed"`
	MealsTotal           int           `json:"meals_total"`
	HydrationGlasses     int           `json:"hydration_glasses"`
	HydrationTarget      int           `json:"hydration_target"`
}

// ComputeSummary totals the consumed foods of plan against its targets.
func ComputeSummary(plan *models.DailyPlan) Summary {
	s := Summary{
		Date:             plan.Date,
		TargetCalories:   plan.Targets.Calories,
		Protein:          MacroProgress{Target: plan.Targets.ProteinG},
		Carbs:            MacroProgress{Target: plan.Targets.CarbsG},
		Fat:              MacroProgress{Target: plan.Targets.FatG},
		MealsTotal:       len(plan.Meals),
		HydrationGlasses: plan.Hydration.Glasses,
		HydrationTarget:  plan.Hydration.Target,
	}

	for _, meal := range plan.Meals {
		if meal.Completed {
			s.MealsCompleted++
		}
		for _, f := range meal.Foods {
			if !f.Consumed {
				continue
			}
			s.TotalCalories += f.Calories
			s.Protein.Current += f.ProteinG
			s.Carbs.Current += f.CarbsG
			s.Fat.Current += f.FatG
		}
	}

	s.CompletionPercentage = CompletionPercentage(s.TotalCalories, s.TargetCalories)
	return s
}

// CompletionPercentage is round(100 * consumed / target), or 0 without a target.
func CompletionPercentage(consumed, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(consumed) / float64(target)))
}
