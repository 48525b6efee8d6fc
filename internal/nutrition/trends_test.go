package nutrition

import (
	"testing"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weight(v float64) *float64 { return &v }

func TestAggregateTrends_Empty(t *testing.T) {
	report := AggregateTrends(nil)
	assert.Equal(t, 0, report.Days)
	assert.Empty(t, report.Points)
	assert.Nil(t, report.LatestWeightKG)
}

func TestAggregateTrends_OrdersAndAverages(t *testing.T) {
	targets := models.Macros{Calories: 2000}
	day := func(date string, kcal int, glasses int, w *float64) models.DailyPlan {
		meal := models.Meal{ID: "lunch", Foods: []models.FoodItem{{ID: "x", Calories: kcal, Consumed: true}}}
		meal.RefreshCompleted()
		return models.DailyPlan{
			Date:      date,
			Meals:     []models.Meal{meal},
			Hydration: models.Hydration{Glasses: glasses, Target: 8},
			Metrics:   models.Metrics{WeightKG: w, EnergyLevel: 6, Steps: 1000},
			Targets:   targets,
		}
	}

	report := AggregateTrends([]models.DailyPlan{
		day("2026-10-03", 1000, 4, weight(79.5)),
		day("2026-10-01", 2000, 8, weight(80)),
		day("2026-10-02", 1500, 6, nil),
	})

	require.Len(t, report.Points, 3)
	assert.Equal(t, "2026-10-01", report.Points[0].Date)
	assert.Equal(t, "2026-10-03", report.Points[2].Date)
	assert.InDelta(t, 1500, report.AverageCalories, 1e-9)
	assert.InDelta(t, 75, report.AverageCompletion, 1e-9)
	assert.InDelta(t, 6, report.AverageHydration, 1e-9)
	assert.InDelta(t, 1000, report.AverageSteps, 1e-9)
	assert.Equal(t, 3, report.TotalMealsComplete)
	require.NotNil(t, report.LatestWeightKG)
	assert.Equal(t, 79.5, *report.LatestWeightKG)
	require.NotNil(t, report.WeightChangeKG)
	assert.InDelta(t, -0.5, *report.WeightChangeKG, 1e-9)
}
