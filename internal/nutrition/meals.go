package nutrition

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
)

// BuildMeals expands the four plan buckets into the five daily meal slots.
// Breakfast, lunch and dinner map one to one. The snacks budget is split
// between mid-morning and the afternoon snack, and snack suggestions
// alternate between the two starting with mid-morning.
func BuildMeals(plan *models.NutritionPlan) []models.Meal {
	byBucket := make(map[models.Bucket]models.SlotAllocation, len(plan.Slots))
	for _, s := range plan.Slots {
		byBucket[s.Bucket] = s
	}

	snacks := byBucket[models.BucketSnacks]
	midBudget, snackBudget := SplitSnacks(snacks.TargetCalories)
	var midFoods, snackFoods []models.FoodItem
	for i, f := range snacks.Suggestions {
		if i%2 == 0 {
			midFoods = append(midFoods, f)
		} else {
			snackFoods = append(snackFoods, f)
		}
	}

	meals := make([]models.Meal, 0, len(models.MealSlots))
	for _, slot := range models.MealSlots {
		var target int
		var foods []models.FoodItem
		switch slot {
		case models.SlotBreakfast:
			target, foods = byBucket[models.BucketBreakfast].TargetCalories, byBucket[models.BucketBreakfast].Suggestions
		case models.SlotMidMorning:
			target, foods = midBudget, midFoods
		case models.SlotLunch:
			target, foods = byBucket[models.BucketLunch].TargetCalories, byBucket[models.BucketLunch].Suggestions
		case models.SlotSnack:
			target, foods = snackBudget, snackFoods
		case models.SlotDinner:
			target, foods = byBucket[models.BucketDinner].TargetCalories, byBucket[models.BucketDinner].Suggestions
		}
		meals = append(meals, models.Meal{
			ID:             slot.Key(),
			Slot:           slot,
			Name:           slot.DisplayName(),
			Time:           slot.ScheduledTime(),
			TargetCalories: target,
			Foods:          freshFoods(foods),
		})
	}
	return meals
}

// freshFoods copies foods with every consumed flag cleared.
func freshFoods(foods []models.FoodItem) []models.FoodItem {
	out := make([]models.FoodItem, len(foods))
	for i, f := range foods {
		f.Consumed = false
		out[i] = f
	}
	return out
}

// DeriveDailyPlan creates the untouched DailyPlan of date from plan.
func DeriveDailyPlan(userID uuid.UUID, date string, plan *models.NutritionPlan, now time.Time) *models.DailyPlan {
	return &models.DailyPlan{
		UserID:          userID,
		Date:            date,
		Meals:           BuildMeals(plan),
		Hydration:       models.Hydration{Glasses: 0, Target: models.HydrationTarget},
		Metrics:         models.Metrics{EnergyLevel: models.DefaultEnergy},
		NutritionPlanID: plan.ID,
		Targets:         plan.Macros,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
