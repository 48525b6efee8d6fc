// Package nutrition holds the pure computations behind a nutrition plan:
// energy expenditure, macro split, meal budgets and the read-only
// projections over daily tracking data.
package nutrition

import (
	"math"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// Also used by the profile service to validate input.
var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

const (
	// MaxRoundingDriftKcal bounds |protein*4 + fat*9 + carbs*4 - calories|:
	// half a gram of error on each macro.
	MaxRoundingDriftKcal = 0.5 * (kcalPerGramProtein + kcalPerGramFat + kcalPerGramCarbs)

	// GoalAdjustment is the fixed daily surplus/deficit, roughly 0.45 kg per week.
	GoalAdjustment = 500

	proteinShare = 0.25
	fatShare     = 0.30
	carbsShare   = 0.45

	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarbs   = 4
)

// Biometrics are the calculator inputs taken from a questionnaire.
type Biometrics struct {
	Age           int
	Sex           models.Sex
	HeightCM      float64
	WeightKG      float64
	ActivityLevel models.ActivityLevel
	Goal          models.Goal
}

// BiometricsFrom extracts the calculator inputs from questionnaire answers.
func BiometricsFrom(a *models.QuestionnaireAnswers) Biometrics {
	return Biometrics{
		Age:           a.Age,
		Sex:           a.Sex,
		HeightCM:      a.HeightCM,
		WeightKG:      a.WeightKG,
		ActivityLevel: a.ActivityLevel,
		Goal:          a.Goal,
	}
}

// Validate checks the numeric inputs. Enum values are never rejected.
func (b Biometrics) Validate() error {
	switch {
	case b.Age <= 0:
		return &InvalidInputError{Field: "age", Message: "must be positive"}
	case b.HeightCM <= 0 || math.IsNaN(b.HeightCM) || math.IsInf(b.HeightCM, 0):
		return &InvalidInputError{Field: "height_cm", Message: "must be positive"}
	case b.WeightKG <= 0 || math.IsNaN(b.WeightKG) || math.IsInf(b.WeightKG, 0):
		return &InvalidInputError{Field: "weight_kg", Message: "must be positive"}
	}
	return nil
}

// KnownActivityLevel reports whether level has its own multiplier.
func KnownActivityLevel(level models.ActivityLevel) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// ActivityMultiplier returns the TDEE multiplier for level. Unknown levels
// fall back to moderate.
func ActivityMultiplier(level models.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[models.ActivityModerate]
}

// BMR computes basal metabolic rate with Mifflin-St Jeor.
func BMR(b Biometrics) float64 {
	bmr := 10*b.WeightKG + 6.25*b.HeightCM - 5*float64(b.Age)
	if b.Sex == models.SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE is BMR scaled by the activity multiplier.
func TDEE(b Biometrics) float64 {
	return BMR(b) * ActivityMultiplier(b.ActivityLevel)
}

// TargetCalories applies the goal adjustment to TDEE. Unrecognised goals maintain.
func TargetCalories(b Biometrics) float64 {
	tdee := TDEE(b)
	switch b.Goal {
	case models.GoalLoseWeight:
		return tdee - GoalAdjustment
	case models.GoalGainWeight:
		return tdee + GoalAdjustment
	default:
		return tdee
	}
}

// CalculateMacros turns biometric inputs into daily calorie and macro targets.
// Grams are derived from the rounded calorie target and rounded on their own
// with no renormalisation, so protein*4 + fat*9 + carbs*4 drifts from calories
// by at most 8.5 kcal (usually 2 or less).
func CalculateMacros(b Biometrics) (models.Macros, error) {
	if err := b.Validate(); err != nil {
		return models.Macros{}, err
	}

	target := TargetCalories(b)
	if target < 0 {
		target = 0
	}

	calories := math.Round(target)
	return models.Macros{
		Calories: int(calories),
		ProteinG: int(math.Round(calories * proteinShare / kcalPerGramProtein)),
		FatG:     int(math.Round(calories * fatShare / kcalPerGramFat)),
		CarbsG:   int(math.Round(calories * carbsShare / kcalPerGramCarbs)),
	}, nil
}
