package testhelpers

import (
	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
)

// SampleAnswers returns the reference questionnaire: a 30 year old, 180 cm,
// 80 kg moderately active man who wants to lose weight. It yields
// 2259 kcal / 141 g protein / 75 g fat / 254 g carbs.
func SampleAnswers(userID uuid.UUID) *models.QuestionnaireAnswers {
	target := 72.0
	return &models.QuestionnaireAnswers{
		ID:             uuid.New(),
		UserID:         userID,
		Version:        1,
		Age:            30,
		Sex:            models.SexMale,
		HeightCM:       180,
		WeightKG:       80,
		TargetWeightKG: &target,
		ActivityLevel:  models.ActivityModerate,
		Goal:           models.GoalLoseWeight,
		Preferences: models.DietaryPreferences{
			DietType:  "vegetarian",
			Allergies: []string{"peanuts"},
		},
	}
}
