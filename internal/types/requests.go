package types

import (
	"github.com/pageza/nutriplan/backend/internal/models"
)

// QuestionnaireRequest is the body of a full questionnaire submission.
type QuestionnaireRequest struct {
	Age            int                       `json:"age" binding:"required"`
	Sex            models.Sex                `json:"sex" binding:"required"`
	HeightCM       float64                   `json:"height_cm" binding:"required"`
	WeightKG       float64                   `json:"weight_kg" binding:"required"`
	TargetWeightKG *float64                  `json:"target_weight_kg"`
	ActivityLevel  models.ActivityLevel      `json:"activity_level" binding:"required"`
	Goal           models.Goal               `json:"goal" binding:"required"`
	Preferences    models.DietaryPreferences `json:"preferences"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Age            *int                       `json:"age,omitempty"`
	Sex            *models.Sex                `json:"sex,omitempty"`
	HeightCM       *float64                   `json:"height_cm,omitempty"`
	WeightKG       *float64                   `json:"weight_kg,omitempty"`
	TargetWeightKG *float64                   `json:"target_weight_kg,omitempty"`
	ActivityLevel  *models.ActivityLevel      `json:"activity_level,omitempty"`
	Goal           *models.Goal               `json:"goal,omitempty"`
	Preferences    *models.DietaryPreferences `json:"preferences,omitempty"`
}

// HydrationRequest sets today's glasses of water.
type HydrationRequest struct {
	Glasses *int   `json:"glasses" binding:"required"`
	Date    string `json:"date"`
}

// MetricsRequest merges body metrics into today's plan.
type MetricsRequest struct {
	WeightKG    *float64 `json:"weight_kg"`
	EnergyLevel *int     `json:"energy_level"`
	SleepHours  *float64 `json:"sleep_hours"`
	Steps       *int     `json:"steps"`
	Date        string   `json:"date"`
}

// ToggleFoodRequest optionally pins a toggle to a date.
type ToggleFoodRequest struct {
	Date string `json:"date"`
}
