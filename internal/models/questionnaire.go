package models

import (
	"time"

	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalGainWeight Goal = "gain_weight"
	GoalMaintain   Goal = "maintain"
)

// DietaryPreferences holds the free-form food preferences collected by the questionnaire.
type DietaryPreferences struct {
	DietType      string   `json:"diet_type"`
	DislikedFoods []string `json:"disliked_foods"`
	FavoriteFoods []string `json:"favorite_foods"`
	Allergies     []string `json:"allergies"`
	Intolerances  []string `json:"intolerances"`
}

// QuestionnaireAnswers is one submitted version of a user's questionnaire.
// Rows are never updated; a profile edit inserts the next version.
type QuestionnaireAnswers struct {
	ID             uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID          `gorm:"type:varchar(36);not null;uniqueIndex:idx_questionnaire_user_version" json:"user_id"`
	Version        int                `gorm:"not null;uniqueIndex:idx_questionnaire_user_version" json:"version"`
	Age            int                `gorm:"not null" json:"age"`
	Sex            Sex                `gorm:"size:16;not null" json:"sex"`
	HeightCM       float64            `gorm:"not null" json:"height_cm"`
	WeightKG       float64            `gorm:"not null" json:"weight_kg"`
	TargetWeightKG *float64           `json:"target_weight_kg,omitempty"`
	ActivityLevel  ActivityLevel      `gorm:"size:32;not null" json:"activity_level"`
	Goal           Goal               `gorm:"size:32;not null" json:"goal"`
	Preferences    DietaryPreferences `gorm:"serializer:json" json:"preferences"`
	CreatedAt      time.Time          `json:"created_at"`
}

func (QuestionnaireAnswers) TableName() string {
	return "questionnaire_answers"
}

// NextVersion returns a copy of a with a fresh id and the following version number.
func (a QuestionnaireAnswers) NextVersion() QuestionnaireAnswers {
	next := a
	next.ID = uuid.New()
	next.Version = a.Version + 1
	next.CreatedAt = time.Time{}
	if a.TargetWeightKG != nil {
		tw := *a.TargetWeightKG
		next.TargetWeightKG = &tw
	}
	next.Preferences = DietaryPreferences{
		DietType:      a.Preferences.DietType,
		DislikedFoods: append([]string(nil), a.Preferences.DislikedFoods...),
		FavoriteFoods: append([]string(nil), a.Preferences.FavoriteFoods...),
		Allergies:     append([]string(nil), a.Preferences.Allergies...),
		Intolerances:  append([]string(nil), a.Preferences.Intolerances...),
	}
	return next
}
