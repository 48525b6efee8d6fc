package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Macros represents daily calorie and macronutrient targets.
type Macros struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
	CarbsG   int `json:"carbs_g"`
}

// Bucket is one of the four calorie allocation buckets of a NutritionPlan.
type Bucket string

const (
	BucketBreakfast Bucket = "breakfast"
	BucketLunch     Bucket = "lunch"
	BucketDinner    Bucket = "dinner"
	BucketSnacks    Bucket = "snacks"
)

// Buckets lists the allocation buckets in plan order.
var Buckets = []Bucket{BucketBreakfast, BucketLunch, BucketDinner, BucketSnacks}

// FoodItem is a suggested or logged food with its nutrition snapshot.
type FoodItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Calories       int     `json:"calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
	Consumed       bool    `json:"consumed"`
	ImageURL       string  `json:"image_url,omitempty"`
	ReadyInMinutes int     `json:"ready_in_minutes,omitempty"`
	Servings       int     `json:"servings,omitempty"`
}

// SlotAllocation is the calorie budget and suggestions for one bucket.
type SlotAllocation struct {
	Bucket         Bucket     `json:"bucket"`
	TargetCalories int        `json:"target_calories"`
	Suggestions    []FoodItem `json:"suggestions"`
}

// NutritionPlan is the computed, immutable plan derived from one questionnaire version.
type NutritionPlan struct {
	ID                   uuid.UUID        `json:"id"`
	UserID               uuid.UUID        `json:"user_id"`
	QuestionnaireID      uuid.UUID        `json:"questionnaire_id"`
	QuestionnaireVersion int              `json:"questionnaire_version"`
	Macros               Macros           `json:"macros"`
	Slots                []SlotAllocation `json:"slots"`
	CreatedAt            time.Time        `json:"created_at"`
}

// Slot returns the allocation for bucket b, if present.
func (p *NutritionPlan) Slot(b Bucket) (SlotAllocation, bool) {
	for _, s := range p.Slots {
		if s.Bucket == b {
			return s, true
		}
	}
	return SlotAllocation{}, false
}

// NutritionPlanRecord keeps every assembled plan for audit.
type NutritionPlanRecord struct {
	ID                   uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID               uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	QuestionnaireVersion int            `gorm:"not null" json:"questionnaire_version"`
	Calories             int            `gorm:"not null" json:"calories"`
	Snapshot             datatypes.JSON `json:"snapshot"`
	CreatedAt            time.Time      `json:"created_at"`
}

func (NutritionPlanRecord) TableName() string {
	return "nutrition_plan_records"
}
