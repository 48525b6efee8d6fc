package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// ISuggestionResolver returns meal suggestions for a bucket. It never fails.
type ISuggestionResolver interface {
	Resolve(ctx context.Context, bucket models.Bucket, prefs models.DietaryPreferences, targetCalories int) []models.FoodItem
}

// IPlanAssembler builds a NutritionPlan from questionnaire answers.
type IPlanAssembler interface {
	Assemble(ctx context.Context, answers *models.QuestionnaireAnswers) (*models.NutritionPlan, error)
}

// IPlanAuditLog lists every plan assembled for a user.
type IPlanAuditLog interface {
	PlanRecords(ctx context.Context, userID uuid.UUID) ([]models.NutritionPlanRecord, error)
}

// ITracker is the daily tracking surface used by the HTTP layer.
type ITracker interface {
	GetCurrentDailyPlan(ctx context.Context, userID uuid.UUID) (*models.DailyPlan, error)
	CurrentNutritionPlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, error)
	ToggleFoodConsumed(ctx context.Context, userID uuid.UUID, date, mealID, foodID string) (*models.DailyPlan, error)
	UpdateHydration(ctx context.Context, userID uuid.UUID, date string, glasses int) (*models.DailyPlan, error)
	UpdateMetrics(ctx context.Context, userID uuid.UUID, date string, update MetricsUpdate) (*models.DailyPlan, error)
	RegeneratePlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, *models.DailyPlan, error)
	Summary(ctx context.Context, userID uuid.UUID) (*nutrition.Summary, error)
	History(ctx context.Context, userID uuid.UUID, from, to string) ([]models.DailyPlan, error)
	Trends(ctx context.Context, userID uuid.UUID, days int) (*nutrition.TrendReport, error)
}

// Regenerator rebuilds a user's plan after their answers change.
// PlanVersion is the questionnaire version of the stored plan, 0 when none.
type Regenerator interface {
	RegeneratePlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, *models.DailyPlan, error)
	PlanVersion(ctx context.Context, userID uuid.UUID) (int, error)
}

// IProfileService defines the interface for questionnaire and profile operations
type IProfileService interface {
	SubmitQuestionnaire(ctx context.Context, userID uuid.UUID, req *types.QuestionnaireRequest) (*ProfileResult, error)
	GetQuestionnaire(ctx context.Context, userID uuid.UUID) (*models.QuestionnaireAnswers, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*ProfileResult, error)
	GetProfileHistory(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error)
}

// ITokenService issues and validates bearer tokens.
type ITokenService interface {
	GenerateToken(userID uuid.UUID, username string) (string, error)
	ValidateToken(tokenString string) (*types.TokenClaims, error)
}
