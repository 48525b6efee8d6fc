package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type mockTracker struct {
	mock.Mock
}

var _ service.ITracker = (*mockTracker)(nil)

func dailyOrNil(v interface{}) *models.DailyPlan {
	if v == nil {
		return nil
	}
	return v.(*models.DailyPlan)
}

func (m *mockTracker) GetCurrentDailyPlan(ctx context.Context, userID uuid.UUID) (*models.DailyPlan, error) {
	args := m.Called(ctx, userID)
	return dailyOrNil(args.Get(0)), args.Error(1)
}

func (m *mockTracker) CurrentNutritionPlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionPlan), args.Error(1)
}

func (m *mockTracker) ToggleFoodConsumed(ctx context.Context, userID uuid.UUID, date, mealID, foodID string) (*models.DailyPlan, error) {
	args := m.Called(ctx, userID, date, mealID, foodID)
	return dailyOrNil(args.Get(0)), args.Error(1)
}

func (m *mockTracker) UpdateHydration(ctx context.Context, userID uuid.UUID, date string, glasses int) (*models.DailyPlan, error) {
	args := m.Called(ctx, userID, date, glasses)
	return dailyOrNil(args.Get(0)), args.Error(1)
}

func (m *mockTracker) UpdateMetrics(ctx context.Context, userID uuid.UUID, date string, update service.MetricsUpdate) (*models.DailyPlan, error) {
	args := m.Called(ctx, userID, date, update)
	return dailyOrNil(args.Get(0)), args.Error(1)
}

func (m *mockTracker) RegeneratePlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, *models.DailyPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.NutritionPlan), dailyOrNil(args.Get(1)), args.Error(2)
}

func (m *mockTracker) Summary(ctx context.Context, userID uuid.UUID) (*nutrition.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.Summary), args.Error(1)
}

func (m *mockTracker) History(ctx context.Context, userID uuid.UUID, from, to string) ([]models.DailyPlan, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyPlan), args.Error(1)
}

func (m *mockTracker) Trends(ctx context.Context, userID uuid.UUID, days int) (*nutrition.TrendReport, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.TrendReport), args.Error(1)
}

type mockProfileService struct {
	mock.Mock
}

var _ service.IProfileService = (*mockProfileService)(nil)

func (m *mockProfileService) SubmitQuestionnaire(ctx context.Context, userID uuid.UUID, req *types.QuestionnaireRequest) (*service.ProfileResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileResult), args.Error(1)
}

func (m *mockProfileService) GetQuestionnaire(ctx context.Context, userID uuid.UUID) (*models.QuestionnaireAnswers, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionnaireAnswers), args.Error(1)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*service.ProfileResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileResult), args.Error(1)
}

func (m *mockProfileService) GetProfileHistory(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProfileHistory), args.Error(1)
}

type mockAuditLog struct {
	mock.Mock
}

func (m *mockAuditLog) PlanRecords(ctx context.Context, userID uuid.UUID) ([]models.NutritionPlanRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NutritionPlanRecord), args.Error(1)
}

// stubTokens accepts the single token "valid" for userID.
type stubTokens struct {
	userID uuid.UUID
}

func (s stubTokens) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "valid" {
		return nil, service.ErrInvalidToken
	}
	return &types.TokenClaims{UserID: s.userID, Username: "tester"}, nil
}
