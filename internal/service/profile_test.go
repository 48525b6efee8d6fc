package service_test

import (
	"context"
	"testing"

	"github.com/pageza/nutriplan/backend/internal/logging"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(f *trackerFixture) *service.ProfileService {
	return service.NewProfileService(f.repo, f.tracker, logging.Discard())
}

func questionnaireRequest() *types.QuestionnaireRequest {
	return &types.QuestionnaireRequest{
		Age:           30,
		Sex:           models.SexMale,
		HeightCM:      180,
		WeightKG:      80,
		ActivityLevel: models.ActivityModerate,
		Goal:          models.GoalLoseWeight,
		Preferences: models.DietaryPreferences{
			DietType:  "vegetarian",
			Allergies: []string{"peanuts"},
		},
	}
}

func TestProfileService_SubmitQuestionnaire(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)
	ctx := context.Background()

	result, err := svc.SubmitQuestionnaire(ctx, f.userID, questionnaireRequest())
	require.NoError(t, err)

	assert.True(t, result.Regenerated)
	assert.Equal(t, 1, result.Answers.Version)
	require.NotNil(t, result.Plan)
	assert.Equal(t, 2259, result.Plan.Macros.Calories)
	require.NotNil(t, result.DailyPlan)
	assert.Equal(t, result.Plan.ID, result.DailyPlan.NutritionPlanID)

	// A second submission is the next version
	req := questionnaireRequest()
	req.Goal = models.GoalMaintain
	result, err = svc.SubmitQuestionnaire(ctx, f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Answers.Version)
	assert.Equal(t, 2759, result.Plan.Macros.Calories)

	latest, err := svc.GetQuestionnaire(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, []string{"peanuts"}, latest.Preferences.Allergies)
}

func TestProfileService_SubmitQuestionnaireValidation(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)

	tests := []struct {
		name  string
		edit  func(*types.QuestionnaireRequest)
		field string
	}{
		{"negative age", func(r *types.QuestionnaireRequest) { r.Age = -1 }, "age"},
		{"zero weight", func(r *types.QuestionnaireRequest) { r.WeightKG = 0 }, "weight_kg"},
		{"unknown sex", func(r *types.QuestionnaireRequest) { r.Sex = "other" }, "sex"},
		{"unknown activity", func(r *types.QuestionnaireRequest) { r.ActivityLevel = "extreme" }, "activity_level"},
		{"unknown goal", func(r *types.QuestionnaireRequest) { r.Goal = "bulk" }, "goal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := questionnaireRequest()
			tt.edit(req)

			_, err := svc.SubmitQuestionnaire(context.Background(), f.userID, req)
			var invalid *nutrition.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}

	_, err := svc.GetQuestionnaire(context.Background(), f.userID)
	assert.ErrorIs(t, err, service.ErrNoQuestionnaire)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)
	ctx := context.Background()

	_, err := svc.SubmitQuestionnaire(ctx, f.userID, questionnaireRequest())
	require.NoError(t, err)
	_, err = f.tracker.UpdateHydration(ctx, f.userID, "", 5)
	require.NoError(t, err)

	weight := 78.0
	activity := models.ActivityActive
	result, err := svc.UpdateProfile(ctx, f.userID, &types.UpdateProfileRequest{
		WeightKG:      &weight,
		ActivityLevel: &activity,
	})
	require.NoError(t, err)

	assert.True(t, result.Regenerated)
	assert.Equal(t, 2, result.Answers.Version)
	assert.Equal(t, 78.0, result.Answers.WeightKG)
	assert.Equal(t, models.ActivityActive, result.Answers.ActivityLevel)
	assert.Equal(t, 5, result.DailyPlan.Hydration.Glasses)

	history, err := svc.GetProfileHistory(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	byField := map[string]models.ProfileHistory{}
	for _, h := range history {
		byField[h.Field] = h
		assert.Equal(t, 2, h.Version)
	}
	assert.Equal(t, "80", byField["weight_kg"].OldValue)
	assert.Equal(t, "78", byField["weight_kg"].NewValue)
	assert.Equal(t, "moderate", byField["activity_level"].OldValue)
	assert.Equal(t, "active", byField["activity_level"].NewValue)
}

func TestProfileService_UpdateProfileWithoutChanges(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)
	ctx := context.Background()

	_, err := svc.SubmitQuestionnaire(ctx, f.userID, questionnaireRequest())
	require.NoError(t, err)

	same := 80.0
	prefs := models.DietaryPreferences{DietType: "vegetarian", Allergies: []string{"peanuts"}, DislikedFoods: []string{}}
	result, err := svc.UpdateProfile(ctx, f.userID, &types.UpdateProfileRequest{WeightKG: &same, Preferences: &prefs})
	require.NoError(t, err)

	assert.False(t, result.Regenerated)
	assert.Equal(t, 1, result.Answers.Version)

	history, err := svc.GetProfileHistory(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProfileService_UpdateProfileRequiresQuestionnaire(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)

	goal := models.GoalMaintain
	_, err := svc.UpdateProfile(context.Background(), f.userID, &types.UpdateProfileRequest{Goal: &goal})
	assert.ErrorIs(t, err, service.ErrNoQuestionnaire)
}

func TestProfileService_UpdateProfileRejectsInvalid(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)
	ctx := context.Background()

	_, err := svc.SubmitQuestionnaire(ctx, f.userID, questionnaireRequest())
	require.NoError(t, err)

	height := -5.0
	_, err = svc.UpdateProfile(ctx, f.userID, &types.UpdateProfileRequest{HeightCM: &height})
	var invalid *nutrition.InvalidInputError
	require.ErrorAs(t, err, &invalid)

	latest, err := svc.GetQuestionnaire(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Version)
}

func TestProfileService_UpdateProfileRebuildsPlanAfterFailedSave(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)
	ctx := context.Background()

	_, err := svc.SubmitQuestionnaire(ctx, f.userID, questionnaireRequest())
	require.NoError(t, err)

	activity := models.ActivityActive
	req := &types.UpdateProfileRequest{ActivityLevel: &activity}

	f.store.SetFailing("nutrition_plan_", true)
	_, err = svc.UpdateProfile(ctx, f.userID, req)
	assert.ErrorIs(t, err, service.ErrPersistence)
	f.store.SetFailing("", false)

	// The answers were stored, so the retry has nothing to change but
	// must still replace the plan built from version 1
	result, err := svc.UpdateProfile(ctx, f.userID, req)
	require.NoError(t, err)
	assert.True(t, result.Regenerated)
	assert.Equal(t, 2, result.Answers.Version)
	require.NotNil(t, result.Plan)
	assert.Equal(t, 2, result.Plan.QuestionnaireVersion)
	assert.Greater(t, result.Plan.Macros.Calories, 2259)
	assert.Equal(t, result.Plan.ID, result.DailyPlan.NutritionPlanID)

	plan, err := f.tracker.CurrentNutritionPlan(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, result.Plan.ID, plan.ID)

	result, err = svc.UpdateProfile(ctx, f.userID, req)
	require.NoError(t, err)
	assert.False(t, result.Regenerated)

	history, err := svc.GetProfileHistory(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "activity_level", history[0].Field)
}

func TestProfileService_SubmitQuestionnaireNormalizesPreferences(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newProfileService(f)
	ctx := context.Background()

	req := questionnaireRequest()
	req.Preferences.DietType = " vegetarian "
	req.Preferences.Allergies = []string{"peanuts", "  "}
	req.Preferences.DislikedFoods = []string{" "}
	result, err := svc.SubmitQuestionnaire(ctx, f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, "vegetarian", result.Answers.Preferences.DietType)
	assert.Equal(t, []string{"peanuts"}, result.Answers.Preferences.Allergies)
	assert.Empty(t, result.Answers.Preferences.DislikedFoods)

	prefs := models.DietaryPreferences{DietType: "vegetarian", Allergies: []string{"peanuts"}}
	result, err = svc.UpdateProfile(ctx, f.userID, &types.UpdateProfileRequest{Preferences: &prefs})
	require.NoError(t, err)
	assert.False(t, result.Regenerated)
	assert.Equal(t, 1, result.Answers.Version)

	history, err := svc.GetProfileHistory(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
