package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/sirupsen/logrus"
)

// ProfileResult is the stored answers plus the plan when one was regenerated.
type ProfileResult struct {
	Answers     *models.QuestionnaireAnswers `json:"answers"`
	Plan        *models.NutritionPlan        `json:"plan,omitempty"`
	DailyPlan   *models.DailyPlan            `json:"daily_plan,omitempty"`
	Regenerated bool                         `json:"regenerated"`
}

// ProfileService handles questionnaire submissions and profile edits
type ProfileService struct {
	repo  *QuestionnaireRepository
	regen Regenerator
	now   func() time.Time
	log   logrus.FieldLogger
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(repo *QuestionnaireRepository, regen Regenerator, log logrus.FieldLogger) *ProfileService {
	return &ProfileService{
		repo:  repo,
		regen: regen,
		now:   time.Now,
		log:   log,
	}
}

// ValidateAnswers rejects answers the calculator cannot use.
func ValidateAnswers(a *models.QuestionnaireAnswers) error {
	if err := nutrition.BiometricsFrom(a).Validate(); err != nil {
		return err
	}
	if a.Sex != models.SexMale && a.Sex != models.SexFemale {
		return &nutrition.InvalidInputError{Field: "sex", Message: "must be male or female"}
	}
	if !nutrition.KnownActivityLevel(a.ActivityLevel) {
		return &nutrition.InvalidInputError{Field: "activity_level", Message: fmt.Sprintf("unknown level %q", a.ActivityLevel)}
	}
	switch a.Goal {
	case models.GoalLoseWeight, models.GoalMaintain, models.GoalGainWeight:
	default:
		return &nutrition.InvalidInputError{Field: "goal", Message: fmt.Sprintf("unknown goal %q", a.Goal)}
	}
	if a.TargetWeightKG != nil && !(*a.TargetWeightKG > 0) {
		return &nutrition.InvalidInputError{Field: "target_weight_kg", Message: "must be positive"}
	}
	return nil
}

// SubmitQuestionnaire stores the answers as the next version and builds a new plan.
func (s *ProfileService) SubmitQuestionnaire(ctx context.Context, userID uuid.UUID, req *types.QuestionnaireRequest) (*ProfileResult, error) {
	answers := &models.QuestionnaireAnswers{
		ID:             uuid.New(),
		UserID:         userID,
		Version:        1,
		Age:            req.Age,
		Sex:            req.Sex,
		HeightCM:       req.HeightCM,
		WeightKG:       req.WeightKG,
		TargetWeightKG: req.TargetWeightKG,
		ActivityLevel:  req.ActivityLevel,
		Goal:           req.Goal,
		Preferences:    normalizePreferences(req.Preferences),
	}
	if err := ValidateAnswers(answers); err != nil {
		return nil, err
	}

	latest, err := s.repo.LatestAnswers(ctx, userID)
	switch {
	case err == nil:
		answers.Version = latest.Version + 1
	case !errors.Is(err, ErrNoQuestionnaire):
		return nil, err
	}

	if err := s.repo.Save(ctx, answers, nil); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "version": answers.Version}).Info("Questionnaire submitted")

	return s.regenerate(ctx, answers)
}

// GetQuestionnaire returns the latest answers.
func (s *ProfileService) GetQuestionnaire(ctx context.Context, userID uuid.UUID) (*models.QuestionnaireAnswers, error) {
	return s.repo.LatestAnswers(ctx, userID)
}

// UpdateProfile applies a partial edit as a new questionnaire version, logs
// every changed field and regenerates the plan. An edit that changes nothing
// stores nothing, but still rebuilds a plan left behind by a failed save.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*ProfileResult, error) {
	latest, err := s.repo.LatestAnswers(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := latest.NextVersion()
	changes := applyProfileUpdate(&next, req)
	if len(changes) == 0 {
		return s.reconcile(ctx, latest)
	}
	if err := ValidateAnswers(&next); err != nil {
		return nil, err
	}

	changedAt := s.now().UTC()
	for i := range changes {
		changes[i].UserID = userID
		changes[i].Version = next.Version
		changes[i].ChangedAt = changedAt
	}
	if err := s.repo.Save(ctx, &next, changes); err != nil {
		return nil, err
	}

	fields := make([]string, len(changes))
	for i, c := range changes {
		fields[i] = c.Field
	}
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"version": next.Version,
		"fields":  fields,
	}).Info("Profile updated")

	return s.regenerate(ctx, &next)
}

// reconcile rebuilds the plan when a previous regeneration failed after its
// answers were already stored.
func (s *ProfileService) reconcile(ctx context.Context, latest *models.QuestionnaireAnswers) (*ProfileResult, error) {
	version, err := s.regen.PlanVersion(ctx, latest.UserID)
	if err != nil {
		return nil, err
	}
	if version >= latest.Version {
		return &ProfileResult{Answers: latest}, nil
	}
	s.log.WithFields(logrus.Fields{
		"user_id":      latest.UserID,
		"version":      latest.Version,
		"plan_version": version,
	}).Warn("Plan is behind the stored answers, regenerating")
	return s.regenerate(ctx, latest)
}

func (s *ProfileService) regenerate(ctx context.Context, answers *models.QuestionnaireAnswers) (*ProfileResult, error) {
	plan, daily, err := s.regen.RegeneratePlan(ctx, answers.UserID)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{Answers: answers, Plan: plan, DailyPlan: daily, Regenerated: true}, nil
}

// GetProfileHistory returns the change log, newest first.
func (s *ProfileService) GetProfileHistory(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error) {
	return s.repo.History(ctx, userID)
}

func applyProfileUpdate(a *models.QuestionnaireAnswers, req *types.UpdateProfileRequest) []models.ProfileHistory {
	var changes []models.ProfileHistory
	record := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, models.ProfileHistory{Field: field, OldValue: oldValue, NewValue: newValue})
		}
	}

	if req.Age != nil {
		record("age", strconv.Itoa(a.Age), strconv.Itoa(*req.Age))
		a.Age = *req.Age
	}
	if req.Sex != nil {
		record("sex", string(a.Sex), string(*req.Sex))
		a.Sex = *req.Sex
	}
	if req.HeightCM != nil {
		record("height_cm", formatFloat(a.HeightCM), formatFloat(*req.HeightCM))
		a.HeightCM = *req.HeightCM
	}
	if req.WeightKG != nil {
		record("weight_kg", formatFloat(a.WeightKG), formatFloat(*req.WeightKG))
		a.WeightKG = *req.WeightKG
	}
	if req.TargetWeightKG != nil {
		old := ""
		if a.TargetWeightKG != nil {
			old = formatFloat(*a.TargetWeightKG)
		}
		record("target_weight_kg", old, formatFloat(*req.TargetWeightKG))
		tw := *req.TargetWeightKG
		a.TargetWeightKG = &tw
	}
	if req.ActivityLevel != nil {
		record("activity_level", string(a.ActivityLevel), string(*req.ActivityLevel))
		a.ActivityLevel = *req.ActivityLevel
	}
	if req.Goal != nil {
		record("goal", string(a.Goal), string(*req.Goal))
		a.Goal = *req.Goal
	}
	if req.Preferences != nil {
		prefs := normalizePreferences(*req.Preferences)
		record("preferences", formatJSON(normalizePreferences(a.Preferences)), formatJSON(prefs))
		a.Preferences = prefs
	}
	return changes
}

func normalizePreferences(p models.DietaryPreferences) models.DietaryPreferences {
	return models.DietaryPreferences{
		DietType:      strings.TrimSpace(p.DietType),
		DislikedFoods: nonEmpty(p.DislikedFoods),
		FavoriteFoods: nonEmpty(p.FavoriteFoods),
		Allergies:     nonEmpty(p.Allergies),
		Intolerances:  nonEmpty(p.Intolerances),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
