package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanAssembler composes the calculator, the allocator and the suggestion
// resolver into a NutritionPlan.
type PlanAssembler struct {
	resolver ISuggestionResolver
	db       *gorm.DB
	now      func() time.Time
	log      logrus.FieldLogger
}

var (
	_ IPlanAssembler = (*PlanAssembler)(nil)
	_ IPlanAuditLog  = (*PlanAssembler)(nil)
)

// NewPlanAssembler creates a PlanAssembler. When db is not nil every
// assembled plan is also written to the audit table.
func NewPlanAssembler(resolver ISuggestionResolver, db *gorm.DB, now func() time.Time, log logrus.FieldLogger) *PlanAssembler {
	if now == nil {
		now = time.Now
	}
	return &PlanAssembler{resolver: resolver, db: db, now: now, log: log}
}

// Assemble fails only when the biometric inputs are invalid. Suggestions for
// the four buckets are fetched concurrently.
func (a *PlanAssembler) Assemble(ctx context.Context, answers *models.QuestionnaireAnswers) (*models.NutritionPlan, error) {
	macros, err := nutrition.CalculateMacros(nutrition.BiometricsFrom(answers))
	if err != nil {
		return nil, err
	}
	budgets := nutrition.AllocateMeals(macros.Calories)

	slots := make([]models.SlotAllocation, len(models.Buckets))
	g, gctx := errgroup.WithContext(ctx)
	for i, bucket := range models.Buckets {
		g.Go(func() error {
			slots[i] = models.SlotAllocation{
				Bucket:         bucket,
				TargetCalories: budgets[bucket],
				Suggestions:    a.resolver.Resolve(gctx, bucket, answers.Preferences, budgets[bucket]),
			}
			return nil
		})
	}
	// Resolve never fails, so Wait only joins the fetches.
	_ = g.Wait()

	plan := &models.NutritionPlan{
		ID:                   uuid.New(),
		UserID:               answers.UserID,
		QuestionnaireID:      answers.ID,
		QuestionnaireVersion: answers.Version,
		Macros:               macros,
		Slots:                slots,
		CreatedAt:            a.now().UTC(),
	}

	a.log.WithFields(logrus.Fields{
		"user_id":  plan.UserID,
		"plan_id":  plan.ID,
		"calories": macros.Calories,
		"version":  answers.Version,
	}).Info("Assembled nutrition plan")

	a.recordAudit(ctx, plan)
	return plan, nil
}

func (a *PlanAssembler) recordAudit(ctx context.Context, plan *models.NutritionPlan) {
	if a.db == nil {
		return
	}
	snapshot, err := json.Marshal(plan)
	if err != nil {
		a.log.WithError(err).Warn("Failed to encode plan audit snapshot")
		return
	}
	record := models.NutritionPlanRecord{
		ID:                   plan.ID,
		UserID:               plan.UserID,
		QuestionnaireVersion: plan.QuestionnaireVersion,
		Calories:             plan.Macros.Calories,
		Snapshot:             datatypes.JSON(snapshot),
		CreatedAt:            plan.CreatedAt,
	}
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		a.log.WithError(err).WithField("plan_id", plan.ID).Warn("Failed to record plan audit")
	}
}

// PlanRecords lists the audit trail of assembled plans for a user, newest first.
func (a *PlanAssembler) PlanRecords(ctx context.Context, userID uuid.UUID) ([]models.NutritionPlanRecord, error) {
	var records []models.NutritionPlanRecord
	if a.db == nil {
		return records, nil
	}
	if err := a.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
