package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/store"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// MaxHistoryDays bounds the range accepted by History.
const MaxHistoryDays = 366

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// MetricsUpdate carries the metrics fields a caller wants to change.
type MetricsUpdate struct {
	WeightKG    *float64 `json:"weight_kg"`
	EnergyLevel *int     `json:"energy_level"`
	SleepHours  *float64 `json:"sleep_hours"`
	Steps       *int     `json:"steps"`
}

// TrackerOptions configures a Tracker. Zero values select the system clock,
// UTC and history entries that never expire.
type TrackerOptions struct {
	Clock      Clock
	Location   *time.Location
	HistoryTTL time.Duration
	Sinks      []ArchiveSink
}

// Tracker owns the lifecycle of a user's daily plan: derivation on first
// access, rollover into history when the local date changes, mutation of
// the current day and regeneration after profile changes.
type Tracker struct {
	store      store.Store
	assembler  IPlanAssembler
	answers    AnswersSource
	clock      Clock
	loc        *time.Location
	historyTTL time.Duration
	sinks      []ArchiveSink
	log        logrus.FieldLogger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

var _ ITracker = (*Tracker)(nil)

func NewTracker(st store.Store, assembler IPlanAssembler, answers AnswersSource, opts TrackerOptions, log logrus.FieldLogger) *Tracker {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Tracker{
		store:      st,
		assembler:  assembler,
		answers:    answers,
		clock:      opts.Clock,
		loc:        opts.Location,
		historyTTL: opts.HistoryTTL,
		sinks:      opts.Sinks,
		log:        log,
		locks:      make(map[uuid.UUID]*sync.Mutex),
	}
}

// lock serialises check-and-apply for one user.
func (t *Tracker) lock(userID uuid.UUID) func() {
	t.mu.Lock()
	l, ok := t.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[userID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (t *Tracker) now() time.Time {
	return t.clock.Now().In(t.loc)
}

func (t *Tracker) today() string {
	return t.now().Format(dateLayout)
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// GetCurrentDailyPlan returns today's plan, archiving a stale one and
// deriving a fresh one first when needed.
func (t *Tracker) GetCurrentDailyPlan(ctx context.Context, userID uuid.UUID) (*models.DailyPlan, error) {
	defer t.lock(userID)()
	return t.current(ctx, userID, true)
}

// CurrentNutritionPlan returns the stored plan, assembling one from the
// latest answers when none exists.
func (t *Tracker) CurrentNutritionPlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, error) {
	defer t.lock(userID)()
	return t.nutritionPlan(ctx, userID)
}

// PlanVersion returns the questionnaire version the stored plan was built
// from, or 0 when no plan is stored.
func (t *Tracker) PlanVersion(ctx context.Context, userID uuid.UUID) (int, error) {
	defer t.lock(userID)()

	var plan models.NutritionPlan
	err := store.GetJSON(ctx, t.store, store.NutritionPlanKey(userID), &plan)
	switch {
	case err == nil:
		return plan.QuestionnaireVersion, nil
	case errors.Is(err, store.ErrNotFound):
		return 0, nil
	default:
		return 0, persistenceError("load nutrition plan", err)
	}
}

// nutritionPlan returns the stored plan while it matches the latest answers
// and reassembles it when the answers moved past it.
func (t *Tracker) nutritionPlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, error) {
	var plan models.NutritionPlan
	err := store.GetJSON(ctx, t.store, store.NutritionPlanKey(userID), &plan)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, persistenceError("load nutrition plan", err)
	}

	answers, answersErr := t.answers.LatestAnswers(ctx, userID)
	if err == nil {
		if answersErr != nil || plan.QuestionnaireVersion >= answers.Version {
			return &plan, nil
		}
		t.log.WithFields(logrus.Fields{
			"user_id":      userID,
			"plan_version": plan.QuestionnaireVersion,
			"version":      answers.Version,
		}).Warn("Stored nutrition plan is behind the answers, reassembling")
	}
	if answersErr != nil {
		return nil, answersErr
	}
	return t.assembleAndStore(ctx, answers)
}

func (t *Tracker) assembleAndStore(ctx context.Context, answers *models.QuestionnaireAnswers) (*models.NutritionPlan, error) {
	plan, err := t.assembler.Assemble(ctx, answers)
	if err != nil {
		return nil, err
	}
	if err := store.SetJSON(ctx, t.store, store.NutritionPlanKey(answers.UserID), plan, 0); err != nil {
		return nil, persistenceError("save nutrition plan", err)
	}
	return plan, nil
}

// current loads today's plan. In read-only mode a failed archive or save is
// logged and the derived plan is returned unsaved so the next access retries.
func (t *Tracker) current(ctx context.Context, userID uuid.UUID, readOnly bool) (*models.DailyPlan, error) {
	today := t.today()
	logger := t.log.WithFields(logrus.Fields{"user_id": userID, "date": today})

	var daily models.DailyPlan
	err := store.GetJSON(ctx, t.store, store.DailyPlanKey(userID), &daily)
	switch {
	case err == nil && daily.Date >= today:
		// A later date means the clock or zone moved back; it stays current.
		return &daily, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, persistenceError("load daily plan", err)
	}

	archived := true
	if err == nil {
		if archiveErr := t.archive(ctx, &daily); archiveErr != nil {
			if !readOnly {
				return nil, archiveErr
			}
			logger.WithError(archiveErr).WithField("archived_date", daily.Date).
				Error("Failed to archive daily plan, will retry on next access")
			archived = false
		}
	}

	plan, err := t.nutritionPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	fresh := nutrition.DeriveDailyPlan(userID, today, plan, t.now())

	if !archived {
		return fresh, nil
	}
	if err := store.SetJSON(ctx, t.store, store.DailyPlanKey(userID), fresh, 0); err != nil {
		if !readOnly {
			return nil, persistenceError("save daily plan", err)
		}
		logger.WithError(err).Error("Failed to save derived daily plan")
		return fresh, nil
	}
	logger.WithField("plan_id", plan.ID).Info("Derived daily plan")
	return fresh, nil
}

// archive writes plan to history exactly as it stands and then notifies the
// sinks. Sink failures are logged only.
func (t *Tracker) archive(ctx context.Context, plan *models.DailyPlan) error {
	if err := store.SetJSON(ctx, t.store, store.HistoryKey(plan.UserID, plan.Date), plan, t.historyTTL); err != nil {
		return persistenceError("archive daily plan", err)
	}
	t.log.WithFields(logrus.Fields{"user_id": plan.UserID, "date": plan.Date}).Info("Archived daily plan")

	for _, sink := range t.sinks {
		if err := sink.Archive(ctx, plan); err != nil {
			t.log.WithError(err).WithFields(logrus.Fields{
				"user_id": plan.UserID,
				"date":    plan.Date,
				"sink":    fmt.Sprintf("%T", sink),
			}).Warn("Archive sink failed")
		}
	}
	return nil
}

// mutate applies fn to the current plan of date ("" means today) and saves it.
func (t *Tracker) mutate(ctx context.Context, userID uuid.UUID, date string, fn func(*models.DailyPlan) error) (*models.DailyPlan, error) {
	defer t.lock(userID)()

	daily, err := t.current(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if err := t.checkDate(ctx, userID, date, daily.Date); err != nil {
		return nil, err
	}
	if err := fn(daily); err != nil {
		return nil, err
	}

	daily.UpdatedAt = t.now()
	if err := store.SetJSON(ctx, t.store, store.DailyPlanKey(userID), daily, 0); err != nil {
		return nil, persistenceError("save daily plan", err)
	}
	return daily, nil
}

func (t *Tracker) checkDate(ctx context.Context, userID uuid.UUID, date, today string) error {
	if date == "" || date == today {
		return nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return &nutrition.InvalidInputError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	if date > today {
		return fmt.Errorf("%w: no daily plan for %s", ErrNotFound, date)
	}
	if _, err := t.store.Get(ctx, store.HistoryKey(userID, date)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: no daily plan for %s", ErrNotFound, date)
		}
		return persistenceError("load history", err)
	}
	return fmt.Errorf("%w: %s", ErrImmutableState, date)
}

// ToggleFoodConsumed flips one food's consumed flag and refreshes its meal.
func (t *Tracker) ToggleFoodConsumed(ctx context.Context, userID uuid.UUID, date, mealID, foodID string) (*models.DailyPlan, error) {
	return t.mutate(ctx, userID, date, func(daily *models.DailyPlan) error {
		meal, ok := daily.Meal(mealID)
		if !ok {
			return fmt.Errorf("%w: meal %s", ErrNotFound, mealID)
		}
		for i := range meal.Foods {
			if meal.Foods[i].ID == foodID {
				meal.Foods[i].Consumed = !meal.Foods[i].Consumed
				meal.RefreshCompleted()
				return nil
			}
		}
		return fmt.Errorf("%w: food %s in meal %s", ErrNotFound, foodID, mealID)
	})
}

// UpdateHydration sets the glasses of water, clamped to [0, HydrationMax].
func (t *Tracker) UpdateHydration(ctx context.Context, userID uuid.UUID, date string, glasses int) (*models.DailyPlan, error) {
	return t.mutate(ctx, userID, date, func(daily *models.DailyPlan) error {
		daily.Hydration.Glasses = ClampGlasses(glasses)
		daily.Hydration.Target = models.HydrationTarget
		return nil
	})
}

// ClampGlasses bounds a hydration value to what is tracked.
func ClampGlasses(glasses int) int {
	if glasses < 0 {
		return 0
	}
	if glasses > models.HydrationMax {
		return models.HydrationMax
	}
	return glasses
}

// Validate rejects values no scale, tracker or user could report.
func (u MetricsUpdate) Validate() error {
	if u.WeightKG != nil && !(*u.WeightKG > 0) {
		return &nutrition.InvalidInputError{Field: "weight_kg", Message: "must be positive"}
	}
	if u.EnergyLevel != nil && (*u.EnergyLevel < 0 || *u.EnergyLevel > 10) {
		return &nutrition.InvalidInputError{Field: "energy_level", Message: "must be between 0 and 10"}
	}
	if u.SleepHours != nil && (*u.SleepHours < 0 || *u.SleepHours > 24) {
		return &nutrition.InvalidInputError{Field: "sleep_hours", Message: "must be between 0 and 24"}
	}
	if u.Steps != nil && *u.Steps < 0 {
		return &nutrition.InvalidInputError{Field: "steps", Message: "must not be negative"}
	}
	return nil
}

// UpdateMetrics merges the supplied fields into today's metrics.
func (t *Tracker) UpdateMetrics(ctx context.Context, userID uuid.UUID, date string, update MetricsUpdate) (*models.DailyPlan, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return t.mutate(ctx, userID, date, func(daily *models.DailyPlan) error {
		m := &daily.Metrics
		if update.WeightKG != nil {
			w := *update.WeightKG
			m.WeightKG = &w
		}
		if update.EnergyLevel != nil {
			m.EnergyLevel = *update.EnergyLevel
		}
		if update.SleepHours != nil {
			m.SleepHours = *update.SleepHours
		}
		if update.Steps != nil {
			m.Steps = *update.Steps
		}
		return nil
	})
}

// RegeneratePlan assembles a new NutritionPlan from the latest answers and
// rebuilds today's meals from it. Hydration and metrics already logged today
// are kept; consumption is reset because the foods changed.
func (t *Tracker) RegeneratePlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, *models.DailyPlan, error) {
	defer t.lock(userID)()

	answers, err := t.answers.LatestAnswers(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	plan, err := t.assembleAndStore(ctx, answers)
	if err != nil {
		return nil, nil, err
	}

	daily, err := t.current(ctx, userID, false)
	if err != nil {
		return nil, nil, err
	}
	if daily.NutritionPlanID == plan.ID {
		// Derived from the new plan just now.
		return plan, daily, nil
	}

	rebuilt := nutrition.DeriveDailyPlan(userID, daily.Date, plan, t.now())
	rebuilt.Hydration = daily.Hydration
	rebuilt.Metrics = daily.Metrics
	rebuilt.CreatedAt = daily.CreatedAt
	if err := store.SetJSON(ctx, t.store, store.DailyPlanKey(userID), rebuilt, 0); err != nil {
		return nil, nil, persistenceError("save daily plan", err)
	}

	t.log.WithFields(logrus.Fields{
		"user_id": userID,
		"date":    rebuilt.Date,
		"plan_id": plan.ID,
	}).Info("Regenerated daily plan")
	return plan, rebuilt, nil
}

// Summary projects today's plan.
func (t *Tracker) Summary(ctx context.Context, userID uuid.UUID) (*nutrition.Summary, error) {
	daily, err := t.GetCurrentDailyPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := nutrition.ComputeSummary(daily)
	return &summary, nil
}

// History returns the archived plans between from and to inclusive, oldest
// first. Days without an archive are skipped.
func (t *Tracker) History(ctx context.Context, userID uuid.UUID, from, to string) ([]models.DailyPlan, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, &nutrition.InvalidInputError{Field: "from", Message: "must be YYYY-MM-DD"}
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, &nutrition.InvalidInputError{Field: "to", Message: "must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return nil, &nutrition.InvalidInputError{Field: "to", Message: "must not be before from"}
	}
	if end.Sub(start) >= MaxHistoryDays*24*time.Hour {
		return nil, &nutrition.InvalidInputError{Field: "to", Message: fmt.Sprintf("range must not exceed %d days", MaxHistoryDays)}
	}
	return t.history(ctx, userID, start, end)
}

func (t *Tracker) history(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.DailyPlan, error) {
	plans := []models.DailyPlan{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var plan models.DailyPlan
		err := store.GetJSON(ctx, t.store, store.HistoryKey(userID, day.Format(dateLayout)), &plan)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, persistenceError("load history", err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Trends aggregates the last days days, today included.
func (t *Tracker) Trends(ctx context.Context, userID uuid.UUID, days int) (*nutrition.TrendReport, error) {
	if days <= 0 || days > MaxHistoryDays {
		return nil, &nutrition.InvalidInputError{Field: "days", Message: fmt.Sprintf("must be between 1 and %d", MaxHistoryDays)}
	}

	current, err := t.GetCurrentDailyPlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	today, _ := time.Parse(dateLayout, current.Date)
	plans := []models.DailyPlan{}
	if days > 1 {
		plans, err = t.history(ctx, userID, today.AddDate(0, 0, -(days-1)), today.AddDate(0, 0, -1))
		if err != nil {
			return nil, err
		}
	}
	plans = append(plans, *current)

	report := nutrition.AggregateTrends(plans)
	return &report, nil
}
