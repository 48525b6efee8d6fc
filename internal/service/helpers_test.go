package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/logging"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/store"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubResolver returns two fixed foods per bucket.
type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, bucket models.Bucket, prefs models.DietaryPreferences, target int) []models.FoodItem {
	return []models.FoodItem{
		{ID: fmt.Sprintf("%s-1", bucket), Name: string(bucket) + " one", Calories: 300, ProteinG: 20},
		{ID: fmt.Sprintf("%s-2", bucket), Name: string(bucket) + " two", Calories: 200, ProteinG: 10},
	}
}

type mockArchiveSink struct {
	mock.Mock
}

func (m *mockArchiveSink) Archive(ctx context.Context, plan *models.DailyPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// flakyStore fails every operation on keys with a matching prefix while failing is set.
type flakyStore struct {
	store.Store
	mu      sync.Mutex
	prefix  string
	failing bool
}

var errStoreDown = errors.New("store unavailable")

func (s *flakyStore) fail(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failing && strings.HasPrefix(key, s.prefix)
}

func (s *flakyStore) SetFailing(prefix string, failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefix, s.failing = prefix, failing
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.fail(key) {
		return nil, errStoreDown
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.fail(key) {
		return errStoreDown
	}
	return s.Store.Set(ctx, key, value, ttl)
}

type trackerFixture struct {
	db      *gorm.DB
	store   *flakyStore
	repo    *service.QuestionnaireRepository
	clock   *fakeClock
	tracker *service.Tracker
	userID  uuid.UUID
}

func newTrackerFixture(t *testing.T, sinks ...service.ArchiveSink) *trackerFixture {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	st := &flakyStore{Store: store.NewSQLStore(db)}
	repo := service.NewQuestionnaireRepository(db)
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	log := logging.Discard()

	assembler := service.NewPlanAssembler(stubResolver{}, db, clock.Now, log)
	tracker := service.NewTracker(st, assembler, repo, service.TrackerOptions{
		Clock: clock,
		Sinks: sinks,
	}, log)

	return &trackerFixture{
		db:      db,
		store:   st,
		repo:    repo,
		clock:   clock,
		tracker: tracker,
		userID:  uuid.New(),
	}
}

func (f *trackerFixture) submitAnswers(t *testing.T) *models.QuestionnaireAnswers {
	t.Helper()
	answers := testhelpers.SampleAnswers(f.userID)
	require.NoError(t, f.repo.Save(context.Background(), answers, nil))
	return answers
}

func allFoods(plan *models.DailyPlan) []models.FoodItem {
	var foods []models.FoodItem
	for _, m := range plan.Meals {
		foods = append(foods, m.Foods...)
	}
	return foods
}
