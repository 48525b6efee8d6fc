// Package store is the key-value persistence used for nutrition plans,
// the current daily plan and the daily plan archive.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is a user-scoped key-value store. Each Set is atomic for its key;
// concurrent writers are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NutritionPlanKey holds the user's current NutritionPlan.
func NutritionPlanKey(userID uuid.UUID) string {
	return fmt.Sprintf("nutrition_plan_%s", userID)
}

// DailyPlanKey holds the user's current DailyPlan.
func DailyPlanKey(userID uuid.UUID) string {
	return fmt.Sprintf("daily_plan_%s", userID)
}

// HistoryKey holds the archived DailyPlan of one date (YYYY-MM-DD).
func HistoryKey(userID uuid.UUID, date string) string {
	return fmt.Sprintf("history_%s_%s", userID, date)
}

// GetJSON loads key and decodes it into v.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}
