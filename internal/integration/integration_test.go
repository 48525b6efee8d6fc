package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/logging"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/server"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/store"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
)

// TestPostgresRedisStack runs the HTTP surface against real Postgres and Redis.
func TestPostgresRedisStack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupPostgresDatabase(t)
	redisClient := testhelpers.StartRedis(t)
	host, port, err := net.SplitHostPort(redisClient.Options().Addr)
	require.NoError(t, err)

	cfg := &config.Config{
		ServerHost:         "localhost",
		ServerPort:         "0",
		CORSAllowedOrigins: []string{"*"},
		JWTSecret:          "integration-secret",
		TokenTTL:           time.Hour,
		StoreBackend:       "redis",
		StorePrefix:        "it",
		RedisHost:          host,
		RedisPort:          port,
		Location:           time.UTC,
		SuggestionTimeout:  time.Second,
		SuggestionCount:    service.DefaultSuggestionCount,
		RegenerateLimit:    2,
		RegenerateWindow:   time.Hour,
	}

	srv, err := server.New(context.Background(), cfg, db, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	userID := uuid.New()
	token, err := srv.Tokens.GenerateToken(userID, "integration")
	require.NoError(t, err)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, "/api/v1"+path, &buf)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)

	w = do(http.MethodPost, "/questionnaire", gin.H{
		"age": 30, "sex": "male", "height_cm": 180, "weight_kg": 80, "target_weight_kg": 72,
		"activity_level": "moderate", "goal": "lose_weight",
		"preferences": gin.H{"diet_type": "vegetarian", "allergies": []string{"peanuts"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(http.MethodPut, "/daily/hydration", gin.H{"glasses": 5})
	require.Equal(t, http.StatusOK, w.Code)

	// The daily plan lives in Redis under the configured prefix.
	exists, err := redisClient.Exists(context.Background(), "it:"+store.DailyPlanKey(userID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	w = do(http.MethodPatch, "/profile", gin.H{"goal": "maintain"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result service.ProfileResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Regenerated)
	assert.Equal(t, 2, result.Answers.Version)
	assert.Equal(t, 2759, result.Plan.Macros.Calories)
	require.NotNil(t, result.DailyPlan)
	assert.Equal(t, 5, result.DailyPlan.Hydration.Glasses)

	w = do(http.MethodGet, "/profile/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"goal"`)

	w = do(http.MethodGet, "/plan/records", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records struct {
		Records []models.NutritionPlanRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records.Records, 2)
	assert.Equal(t, 2, records.Records[0].QuestionnaireVersion)

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/plan/regenerate", nil).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/plan/regenerate", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/plan/regenerate", nil).Code)
}
