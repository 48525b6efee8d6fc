package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// trendRanges maps the range query parameter to a number of days.
var trendRanges = map[string]int{
	"week":  7,
	"month": 30,
}

type DailyHandler struct {
	tracker service.ITracker
}

func NewDailyHandler(tracker service.ITracker) *DailyHandler {
	return &DailyHandler{tracker: tracker}
}

func (h *DailyHandler) RegisterRoutes(router *gin.RouterGroup) {
	daily := router.Group("/daily")
	{
		daily.GET("", h.GetDailyPlan)
		daily.POST("/meals/:mealId/foods/:foodId/toggle", h.ToggleFood)
		daily.PUT("/hydration", h.UpdateHydration)
		daily.PATCH("/metrics", h.UpdateMetrics)
		daily.GET("/summary", h.GetSummary)
	}
	router.GET("/history", h.GetHistory)
	router.GET("/trends", h.GetTrends)
}

func (h *DailyHandler) GetDailyPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	plan, err := h.tracker.GetCurrentDailyPlan(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *DailyHandler) ToggleFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// The body is optional; an empty one targets today.
	var req types.ToggleFoodRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	plan, err := h.tracker.ToggleFoodConsumed(c.Request.Context(), userID, req.Date, c.Param("mealId"), c.Param("foodId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *DailyHandler) UpdateHydration(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.HydrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	plan, err := h.tracker.UpdateHydration(c.Request.Context(), userID, req.Date, *req.Glasses)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *DailyHandler) UpdateMetrics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	update := service.MetricsUpdate{
		WeightKG:    req.WeightKG,
		EnergyLevel: req.EnergyLevel,
		SleepHours:  req.SleepHours,
		Steps:       req.Steps,
	}
	plan, err := h.tracker.UpdateMetrics(c.Request.Context(), userID, req.Date, update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *DailyHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := h.tracker.Summary(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DailyHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	from, to := c.Query("from"), c.Query("to")
	plans, err := h.tracker.History(c.Request.Context(), userID, from, to)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "days": plans})
}

func (h *DailyHandler) GetTrends(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	days, ok := trendRanges[c.DefaultQuery("range", "week")]
	if !ok {
		_ = c.Error(&nutrition.InvalidInputError{Field: "range", Message: "must be week or month"})
		return
	}

	report, err := h.tracker.Trends(c.Request.Context(), userID, days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}
