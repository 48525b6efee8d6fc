package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
)

type PlanHandler struct {
	tracker service.ITracker
	audit   service.IPlanAuditLog
	limiter *middleware.RateLimiter
}

func NewPlanHandler(tracker service.ITracker, audit service.IPlanAuditLog, limiter *middleware.RateLimiter) *PlanHandler {
	return &PlanHandler{tracker: tracker, audit: audit, limiter: limiter}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plan := router.Group("/plan")
	{
		plan.GET("", h.GetPlan)
		if h.limiter != nil {
			plan.POST("/regenerate", h.limiter.RateLimitMiddleware(), h.Regenerate)
		} else {
			plan.POST("/regenerate", h.Regenerate)
		}
		if h.audit != nil {
			plan.GET("/records", h.GetRecords)
		}
	}
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	plan, err := h.tracker.CurrentNutritionPlan(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Regenerate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	plan, daily, err := h.tracker.RegeneratePlan(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan, "daily_plan": daily})
}

func (h *PlanHandler) GetRecords(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	records, err := h.audit.PlanRecords(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
