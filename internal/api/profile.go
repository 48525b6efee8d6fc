package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type ProfileHandler struct {
	profileService service.IProfileService
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/questionnaire", h.SubmitQuestionnaire)
	router.GET("/questionnaire", h.GetQuestionnaire)
	router.PATCH("/profile", h.UpdateProfile)
	router.GET("/profile/history", h.GetProfileHistory)
}

func (h *ProfileHandler) SubmitQuestionnaire(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.profileService.SubmitQuestionnaire(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ProfileHandler) GetQuestionnaire(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	answers, err := h.profileService.GetQuestionnaire(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProfileHandler) GetProfileHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	history, err := h.profileService.GetProfileHistory(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
