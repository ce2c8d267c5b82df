package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/losaltoshacks/registration-backend/internal/http/response"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

type DayOfHandler struct {
	svc services.DayOfService
}

func NewDayOfHandler(svc services.DayOfService) *DayOfHandler {
	return &DayOfHandler{svc: svc}
}

// POST /sign-in
// body: { "user_id": "...", "badge_data": "..." }
func (h *DayOfHandler) SignIn(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		BadgeData string `json:"badge_data" binding:"required,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	if err := h.svc.SignIn(c.Request.Context(), req.UserID, req.BadgeData); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondStatus(c, "")
}

// POST /sign-out
func (h *DayOfHandler) SignOut(c *gin.Context) {
	var req struct {
		BadgeData string `json:"badge_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	if err := h.svc.SignOut(c.Request.Context(), req.BadgeData); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondStatus(c, "")
}

// POST /meal
// body: { "badge_data": "...", "meal_number": 1, "allowed_servings": 1 }
func (h *DayOfHandler) Meal(c *gin.Context) {
	var req struct {
		BadgeData       string `json:"badge_data" binding:"required"`
		MealNumber      *int   `json:"meal_number" binding:"required"`
		AllowedServings *int   `json:"allowed_servings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	if err := h.svc.Meal(c.Request.Context(), req.BadgeData, *req.MealNumber, *req.AllowedServings); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondStatus(c, "Servings received incremented")
}

// GET /sign-in
func (h *DayOfHandler) Counts(c *gin.Context) {
	counts, err := h.svc.Counts(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, counts)
}
