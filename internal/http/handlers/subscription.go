package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/losaltoshacks/registration-backend/internal/http/response"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

type SubscriptionHandler struct {
	svc services.SubscriptionService
}

func NewSubscriptionHandler(svc services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// POST /subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	if err := h.svc.Subscribe(c.Request.Context(), req.Email); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondStatus(c, "")
}

// GET /subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	emails, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, emails)
}
