package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/losaltoshacks/registration-backend/internal/http/response"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

type DiscordHandler struct {
	svc services.DiscordService
}

func NewDiscordHandler(svc services.DiscordService) *DiscordHandler {
	return &DiscordHandler{svc: svc}
}

// POST /discord-verify
func (h *DiscordHandler) Verify(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	role, err := h.svc.Lookup(c.Request.Context(), req.Email)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, role)
}
