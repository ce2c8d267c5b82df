package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/losaltoshacks/registration-backend/internal/http/response"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

// Envelope callbacks are small; anything larger is not a status update.
const maxCallbackBytes = 1 << 20

type WaiverHandler struct {
	svc services.WaiverService
}

func NewWaiverHandler(svc services.WaiverService) *WaiverHandler {
	return &WaiverHandler{svc: svc}
}

// POST /sign
// body: DocuSign envelope status XML
func (h *WaiverHandler) Sign(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxCallbackBytes))
	if err != nil {
		response.RespondError(c, apierr.MalformedCallback("bad xml"))
		return
	}
	if _, err := h.svc.HandleCallback(c.Request.Context(), body); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondStatus(c, "")
}

// GET /receipts?email=
func (h *WaiverHandler) Receipts(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.RespondError(c, apierr.Validation("email is required"))
		return
	}
	rows, err := h.svc.Receipts(c.Request.Context(), email)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}
