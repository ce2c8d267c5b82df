package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/http/response"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

// RegistrantHandler serves the versioned-record endpoints of one kind.
// D is the kind's partial update body and F its structured search filter.
type RegistrantHandler[T any, P registrant.Record[T], D registrant.Delta[T], F registrant.Filter] struct {
	svc      services.RegistrantService[T, P]
	redirect string
}

func NewRegistrantHandler[T any, P registrant.Record[T], D registrant.Delta[T], F registrant.Filter](
	svc services.RegistrantService[T, P],
	confirmationRedirect string,
) *RegistrantHandler[T, P, D, F] {
	return &RegistrantHandler[T, P, D, F]{svc: svc, redirect: strings.TrimSpace(confirmationRedirect)}
}

func (h *RegistrantHandler[T, P, D, F]) Schema() services.Schema { return h.svc.Schema() }

func (h *RegistrantHandler[T, P, D, F]) externalID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return uuid.Nil, apierr.NotFound("%s does not exist", h.svc.Schema().Kind.Label())
	}
	return id, nil
}

// POST /signup
func (h *RegistrantHandler[T, P, D, F]) Signup(c *gin.Context) {
	in := P(new(T))
	if err := c.ShouldBindJSON(in); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	res, err := h.svc.Signup(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondStatus(c, res.Message)
}

// GET /verify/:id/:token
func (h *RegistrantHandler[T, P, D, F]) Verify(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondError(c, apierr.CouldNotVerify())
		return
	}
	if err := h.svc.Verify(c.Request.Context(), id, c.Param("token")); err != nil {
		response.RespondError(c, err)
		return
	}
	if h.redirect != "" {
		c.Redirect(http.StatusFound, h.redirect)
		return
	}
	response.RespondStatus(c, "")
}

// POST /modify/:id
func (h *RegistrantHandler[T, P, D, F]) Modify(c *gin.Context) {
	id, err := h.externalID(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var delta D
	if err := c.ShouldBindJSON(&delta); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	res, err := h.svc.Modify(c.Request.Context(), id, delta)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if res.Unchanged {
		response.RespondStatus(c, "unchanged")
		return
	}
	response.RespondStatus(c, "")
}

// GET /list
func (h *RegistrantHandler[T, P, D, F]) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /search
// body: { "query": "free text" } or { "query": { ...filter fields } }
func (h *RegistrantHandler[T, P, D, F]) Search(c *gin.Context) {
	var req struct {
		Query json.RawMessage `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validation("%s", err.Error()))
		return
	}
	raw := bytes.TrimSpace(req.Query)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		response.RespondError(c, apierr.Validation("query is required"))
		return
	}

	var (
		rows []T
		err  error
	)
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			response.RespondError(c, apierr.Validation("query must be a string or an object"))
			return
		}
		rows, err = h.svc.SearchText(c.Request.Context(), text)
	case '{':
		var filter F
		if err := json.Unmarshal(raw, &filter); err != nil {
			response.RespondError(c, apierr.Validation("%s", err.Error()))
			return
		}
		rows, err = h.svc.SearchFilter(c.Request.Context(), filter)
	default:
		response.RespondError(c, apierr.Validation("query must be a string or an object"))
		return
	}
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /history/:id
func (h *RegistrantHandler[T, P, D, F]) History(c *gin.Context) {
	id, err := h.externalID(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /delete/:id
func (h *RegistrantHandler[T, P, D, F]) Delete(c *gin.Context) {
	id, err := h.externalID(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondStatus(c, "")
}
