package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
)

// APIError is the body of every failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondError writes err as an APIError. Errors that are not *apierr.Error
// are reported as a generic 500 so internals do not leak.
func RespondError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, APIError{Message: apiErr.Error(), Code: apiErr.Code})
		return
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusInternalServerError, APIError{Message: "internal server error", Code: apierr.CodeInternal})
}

// AbortError is RespondError for middleware.
func AbortError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Status is the body of plain successful mutations.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func RespondStatus(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Status{Status: "ok", Message: message})
}
