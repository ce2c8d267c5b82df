package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/losaltoshacks/registration-backend/internal/http/response"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth rejects requests without a valid organiser bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), extractBearer(c))
		if err != nil {
			if !apierr.HasCode(err, apierr.CodeUnauthenticated) {
				am.log.Error("token check failed", "error", err)
				err = apierr.Unauthenticated("Not authenticated")
			}
			response.AbortError(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
