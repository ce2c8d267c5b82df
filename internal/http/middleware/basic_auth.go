package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/losaltoshacks/registration-backend/internal/http/response"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
)

// BasicCredentials guards callbacks from a third party that cannot hold a
// bearer token. Password may be a bcrypt hash.
type BasicCredentials struct {
	Username string
	Password string
	Disabled bool
}

func (bc BasicCredentials) match(user, pass string) bool {
	if bc.Username == "" || bc.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(bc.Username)) == 1
	var passOK bool
	if isBcrypt(bc.Password) {
		passOK = bcrypt.CompareHashAndPassword([]byte(bc.Password), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(bc.Password)) == 1
	}
	return userOK && passOK
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func BasicAuth(creds BasicCredentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		if creds.Disabled {
			c.Next()
			return
		}
		user, pass, ok := c.Request.BasicAuth()
		if !ok || !creds.match(user, pass) {
			c.Header("WWW-Authenticate", `Basic realm="waiver"`)
			response.AbortError(c, apierr.Unauthenticated("Not authenticated"))
			return
		}
		c.Next()
	}
}
