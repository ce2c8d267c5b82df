package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/ctxutil"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	auth := services.NewAuthService(logger.NewNop(), "secret", "", 0, false)
	am := NewAuthMiddleware(logger.NewNop(), auth)

	r := gin.New()
	r.GET("/p", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetAuthData(c.Request.Context()).Email)
	})

	rec := do(r, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Not authenticated"`)

	tok, err := auth.Issue("lead@losaltoshacks.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	rec = do(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lead@losaltoshacks.com", rec.Body.String())
}

func TestBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cases := []struct {
		name  string
		creds BasicCredentials
		user  string
		pass  string
		want  int
	}{
		{"plain ok", BasicCredentials{Username: "docusign", Password: "s3cret"}, "docusign", "s3cret", http.StatusOK},
		{"bcrypt ok", BasicCredentials{Username: "docusign", Password: string(hash)}, "docusign", "s3cret", http.StatusOK},
		{"wrong password", BasicCredentials{Username: "docusign", Password: "s3cret"}, "docusign", "nope", http.StatusUnauthorized},
		{"wrong user", BasicCredentials{Username: "docusign", Password: string(hash)}, "x", "s3cret", http.StatusUnauthorized},
		{"unconfigured", BasicCredentials{}, "", "", http.StatusUnauthorized},
		{"disabled", BasicCredentials{Disabled: true}, "", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/w", BasicAuth(tc.creds), func(c *gin.Context) { c.Status(http.StatusOK) })
			req := httptest.NewRequest(http.MethodPost, "/w", nil)
			if tc.user != "" {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			assert.Equal(t, tc.want, do(r, req).Code)
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/t", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := do(r, req)
	assert.Equal(t, "req-1", rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get(headerRequestID))
	assert.NotEmpty(t, rec.Header().Get(headerTraceID))

	req = httptest.NewRequest(http.MethodGet, "/t", nil).WithContext(context.Background())
	req.Header.Set(headerRequestID, strings.Repeat("x", maxRequestIDLen+1))
	rec = do(r, req)
	assert.Len(t, rec.Body.String(), 36, "oversized ids are replaced")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := observability.NewMetrics("test")
	r := gin.New()
	r.Use(Metrics(m, "/metrics"))
	r.GET("/registration/v1/history/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, httptest.NewRequest(http.MethodGet, "/registration/v1/history/abc", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/registration/v1/history/def", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	n, err := testutil.GatherAndCount(m.Registry(), "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "one series for the templated route, none for scrapes")
}
