package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

func TestNewWithConfigServesHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dsn := "sqlite:" + filepath.Join(t.TempDir(), "app.db")
	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"DATABASE_DSN":    dsn,
		"AUTH_JWT_SECRET": "app-secret",
	}})
	require.NoError(t, err)

	ctx := context.Background()
	a, err := NewWithConfig(ctx, logger.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(ctx) })

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registration/v1/list", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := a.Services.Auth.Issue("organizer@losaltoshacks.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/registration/v1/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewWithConfigRejectsMissingSendGridKey(t *testing.T) {
	dsn := "sqlite:" + filepath.Join(t.TempDir(), "app.db")
	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"DATABASE_DSN":    dsn,
		"AUTH_JWT_SECRET": "app-secret",
		"MAIL_PROVIDER":   "sendgrid",
	}})
	require.NoError(t, err)

	_, err = NewWithConfig(context.Background(), logger.NewNop(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sendgrid")
}
