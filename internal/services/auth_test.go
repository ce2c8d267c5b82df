package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/platform/ctxutil"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	as := NewAuthService(logNop(), testSecret, "", 0, false)

	tok, err := as.Issue("Organizer@LosAltosHacks.com")
	require.NoError(t, err)

	ctx, err := as.SetContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	ad := ctxutil.GetAuthData(ctx)
	require.NotNil(t, ad)
	assert.Equal(t, "organizer@losaltoshacks.com", ad.Email)
	assert.False(t, ad.Bypass)
}

func TestOutsideDomainIsRejected(t *testing.T) {
	as := NewAuthService(logNop(), testSecret, "losaltoshacks.com", time.Hour, false)
	tok, err := as.Issue("someone@gmail.com")
	require.NoError(t, err)

	_, err = as.SetContextFromToken(context.Background(), tok)
	assert.True(t, apierr.HasCode(err, apierr.CodeUnauthenticated))
}

func TestExpiredTokenIsRejected(t *testing.T) {
	as := NewAuthService(logNop(), testSecret, "", time.Hour, false).(*authService)
	as.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := as.Issue("a@losaltoshacks.com")
	require.NoError(t, err)

	as.now = time.Now
	_, err = as.SetContextFromToken(context.Background(), tok)
	assert.True(t, apierr.HasCode(err, apierr.CodeUnauthenticated))
}

func TestTokenSignedWithOtherKeyOrMethodIsRejected(t *testing.T) {
	as := NewAuthService(logNop(), testSecret, "", 0, false)
	other := NewAuthService(logNop(), "other", "", 0, false)
	tok, err := other.Issue("a@losaltoshacks.com")
	require.NoError(t, err)
	_, err = as.SetContextFromToken(context.Background(), tok)
	assert.True(t, apierr.HasCode(err, apierr.CodeUnauthenticated))

	claims := JWTClaims{Email: "a@losaltoshacks.com", Expiration: time.Now().Add(time.Hour).UnixMilli(), IsLAH: true}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = as.SetContextFromToken(context.Background(), none)
	assert.True(t, apierr.HasCode(err, apierr.CodeUnauthenticated))

	_, err = as.SetContextFromToken(context.Background(), "")
	assert.True(t, apierr.HasCode(err, apierr.CodeUnauthenticated))
}

func TestDisabledAuthBypasses(t *testing.T) {
	as := NewAuthService(logNop(), "", "", 0, true)
	assert.True(t, as.Disabled())
	ctx, err := as.SetContextFromToken(context.Background(), "")
	require.NoError(t, err)
	ad := ctxutil.GetAuthData(ctx)
	require.NotNil(t, ad)
	assert.True(t, ad.Bypass)
}
