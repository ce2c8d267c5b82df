package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/losaltoshacks/registration-backend/internal/normalization"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/platform/ctxutil"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

const (
	DefaultOrganizerDomain = "losaltoshacks.com"
	DefaultTokenTTL        = 24 * time.Hour
)

// JWTClaims is the bearer token payload. Expiration is in epoch
// milliseconds; IsLAH marks organiser accounts.
type JWTClaims struct {
	Email      string `json:"email"`
	Expiration int64  `json:"expiration"`
	IsLAH      bool   `json:"is_lah"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SetContextFromToken verifies tokenString and returns ctx carrying the
	// caller's AuthData. With authentication disabled every call succeeds.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	// Issue signs a token for email valid for the configured TTL.
	Issue(email string) (string, error)
	Disabled() bool
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	domain       string
	ttl          time.Duration
	disabled     bool
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, jwtSecretKey, organizerDomain string, ttl time.Duration, disabled bool) AuthService {
	domain := normalization.ParseInputString(organizerDomain)
	if domain == "" {
		domain = DefaultOrganizerDomain
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
		domain:       domain,
		ttl:          ttl,
		disabled:     disabled,
		now:          time.Now,
	}
}

func (as *authService) Disabled() bool { return as.disabled }

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if as.disabled {
		return ctxutil.WithAuthData(ctx, &ctxutil.AuthData{Bypass: true}), nil
	}
	if tokenString == "" {
		return ctx, apierr.Unauthenticated("Not authenticated")
	}
	if len(as.jwtSecretKey) == 0 {
		return ctx, errors.New("jwt secret not configured")
	}

	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		as.log.Debug("token rejected", "error", err)
		return ctx, apierr.Unauthenticated("Not authenticated")
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Unauthenticated("Not authenticated")
	}
	if claims.Expiration <= as.now().UnixMilli() || !claims.IsLAH {
		return ctx, apierr.Unauthenticated("Not authenticated")
	}
	return ctxutil.WithAuthData(ctx, &ctxutil.AuthData{Email: claims.Email}), nil
}

func (as *authService) Issue(email string) (string, error) {
	if len(as.jwtSecretKey) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	email = normalization.ParseInputString(email)
	now := as.now()
	claims := JWTClaims{
		Email:      email,
		Expiration: now.Add(as.ttl).UnixMilli(),
		IsLAH:      normalization.EmailDomain(email) == as.domain,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
