package ctxutil

import "context"

type authDataKey struct{}

// AuthData is the caller identity recovered from a verified bearer token.
type AuthData struct {
	Email string
	// Bypass is set when authentication is disabled for local development.
	Bypass bool
}

func WithAuthData(ctx context.Context, ad *AuthData) context.Context {
	return context.WithValue(ctx, authDataKey{}, ad)
}

func GetAuthData(ctx context.Context) *AuthData {
	if ad, ok := ctx.Value(authDataKey{}).(*AuthData); ok {
		return ad
	}
	return nil
}
