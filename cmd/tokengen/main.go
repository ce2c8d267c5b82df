// Command tokengen mints a bearer token for the organiser API.
//
//	AUTH_JWT_SECRET=... go run ./cmd/tokengen -email someone@losaltoshacks.com
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/losaltoshacks/registration-backend/internal/app"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

func main() {
	email := flag.String("email", "", "organiser email the token is issued to")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL)")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	auth := services.NewAuthService(logger.NewNop(), cfg.Auth.JWTSecret, cfg.Auth.Domain, lifetime, false)
	token, err := auth.Issue(*email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
