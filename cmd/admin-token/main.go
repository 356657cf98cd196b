// Command admin-token prints a signed operator token for the admin API.
//
// Usage:
//
//	JWT_SIGNING_KEY=... admin-token -operator lucia -ttl 2h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/alcoholemia/alcoholemia/internal/auth"
)

func main() {
	operator := flag.String("operator", "", "operator name stored in the token subject (required)")
	ttl := flag.Duration("ttl", auth.DefaultAdminTokenExpiry, "token lifetime")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	_ = godotenv.Load()

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		SigningKey: os.Getenv("JWT_SIGNING_KEY"),
		Issuer:     "alcoholemia-api",
		Audience:   "alcoholemia-admin",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SIGNING_KEY must be set")
	}

	token, expiresAt, err := jwtService.GenerateAdminToken(*operator, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate token")
	}

	log.Info().
		Str("operator", *operator).
		Time("expires_at", expiresAt.UTC().Truncate(time.Second)).
		Msg("admin token issued")
	fmt.Println(token)
}
