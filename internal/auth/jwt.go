// Package auth issues and validates the operator tokens that guard the
// admin endpoints. There are no end-user accounts: calculations are public.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the only role the API recognises.
const RoleAdmin = "admin"

// DefaultAdminTokenExpiry is used when no explicit lifetime is requested.
const DefaultAdminTokenExpiry = 12 * time.Hour

// Predefined JWT errors.
var (
	ErrInvalidToken     = errors.New("invalid admin token")
	ErrTokenExpired     = errors.New("admin token has expired")
	ErrInsufficientRole = errors.New("token does not carry the admin role")
	ErrMissingSubject   = errors.New("operator name is required")
	ErrMissingKey       = errors.New("signing key is required")
)

// AdminClaims represents the claims in an operator token.
type AdminClaims struct {
	jwt.RegisteredClaims

	// Role must be RoleAdmin for the admin endpoints.
	Role string `json:"role"`
}

// Operator returns the operator name carried in the subject claim.
func (c *AdminClaims) Operator() string {
	return c.Subject
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

// JWTConfig holds configuration for the JWT service.
type JWTConfig struct {
	// SigningKey is the secret key used to sign JWTs.
	SigningKey string

	// Issuer is the issuer claim for tokens (e.g., "alcoholemia-api").
	Issuer string

	// Audience is the audience claim for tokens (e.g., "alcoholemia-admin").
	Audience string
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingKey
	}
	return &JWTService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		now:        time.Now,
	}, nil
}

// GenerateAdminToken creates a signed admin token for the named operator.
// A zero ttl uses DefaultAdminTokenExpiry.
func (s *JWTService) GenerateAdminToken(operator string, ttl time.Duration) (string, time.Time, error) {
	if operator == "" {
		return "", time.Time{}, ErrMissingSubject
	}
	if ttl <= 0 {
		ttl = DefaultAdminTokenExpiry
	}

	now := s.now()
	expiresAt := now.Add(ttl)

	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   operator,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Role: RoleAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing admin token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAdminToken validates a token and checks that it carries the admin role.
func (s *JWTService) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin {
		return nil, ErrInsufficientRole
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, ErrMissingSubject.Error())
	}

	return claims, nil
}
