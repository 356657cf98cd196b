package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alcoholemia/alcoholemia/internal/auth"
)

const (
	testKey      = "test-secret-key-for-testing-only"
	testIssuer   = "alcoholemia-api"
	testAudience = "alcoholemia-admin"
)

func newTestJWTService(t *testing.T, key, issuer, audience string) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{
		SigningKey: key,
		Issuer:     issuer,
		Audience:   audience,
	})
	require.NoError(t, err)
	return svc
}

func signRaw(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	require.NoError(t, err)
	return token
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := auth.NewJWTService(auth.JWTConfig{Issuer: testIssuer})
	assert.ErrorIs(t, err, auth.ErrMissingKey)
}

func TestJWTService_GenerateAndValidateAdminToken(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)

	token, expiresAt, err := svc.GenerateAdminToken("ops-lucia", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops-lucia", claims.Operator())
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_DefaultExpiry(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)

	_, expiresAt, err := svc.GenerateAdminToken("ops", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultAdminTokenExpiry), expiresAt, 5*time.Second)
}

func TestJWTService_RequiresOperator(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)

	_, _, err := svc.GenerateAdminToken("", time.Hour)
	assert.ErrorIs(t, err, auth.ErrMissingSubject)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)

	t1, _, err := svc.GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)
	t2, _, err := svc.GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)

	c1, err := svc.ValidateAdminToken(t1)
	require.NoError(t, err)
	c2, err := svc.ValidateAdminToken(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAdminToken(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	token, _, err := newTestJWTService(t, "key-one", testIssuer, testAudience).GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)

	_, err = newTestJWTService(t, "key-two", testIssuer, testAudience).ValidateAdminToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_WrongIssuer(t *testing.T) {
	token, _, err := newTestJWTService(t, testKey, "issuer-one", testAudience).GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)

	_, err = newTestJWTService(t, testKey, "issuer-two", testAudience).ValidateAdminToken(token)
	assert.Error(t, err)
}

func TestJWTService_WrongAudience(t *testing.T) {
	token, _, err := newTestJWTService(t, testKey, testIssuer, "audience-one").GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)

	_, err = newTestJWTService(t, testKey, testIssuer, "audience-two").ValidateAdminToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)
	past := time.Now().Add(-2 * time.Hour)

	token := signRaw(t, auth.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "ops",
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
		Role: auth.RoleAdmin,
	})

	_, err := svc.ValidateAdminToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestJWTService_RequiresAdminRole(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)

	token := signRaw(t, auth.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "someone",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "viewer",
	})

	_, err := svc.ValidateAdminToken(token)
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	svc := newTestJWTService(t, testKey, testIssuer, testAudience)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "ops",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: auth.RoleAdmin,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAdminToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
