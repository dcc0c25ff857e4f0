package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/pkg/config"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{
		UserID: "user-1",
		Role:   role,
		Email:  "u1@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "slms",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "secret", Issuer: "slms"})

	claims, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, "secret", validClaims(models.RoleCaptain)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleCaptain, claims.Role)
}

func TestAuthServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: "secret", Issuer: "slms"})

	expired := validClaims(models.RoleStudent)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	foreign := validClaims(models.RoleStudent)
	foreign.Issuer = "other"

	unknownRole := validClaims(models.UserRole("PARENT"))

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, "nope", validClaims(models.RoleAdmin)),
		"wrong method": signToken(t, jwt.SigningMethodHS512, "secret", validClaims(models.RoleAdmin)),
		"expired":      signToken(t, jwt.SigningMethodHS256, "secret", expired),
		"issuer":       signToken(t, jwt.SigningMethodHS256, "secret", foreign),
		"role":         signToken(t, jwt.SigningMethodHS256, "secret", unknownRole),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}
