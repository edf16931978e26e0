package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/config"
	"clinic-backend/internal/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
}

func TestJWTGenerateAndValidate(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "clinic-backend"

	manager := NewJWTManager(cfg)

	tenantID := 4
	token, err := manager.GenerateToken(&models.User{
		ID:       12,
		TenantID: &tenantID,
		Email:    "reception@cityclinic.in",
		Role:     "receptionist",
	})
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 12, claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, 4, *claims.TenantID)
	assert.Equal(t, "receptionist", claims.Role)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "secret-a"
	cfg.JWT.ExpirationHours = 1

	other := &config.Config{}
	other.JWT.Secret = "secret-b"
	other.JWT.ExpirationHours = 1

	token, err := NewJWTManager(cfg).GenerateToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}
