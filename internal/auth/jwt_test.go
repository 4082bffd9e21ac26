package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velaflam/storefront/internal/domain"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate("admin-1", "admin@velaflam.local", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin@velaflam.local", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestJWTManager_Validate_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate("admin-1", "admin@velaflam.local", domain.RoleAdmin)
	require.NoError(t, err)

	other := NewJWTManager("different-secret", time.Hour)
	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTManager_Validate_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate("admin-1", "admin@velaflam.local", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.Error(t, err)
}

func TestJWTManager_Validate_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	_, err := manager.Validate("not-a-token")
	assert.Error(t, err)
}
