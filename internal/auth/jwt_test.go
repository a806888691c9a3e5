package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing"

// generateToken creates a signed JWT token with the given claims and secret.
func generateToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func TestValidateToken_ValidToken(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     "user-123",
		"email":       "owner@example.com",
		"project_ids": []string{"proj-1", "proj-2"},
		"exp":         jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	claims, err := NewValidator(testSecret).ValidateToken(tokenString)

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, []string{"proj-1", "proj-2"}, claims.ProjectIDs)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
	})

	claims, err := NewValidator(testSecret).ValidateToken(tokenString)

	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tokenString := generateToken(t, "some-other-secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	claims, err := NewValidator(testSecret).ValidateToken(tokenString)

	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestValidateToken_MissingUserID(t *testing.T) {
	tokenString := generateToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "owner@example.com",
		"exp":   jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})

	claims, err := NewValidator(testSecret).ValidateToken(tokenString)

	assert.Nil(t, claims)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}

func TestValidateToken_GarbageToken(t *testing.T) {
	claims, err := NewValidator(testSecret).ValidateToken("not.a.jwt")

	assert.Nil(t, claims)
	assert.Error(t, err)
}
