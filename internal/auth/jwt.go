package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vouchwall/testimonial-service/pkg/middleware"
)

// tokenClaims represents the JWT claims carried by dashboard access tokens.
// Tokens are issued by the account service; this service only verifies them.
type tokenClaims struct {
	UserID     string   `json:"user_id"`
	Email      string   `json:"email"`
	ProjectIDs []string `json:"project_ids"`
	jwt.RegisteredClaims
}

// Validator verifies HS256 access tokens.
type Validator struct {
	secret []byte
}

// NewValidator creates a validator for the given shared secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// ValidateToken parses and validates an access token, returning the caller
// claims in the shape the auth middleware expects.
func (v *Validator) ValidateToken(tokenString string) (*middleware.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("access token missing user_id claim")
	}

	return &middleware.Claims{
		UserID:     claims.UserID,
		Email:      claims.Email,
		ProjectIDs: claims.ProjectIDs,
	}, nil
}
