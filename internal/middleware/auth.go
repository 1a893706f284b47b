package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/config"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/response"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextEmail     = "email"
	ContextTokenHash = "tokenHash"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed, time-limited JWT for a user.
func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().JWTExpirationDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "fintrack-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseToken parses and validates a signed token, returning its claims.
func ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// TokenStore answers whether a token hash is in a user's active-token set.
type TokenStore interface {
	IsTokenActive(userID uint, tokenHash string) bool
}

// RoleResolver resolves a user ID to its authorization role.
type RoleResolver interface {
	GetUserRole(userID uint) (models.Role, error)
}

// AuthMiddleware verifies the bearer token, checks it against the user's
// active-token set, and sets the user identity in the context. Any failure
// aborts the request before handler logic runs.
func AuthMiddleware(store TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, "Authorization header is required", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		// A structurally valid token is rejected once it leaves the user's
		// active set (logout, account deletion).
		tokenHash := HashToken(parts[1])
		if !store.IsTokenActive(claims.UserID, tokenHash) {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextTokenHash, tokenHash)
		c.Next()
	}
}

// RequireAdmin rejects requests from callers whose role is not admin.
// Must run after AuthMiddleware.
func RequireAdmin(roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			response.Fail(c, apperrors.ErrUnauthorized.StatusCode, apperrors.ErrUnauthorized.Message, nil)
			c.Abort()
			return
		}

		role, err := roles.GetUserRole(userID.(uint))
		if err != nil || !role.IsAdmin() {
			response.Fail(c, apperrors.ErrForbidden.StatusCode, apperrors.ErrForbidden.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
