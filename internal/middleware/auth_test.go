package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
)

type stubTokenStore struct {
	activeFn func(userID uint, tokenHash string) bool
}

func (s *stubTokenStore) IsTokenActive(userID uint, tokenHash string) bool {
	if s.activeFn != nil {
		return s.activeFn(userID, tokenHash)
	}
	return true
}

type stubRoleResolver struct {
	role models.Role
	err  error
}

func (s *stubRoleResolver) GetUserRole(_ uint) (models.Role, error) {
	return s.role, s.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupProtectedRouter(store TokenStore) *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(store), func(c *gin.Context) {
		userID, _ := c.Get(ContextUserID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 42}, Email: "alice@test.com"}

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Email != "alice@test.com" {
		t.Errorf("expected email in claims, got %q", claims.Email)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")
	if a == b {
		t.Error("distinct tokens must hash differently")
	}
	if a != HashToken("token-a") {
		t.Error("hashing must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(a))
	}
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{Base: models.Base{ID: 7}, Email: "bob@test.com"}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	t.Run("valid active token passes", func(t *testing.T) {
		var checkedID uint
		var checkedHash string
		store := &stubTokenStore{
			activeFn: func(userID uint, tokenHash string) bool {
				checkedID = userID
				checkedHash = tokenHash
				return true
			},
		}
		r := setupProtectedRouter(store)

		rec := request(r, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if checkedID != 7 {
			t.Errorf("expected active-set lookup for user 7, got %d", checkedID)
		}
		if checkedHash != HashToken(token) {
			t.Error("active-set lookup must use the presented token's hash")
		}
	})

	t.Run("missing header", func(t *testing.T) {
		r := setupProtectedRouter(&stubTokenStore{})
		rec := request(r, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		r := setupProtectedRouter(&stubTokenStore{})
		rec := request(r, "Token "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		r := setupProtectedRouter(&stubTokenStore{})
		rec := request(r, "Bearer garbage")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("revoked token rejected despite valid signature", func(t *testing.T) {
		store := &stubTokenStore{
			activeFn: func(_ uint, _ string) bool { return false },
		}
		r := setupProtectedRouter(store)

		rec := request(r, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for revoked token, got %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	setupAdminRouter := func(roles RoleResolver, authed bool) *gin.Engine {
		r := gin.New()
		handlers := []gin.HandlerFunc{}
		if authed {
			handlers = append(handlers, func(c *gin.Context) {
				c.Set(ContextUserID, uint(1))
				c.Next()
			})
		}
		handlers = append(handlers, RequireAdmin(roles), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		r.GET("/admin", handlers...)
		return r
	}

	do := func(r *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/admin", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("admin passes", func(t *testing.T) {
		r := setupAdminRouter(&stubRoleResolver{role: models.RoleAdmin}, true)
		if rec := do(r); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		r := setupAdminRouter(&stubRoleResolver{role: models.RoleUser}, true)
		if rec := do(r); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("role lookup failure forbidden", func(t *testing.T) {
		r := setupAdminRouter(&stubRoleResolver{err: errors.New("db down")}, true)
		if rec := do(r); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("unauthenticated rejected", func(t *testing.T) {
		r := setupAdminRouter(&stubRoleResolver{role: models.RoleAdmin}, false)
		if rec := do(r); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
