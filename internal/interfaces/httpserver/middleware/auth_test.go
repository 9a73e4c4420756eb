package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domain "imagesim/internal/domain/image"
	"imagesim/utils/apperrors"
)

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	user, ok := s.users[apiKey]
	if !ok {
		return nil, apperrors.NewError(ctx, apperrors.LayerRepository, apperrors.ErrorTypeNotFound, "no user for api key", nil, "test")
	}
	return user, nil
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := &stubUsers{users: map[string]*domain.User{
		"valid-key": {ID: 1, Name: "alice", APIKey: "valid-key"},
	}}

	router := gin.New()
	router.Use(APIKeyAuth(users))
	router.GET("/protected", func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Name})
	})
	return router
}

func TestAPIKeyAuthMissingKey(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIKeyAuthInvalidKey(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIKeyAuthValidKeyPasses(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-API-Key", "valid-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		if RequestIDFromContext(c) == "" {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response is missing the X-Request-Id header")
	}
}

func TestRequestIDPreserved(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "caller-id" {
		t.Errorf("X-Request-Id = %q, want caller-id", got)
	}
}
