package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warehub/backend/internal/infrastructure/auth"
	"github.com/warehub/backend/internal/infrastructure/config"
)

const middlewareTestSecret = "middleware-test-secret-32-characters"

func testTokenVerifier() *auth.TokenVerifier {
	return auth.NewTokenVerifier(config.JWTConfig{Secret: middlewareTestSecret})
}

func signTestToken(t *testing.T, mutate func(*auth.Claims)) string {
	t.Helper()
	now := time.Now()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID: uuid.New().String(),
		UserID:   uuid.New().String(),
		Username: "picker",
		Roles:    []string{"warehouse_operator"},
	}
	if mutate != nil {
		mutate(claims)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(middlewareTestSecret))
	require.NoError(t, err)
	return signed
}

func jwtTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/api/v1/locations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": GetJWTTenantID(c),
			"user_id":   GetJWTUserID(c),
			"roles":     GetJWTRoles(c),
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	verifier := testTokenVerifier()

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		tenantID := uuid.New().String()
		token := signTestToken(t, func(c *auth.Claims) { c.TenantID = tenantID })

		r := jwtTestRouter(JWTAuthMiddleware(verifier))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tenantID)
		assert.Contains(t, w.Body.String(), "warehouse_operator")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		r := jwtTestRouter(JWTAuthMiddleware(verifier))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		r := jwtTestRouter(JWTAuthMiddleware(verifier))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
		req.Header.Set(AuthHeaderKey, "Token abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token := signTestToken(t, func(c *auth.Claims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		})
		r := jwtTestRouter(JWTAuthMiddleware(verifier))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
	})

	t.Run("skip path bypasses auth", func(t *testing.T) {
		r := jwtTestRouter(JWTAuthMiddleware(verifier))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional mode lets anonymous requests through", func(t *testing.T) {
		r := jwtTestRouter(OptionalJWTAuthMiddleware(verifier))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional mode still rejects a bad token", func(t *testing.T) {
		r := jwtTestRouter(OptionalJWTAuthMiddleware(verifier))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	verifier := testTokenVerifier()

	buildRouter := func(required ...string) *gin.Engine {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(JWTAuthMiddleware(verifier))
		r.POST("/api/v1/tenants", RequireRole(required...), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return r
	}

	t.Run("caller with role passes", func(t *testing.T) {
		token := signTestToken(t, func(c *auth.Claims) { c.Roles = []string{"platform_admin"} })
		r := buildRouter("platform_admin")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("caller without role forbidden", func(t *testing.T) {
		token := signTestToken(t, nil)
		r := buildRouter("platform_admin")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
