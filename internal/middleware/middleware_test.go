package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

type fakeTokens struct {
	revoked map[string]bool
	err     error
}

func (f *fakeTokens) IsTokenActive(ctx context.Context, access string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.revoked[access], nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func validClaims(uid, role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"uid":  uid,
		"role": role,
		"aud":  "web",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := c.Get(UserRoleKey)
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "role": role})
	})
	router.GET("/ping", handlers...)
	return router
}

func doRequest(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOAuth2Auth(t *testing.T) {
	tokens := &fakeTokens{revoked: map[string]bool{}}
	router := newRouter(OAuth2Auth(testSecret, tokens))

	valid := signToken(t, validClaims("7", "user"))

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authorization_required")
	})

	t.Run("bearer scheme", func(t *testing.T) {
		w := doRequest(router, "Bearer "+valid)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":7,"role":"user"}`, w.Body.String())
	})

	t.Run("token scheme", func(t *testing.T) {
		w := doRequest(router, "Token "+valid)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		w := doRequest(router, "Basic "+valid)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty token", func(t *testing.T) {
		w := doRequest(router, "Bearer ")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims("7", "user")).SignedString([]byte("other"))
		require.NoError(t, err)
		w := doRequest(router, "Bearer "+forged)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims("7", "user")
		claims["iat"] = time.Now().Add(-2 * time.Hour).Unix()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		w := doRequest(router, "Bearer "+signToken(t, claims))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing uid", func(t *testing.T) {
		claims := validClaims("7", "user")
		delete(claims, "uid")
		w := doRequest(router, "Bearer "+signToken(t, claims))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		w := doRequest(router, "Bearer "+signToken(t, validClaims("7", "chef")))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		revoked := signToken(t, validClaims("8", "user"))
		tokens.revoked[revoked] = true
		w := doRequest(router, "Token "+revoked)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
	})
}

func TestOAuth2AuthStoreFailure(t *testing.T) {
	router := newRouter(OAuth2Auth(testSecret, &fakeTokens{err: errors.New("db down")}))

	w := doRequest(router, "Bearer "+signToken(t, validClaims("7", "user")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestOptionalAuth(t *testing.T) {
	router := newRouter(OptionalAuth(testSecret, &fakeTokens{}))

	t.Run("anonymous passes through", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":0,"role":null}`, w.Body.String())
	})

	t.Run("valid token identifies the viewer", func(t *testing.T) {
		w := doRequest(router, "Token "+signToken(t, validClaims("3", "admin")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":3,"role":"admin"}`, w.Body.String())
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		w := doRequest(router, "Token garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	router := newRouter(OAuth2Auth(testSecret, &fakeTokens{}), RequireRole("admin"))

	t.Run("admin allowed", func(t *testing.T) {
		w := doRequest(router, "Bearer "+signToken(t, validClaims("1", "admin")))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		w := doRequest(router, "Bearer "+signToken(t, validClaims("2", "user")))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := doRequest(newRouter(RequireRole("admin")), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestLogger(t *testing.T) {
	router := newRouter(RequestLogger())

	t.Run("generates an id", func(t *testing.T) {
		w := doRequest(router, "")
		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("keeps an upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	})
}

func TestMetrics(t *testing.T) {
	router := newRouter(Metrics())
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200")
	before := testutil.ToFloat64(counter)

	doRequest(router, "")
	doRequest(router, "")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
