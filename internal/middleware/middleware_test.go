package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberia/internal/config"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/session"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		Session:   config.SessionConfig{CookieName: "barberia_session"},
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(sid string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":          7,
		"barbershopId": 1,
		"role":         models.RoleBarber,
		"sid":          sid,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
}

func newAuthRouter(cfg *config.Config, store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg, store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user": c.GetUint(ContextUserID),
			"shop": c.GetUint(ContextBarbershopID),
			"role": c.GetString(ContextUserRole),
			"sid":  c.GetString(ContextSessionID),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), session.Session{
		ID: "live", UserID: 7, BarbershopID: 1, Role: models.RoleBarber,
	}, time.Hour))

	r := newAuthRouter(cfg, store)

	expired := validClaims("live")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	cases := []struct {
		name       string
		prepare    func(req *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no credentials",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "missing_authorization",
		},
		{
			name: "cookie session",
			prepare: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: "barberia_session", Value: signToken(t, cfg.JWTSecret, validClaims("live"))})
			},
			wantStatus: http.StatusOK,
			wantBody:   `"sid":"live"`,
		},
		{
			name: "bearer header",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, validClaims("live")))
			},
			wantStatus: http.StatusOK,
			wantBody:   `"user":7`,
		},
		{
			name: "wrong secret",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, "other", validClaims("live")))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid_token",
		},
		{
			name: "expired",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, expired))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid_token",
		},
		{
			name: "revoked session",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, validClaims("gone")))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "session_revoked",
		},
		{
			name: "malformed header",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Token abc")
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid_authorization_header",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.prepare(req)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tc := range []struct {
		role string
		want int
	}{
		{models.RoleOwner, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
		{models.RoleBarber, http.StatusForbidden},
	} {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			c.Set(ContextUserRole, tc.role)
			c.Next()
		}, RequireRole(models.RoleOwner, models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, tc.want, w.Code, tc.role)
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.barberia.com"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.barberia.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.barberia.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
