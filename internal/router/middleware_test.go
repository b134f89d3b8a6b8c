package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/repository"
	"github.com/mercado-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestIsOriginAllowed(t *testing.T) {
	cases := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{name: "wildcard", origin: "https://example.com", allowed: []string{"*"}, want: true},
		{name: "exact", origin: "https://a.example.com", allowed: []string{"https://a.example.com", "https://b.example.com"}, want: true},
		{name: "case and trailing slash", origin: "https://a.example.com", allowed: []string{"HTTPS://A.example.com/"}, want: true},
		{name: "unmatched", origin: "https://x.example.com", allowed: []string{"https://a.example.com"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isOriginAllowed(tc.origin, tc.allowed); got != tc.want {
				t.Fatalf("isOriginAllowed want %v got %v", tc.want, got)
			}
		})
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{
		AllowedOrigins:   []string{"https://tienda.example.mx"},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.POST("/api/v1/cart/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart/items", nil)
	req.Header.Set("Origin", "https://tienda.example.mx")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization,Content-Type")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://tienda.example.mx" {
		t.Fatalf("allow origin want echo got %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("credentials should be allowed")
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodOptions, "/api/v1/cart/items", nil)
	req2.Header.Set("Origin", "https://otro.example.com")
	req2.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.ServeHTTP(w2, req2)
	if w2.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unknown origin must not be allowed")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func decodeStatusCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestUserJWTAuthMiddlewareRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	otherToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.UserJWTClaims{
		UserID: 1,
		Email:  "otro@correo.mx",
		Role:   constants.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}

	cases := []struct {
		name   string
		secret string
		header string
	}{
		{name: "missing secret", secret: "", header: "Bearer x"},
		{name: "missing header", secret: "s3cret", header: ""},
		{name: "bad scheme", secret: "s3cret", header: "Token abc"},
		{name: "garbage token", secret: "s3cret", header: "Bearer abc.def.ghi"},
		{name: "wrong signature", secret: "s3cret", header: "Bearer " + otherToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(UserJWTAuthMiddleware(tc.secret, stubUserRepo{}))
			r.GET("/me", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status want 200 got %d", w.Code)
			}
			if code := decodeStatusCode(t, w.Body.Bytes()); code != 401 {
				t.Fatalf("status_code want 401 got %d", code)
			}
		})
	}
}

type stubUserRepo struct {
	repository.UserRepository
	user *models.User
}

func (s stubUserRepo) GetByID(id uint) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, nil
	}
	return s.user, nil
}

func TestUserJWTAuthMiddlewareUsesStoredRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &models.User{ID: 7, Email: "rol@correo.mx", Role: constants.RoleSeller, Status: constants.UserStatusActive}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   constants.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("s3cret", stubUserRepo{user: user}))
	r.GET("/me", func(c *gin.Context) {
		role, _ := c.MustGet(userRoleKey).(constants.Role)
		c.JSON(http.StatusOK, gin.H{"role": role, "user_id": c.GetUint(userIDKey)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	var resp struct {
		Role   string `json:"role"`
		UserID uint   `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Role != "seller" || resp.UserID != 7 {
		t.Fatalf("unexpected context %+v", resp)
	}
}

func TestRoleAuthzMiddlewareWithoutRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RoleAuthzMiddleware(nil))
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if code := decodeStatusCode(t, w.Body.Bytes()); code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

type stubRefresher struct {
	token     string
	refreshed bool
	err       error
}

func (s stubRefresher) RefreshIfExpiring(ctx context.Context, claims *service.UserJWTClaims) (string, time.Time, bool, error) {
	return s.token, time.Now().Add(time.Hour), s.refreshed, s.err
}

func TestSessionRefreshMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		refresher  stubRefresher
		withClaims bool
		wantHeader string
	}{
		{name: "refreshed", refresher: stubRefresher{token: "nuevo", refreshed: true}, withClaims: true, wantHeader: "nuevo"},
		{name: "not in window", refresher: stubRefresher{}, withClaims: true, wantHeader: ""},
		{name: "refresh error", refresher: stubRefresher{err: errors.New("boom")}, withClaims: true, wantHeader: ""},
		{name: "anonymous", refresher: stubRefresher{token: "nuevo", refreshed: true}, withClaims: false, wantHeader: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tc.withClaims {
					c.Set(userClaimsKey, &service.UserJWTClaims{UserID: 3})
				}
				c.Next()
			})
			r.Use(SessionRefreshMiddleware(tc.refresher))
			r.GET("/cart", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("handler should always run, status %d", w.Code)
			}
			if got := w.Header().Get(constants.SessionTokenHeader); got != tc.wantHeader {
				t.Fatalf("session header want %q got %q", tc.wantHeader, got)
			}
		})
	}
}

func TestIsIssuedAfterInvalidBefore(t *testing.T) {
	now := time.Now()
	before := now.Add(-time.Minute)
	after := now.Add(time.Minute)
	issued := jwt.NewNumericDate(now)

	if !isIssuedAfterInvalidBefore(issued, nil) {
		t.Fatalf("nil invalid-before should pass")
	}
	if !isIssuedAfterInvalidBefore(issued, &before) {
		t.Fatalf("token issued after invalid-before should pass")
	}
	if isIssuedAfterInvalidBefore(issued, &after) {
		t.Fatalf("token issued before invalid-before should fail")
	}
	if isIssuedAfterInvalidBeforeUnix(nil, now.Unix()) {
		t.Fatalf("missing issued-at should fail")
	}
	if !isIssuedAfterInvalidBeforeUnix(nil, 0) {
		t.Fatalf("zero invalid-before should pass")
	}
}
