package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func authRouter(opt AuthOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(opt))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFrom(c))
	})
	return r
}

func TestAuth_ValidBearerToken(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "u42", time.Now().Add(time.Hour)))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "u42" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestAuth_MissingCredentials(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != "unauthorized" {
		t.Fatalf("code = %v", body["code"])
	}
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret})

	cases := map[string]string{
		"wrong secret": signToken(t, "other-secret", "u42", time.Now().Add(time.Hour)),
		"expired":      signToken(t, testSecret, "u42", time.Now().Add(-time.Hour)),
		"garbage":      "not.a.jwt",
	}
	for name, raw := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, w.Code)
		}
	}
}

func TestAuth_TrustedHeaderFallback(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret, TrustHeader: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "gateway-user")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "gateway-user" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestAuth_HeaderIgnoredWithoutTrust(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "spoofed")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidBearerNeverDowngradesToHeader(t *testing.T) {
	r := authRouter(AuthOptions{JWTSecret: testSecret, TrustHeader: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	req.Header.Set("X-User-ID", "fallback-user")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (broken token must not fall back)", w.Code)
	}
}
