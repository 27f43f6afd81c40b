// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements request authentication. Every API route requires a
// caller identity; the middleware resolves it from (in order):
//
//  1. Authorization: Bearer <jwt> — an HS256 token whose "sub" claim carries
//     the user id. This is the production path.
//  2. X-User-ID header — accepted only when the deployment explicitly trusts
//     an upstream gateway to have authenticated the caller (AUTH_TRUST_HEADER).
//
// The resolved identity is stored in the Gin context under "userID" and is
// consumed by handlers, the access logger, and the rate limiter. Requests
// with no resolvable identity are rejected with 401 before any handler runs.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// userIDKey is the Gin context key under which the caller identity lives.
	userIDKey = "userID"
	// userIDHeader is the gateway-trust fallback header.
	userIDHeader = "X-User-ID"
)

// AuthOptions configures the Auth middleware.
type AuthOptions struct {
	// JWTSecret is the HS256 signing secret for bearer tokens. Empty disables
	// bearer verification entirely.
	JWTSecret string

	// TrustHeader accepts X-User-ID as the caller identity when no (valid)
	// bearer token is present. Only enable behind an authenticating gateway.
	TrustHeader bool
}

// UserIDFrom returns the authenticated user id from the Gin context, or ""
// when Auth has not run or rejected the request.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Auth returns a middleware that resolves and requires a caller identity.
//
// Rejections use the standard error envelope with code "unauthorized". A
// bearer token that is present but invalid is always a rejection, even when
// TrustHeader is enabled, so a broken token cannot silently downgrade to
// header trust.
func Auth(opt AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if opt.JWTSecret == "" {
				unauthorized(c, "bearer tokens are not accepted")
				return
			}
			uid, err := subjectFromToken(raw, opt.JWTSecret)
			if err != nil || uid == "" {
				unauthorized(c, "invalid or expired token")
				return
			}
			c.Set(userIDKey, uid)
			c.Next()
			return
		}

		if opt.TrustHeader {
			if uid := strings.TrimSpace(c.GetHeader(userIDHeader)); uid != "" {
				c.Set(userIDKey, uid)
				c.Next()
				return
			}
		}

		unauthorized(c, "authentication required")
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// subjectFromToken verifies an HS256 token and returns its "sub" claim.
// Any other signing method is rejected.
func subjectFromToken(raw, secret string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sub), nil
}

// unauthorized aborts with the standard 401 envelope.
func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
