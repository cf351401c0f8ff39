// Package middleware provides reusable HTTP middleware: JWT
// authentication, role enforcement, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token and injects the subject and
// role claims into the request context under "user_id" and "role".
// Protected routes wrap themselves with this so handlers can rely on
// both values being present.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, role, ok := parseBearer(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login_required"})
			}
			c.Set("user_id", id)
			c.Set("role", role)
			return next(c)
		}
	}
}

// OptionalJWTAuth injects the claims when a valid Bearer token is
// present and continues silently otherwise.  Public endpoints use it
// to personalize responses (the "mine" seat marker) without requiring
// a login.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, role, ok := parseBearer(c, secret); ok {
				c.Set("user_id", id)
				c.Set("role", role)
			}
			return next(c)
		}
	}
}

// parseBearer extracts and validates the Authorization header.  The
// subject comes back as int64; MapClaims stores JSON numbers as
// float64, so the claim is converted here once instead of in every
// handler.
func parseBearer(c echo.Context, secret string) (int64, string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	return int64(sub), role, true
}
