package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// RequireAuth returns a middleware that authenticates requests either by the
// Firebase session cookie (browser) or by a Bearer ID token (API clients).
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication is not configured")
			}

			token, err := verifyRequest(c, authClient)
			if err != nil {
				clearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
			}

			c.Set("userUID", token.UID)
			if email, ok := token.Claims["email"].(string); ok {
				c.Set("userEmail", email)
			}
			if name, ok := token.Claims["name"].(string); ok {
				c.Set("userName", name)
			}

			return next(c)
		}
	}
}

func verifyRequest(c echo.Context, authClient *auth.Client) (*auth.Token, error) {
	ctx := c.Request().Context()

	if header := c.Request().Header.Get("Authorization"); header != "" {
		idToken := strings.TrimPrefix(header, "Bearer ")
		if idToken != header {
			return authClient.VerifyIDToken(ctx, idToken)
		}
	}

	cookie, err := c.Cookie("session")
	if err != nil || cookie.Value == "" {
		return nil, echo.ErrUnauthorized
	}
	return authClient.VerifySessionCookie(ctx, cookie.Value)
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     "session",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
}

// UserEmail returns the authenticated user's email from the request context.
func UserEmail(c echo.Context) string {
	if email, ok := c.Get("userEmail").(string); ok {
		return email
	}
	return ""
}

// UserUID returns the authenticated user's uid from the request context.
func UserUID(c echo.Context) string {
	if uid, ok := c.Get("userUID").(string); ok {
		return uid
	}
	return ""
}
