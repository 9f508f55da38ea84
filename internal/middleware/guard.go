package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/foodfinder/foodfinder-api/internal/logging"
	"github.com/foodfinder/foodfinder-api/internal/session"
)

const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// DefaultProtectedPrefixes are the page routes requiring authentication,
// including the nested location-listing pages.
var DefaultProtectedPrefixes = []string{
	"/home",
	"/about",
	"/projects",
	"/projects/professional",
	"/projects/personal",
	"/profile",
	"/locations",
	"/location",
	"/cities",
}

// Guard gates protected path prefixes on session verification. Anything
// short of an authenticated session, including store failures, redirects to
// the login page.
type Guard struct {
	Verifier  *session.Verifier
	Prefixes  []string
	LoginPath string
}

func NewGuard(verifier *session.Verifier, loginPath string) *Guard {
	return &Guard{
		Verifier:  verifier,
		Prefixes:  DefaultProtectedPrefixes,
		LoginPath: loginPath,
	}
}

func (g *Guard) protected(path string) bool {
	for _, prefix := range g.Prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *Guard) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Public routes skip verification entirely.
		if !g.protected(c.Request().URL.Path) {
			return next(c)
		}

		sess, err := g.Verifier.Verify(c)
		if err != nil {
			logging.FromContext(c.Request().Context()).
				Error("verification failed", "path", c.Request().URL.Path, "error", err)
			return c.Redirect(http.StatusFound, g.LoginPath)
		}
		if !sess.Authenticated {
			return c.Redirect(http.StatusFound, g.LoginPath)
		}

		c.Set(UserIDKey, sess.UserID)
		c.Set(UsernameKey, sess.Username)
		return next(c)
	}
}
