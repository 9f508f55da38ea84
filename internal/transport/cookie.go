package transport

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieCarrier moves tokens in the accessToken/refreshToken cookies.
// Secure is on in production deployments only, so local development over
// plain http keeps working.
type CookieCarrier struct {
	Secure bool
}

func (cc *CookieCarrier) ExtractTokens(c echo.Context) (string, string) {
	var accessToken, refreshToken string
	if cookie, err := c.Cookie(AccessCookieName); err == nil {
		accessToken = cookie.Value
	}
	if cookie, err := c.Cookie(RefreshCookieName); err == nil {
		refreshToken = cookie.Value
	}
	return accessToken, refreshToken
}

func (cc *CookieCarrier) AttachTokens(c echo.Context, pair Pair) {
	c.SetCookie(cc.createCookie(AccessCookieName, pair.AccessToken, pair.AccessExp))
	c.SetCookie(cc.createCookie(RefreshCookieName, pair.RefreshToken, pair.RefreshExp))
	stashPair(c, pair)
}

func (cc *CookieCarrier) ClearTokens(c echo.Context) {
	c.SetCookie(cc.deleteCookie(AccessCookieName))
	c.SetCookie(cc.deleteCookie(RefreshCookieName))
}

func (cc *CookieCarrier) createCookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (cc *CookieCarrier) deleteCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
