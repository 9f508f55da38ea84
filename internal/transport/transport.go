// Package transport moves the token pair between client and server. The
// session core only ever sees the Carrier capability, so cookie and
// header/body deployments share the same issuing and verification code.
package transport

import (
	"time"

	"github.com/labstack/echo/v4"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	issuedPairKey = "issued_token_pair"
)

// Pair is a freshly issued access/refresh token pair with the absolute
// expiry of each token.
type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Carrier extracts inbound tokens from a request and arms the response with
// a newly issued pair. Exactly one carrier is active per deployment.
type Carrier interface {
	ExtractTokens(c echo.Context) (accessToken, refreshToken string)
	AttachTokens(c echo.Context, pair Pair)
	ClearTokens(c echo.Context)
}

func stashPair(c echo.Context, pair Pair) {
	c.Set(issuedPairKey, pair)
}

// IssuedPair returns the pair attached during this request, if any.
// Handlers use it to echo freshly rotated tokens into the response body.
func IssuedPair(c echo.Context) (Pair, bool) {
	v := c.Get(issuedPairKey)
	if v == nil {
		return Pair{}, false
	}
	pair, ok := v.(Pair)
	return pair, ok
}
