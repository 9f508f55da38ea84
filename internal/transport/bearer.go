package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	accessTokenHeader  = "X-Access-Token"
	refreshTokenHeader = "X-Refresh-Token"
)

// BearerCarrier reads the access token from the Authorization header and
// the refresh token from the refreshToken body field (X-Refresh-Token
// header on bodyless requests). Issued pairs go out in response headers and
// are stashed for handlers to include in their JSON bodies; there are no
// cookies to clear on sign-out.
type BearerCarrier struct{}

func (bc *BearerCarrier) ExtractTokens(c echo.Context) (string, string) {
	var accessToken string
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		accessToken = strings.TrimPrefix(auth, "Bearer ")
	}

	refreshToken := c.Request().Header.Get(refreshTokenHeader)
	if refreshToken == "" {
		refreshToken = bc.refreshTokenFromBody(c)
	}
	return accessToken, refreshToken
}

func (bc *BearerCarrier) AttachTokens(c echo.Context, pair Pair) {
	c.Response().Header().Set(accessTokenHeader, pair.AccessToken)
	c.Response().Header().Set(refreshTokenHeader, pair.RefreshToken)
	stashPair(c, pair)
}

func (bc *BearerCarrier) ClearTokens(c echo.Context) {
	c.Response().Header().Del(accessTokenHeader)
	c.Response().Header().Del(refreshTokenHeader)
}

// refreshTokenFromBody peeks at the JSON body and restores it so handlers
// can still bind the request afterwards.
func (bc *BearerCarrier) refreshTokenFromBody(c echo.Context) string {
	req := c.Request()
	if req.Body == nil {
		return ""
	}

	raw, err := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.RefreshToken
}
