package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/foodfinder/foodfinder-api/internal/events"
	"github.com/foodfinder/foodfinder-api/internal/hash"
	"github.com/foodfinder/foodfinder-api/internal/logging"
	"github.com/foodfinder/foodfinder-api/internal/repo"
	"github.com/foodfinder/foodfinder-api/internal/session"
	"github.com/foodfinder/foodfinder-api/internal/tokens"
	"github.com/foodfinder/foodfinder-api/internal/transport"
)

const minPasswordLength = 8

// AuthHandler implements the auth endpoints on top of the session core.
// BodyTokens is set for bearer deployments, where issuance responses carry
// the pair in the JSON body instead of cookies.
type AuthHandler struct {
	Store      *repo.Store
	Codec      *tokens.Codec
	Carrier    transport.Carrier
	Issuer     *session.Issuer
	Verifier   *session.Verifier
	Producer   *events.Producer
	BodyTokens bool
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}
	if req.Username == "" || req.Password == "" || len(req.Password) < minPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "reason", "password hash", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error registering user")
	}

	user, err := h.Store.CreateUser(ctx, req.Username, passwordHash)
	if err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		}
		l.Error("register_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error registering user")
	}

	h.publish(c, user.ID, map[string]any{
		"type":     events.TypeUserRegistered,
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("user_registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	user, err := h.Store.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		}
		l.Error("login_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error logging in user")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	pair, err := h.Issuer.Issue(c, user.ID)
	if err != nil {
		l.Error("login_failed", "reason", "token issuance", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error logging in user")
	}

	h.publish(c, user.ID, map[string]any{
		"type":     events.TypeUserLoggedIn,
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("login_successful", "user_id", user.ID)

	resp := echo.Map{
		"id":       user.ID,
		"username": user.Username,
	}
	if h.BodyTokens {
		resp["accessToken"] = pair.AccessToken
		resp["refreshToken"] = pair.RefreshToken
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	accessToken, _ := h.Carrier.ExtractTokens(c)
	if accessToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	claims, err := h.Codec.Verify(accessToken)
	if err != nil || claims.Kind != tokens.KindAccess {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
	}

	user, err := h.Store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		l.Error("logout_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error logging out")
	}

	if err := h.Store.ClearTokens(ctx, user.ID); err != nil {
		l.Error("logout_failed", "reason", "cannot clear tokens", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error logging out")
	}
	h.Carrier.ClearTokens(c)

	h.publish(c, user.ID, map[string]any{
		"type":     events.TypeUserLoggedOut,
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("logout_successful", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	sess, err := h.Verifier.Refresh(c)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRefreshMissing):
			return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token is required")
		case errors.Is(err, tokens.ErrInvalidToken), errors.Is(err, session.ErrTokenMismatch):
			return echo.NewHTTPError(http.StatusForbidden, "Invalid refresh token")
		case errors.Is(err, repo.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusForbidden, "User not found")
		default:
			l.Error("refresh_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}
	}

	pair, _ := transport.IssuedPair(c)

	l.Info("refresh_successful", "user_id", sess.UserID)
	return c.JSON(http.StatusOK, echo.Map{
		"id":           sess.UserID,
		"username":     sess.Username,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// publish sends an auth lifecycle event; failures are logged, never
// surfaced to the client.
func (h *AuthHandler) publish(c echo.Context, userID uint, event map[string]any) {
	ctx := c.Request().Context()
	if err := h.Producer.PublishEvent(ctx, userIDKey(userID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "error", err)
	}
}
