package session

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/foodfinder/foodfinder-api/internal/logging"
	"github.com/foodfinder/foodfinder-api/internal/repo"
	"github.com/foodfinder/foodfinder-api/internal/tokens"
	"github.com/foodfinder/foodfinder-api/internal/transport"
)

// Verifier decides whether a request is authenticated. The access token is
// checked first; if that fails the refresh token is used to rotate the pair
// through the Issuer.
type Verifier struct {
	Store   *repo.Store
	Codec   *tokens.Codec
	Carrier transport.Carrier
	Issuer  *Issuer
}

// Verify runs the full check. Expected authentication failures come back as
// an unauthenticated session with a nil error; a non-nil error means the
// store itself failed and the caller must fail closed.
func (v *Verifier) Verify(c echo.Context) (Session, error) {
	accessToken, _ := v.Carrier.ExtractTokens(c)

	sess, err := v.accessCheck(c.Request().Context(), accessToken)
	if err != nil {
		return Unauthenticated(), err
	}
	if sess.Authenticated {
		return sess, nil
	}

	sess, err = v.Refresh(c)
	if err != nil {
		if isAuthFailure(err) {
			logging.FromContext(c.Request().Context()).
				Debug("refresh rejected", "reason", err.Error())
			return Unauthenticated(), nil
		}
		return Unauthenticated(), err
	}
	return sess, nil
}

// accessCheck validates the presented access token. Beyond the signature
// and expiry it requires the token to equal the stored one, so sign-out
// takes effect immediately instead of at natural expiry.
func (v *Verifier) accessCheck(ctx context.Context, accessToken string) (Session, error) {
	if accessToken == "" {
		return Unauthenticated(), nil
	}

	claims, err := v.Codec.Verify(accessToken)
	if err != nil || claims.Kind != tokens.KindAccess {
		return Unauthenticated(), nil
	}

	user, err := v.Store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return Unauthenticated(), nil
		}
		return Unauthenticated(), err
	}

	if user.AccessToken == nil || *user.AccessToken != accessToken {
		return Unauthenticated(), nil
	}

	return Authenticated(user.ID, user.Username), nil
}

// Refresh validates the presented refresh token against the stored one and
// rotates the pair. It returns sentinel errors so the refresh endpoint can
// distinguish a missing token from a rejected one.
func (v *Verifier) Refresh(c echo.Context) (Session, error) {
	_, refreshToken := v.Carrier.ExtractTokens(c)
	if refreshToken == "" {
		return Unauthenticated(), ErrRefreshMissing
	}

	claims, err := v.Codec.Verify(refreshToken)
	if err != nil {
		return Unauthenticated(), err
	}
	if claims.Kind != tokens.KindRefresh {
		return Unauthenticated(), tokens.ErrInvalidToken
	}

	// The compare-and-reissue below must not interleave with another
	// rotation for the same user: the loser has to fail the equality
	// check, not mint a second pair.
	lock := v.Issuer.userLock(claims.UserID)
	lock.Lock()
	defer lock.Unlock()

	user, err := v.Store.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return Unauthenticated(), err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return Unauthenticated(), ErrTokenMismatch
	}

	if _, err := v.Issuer.Issue(c, user.ID); err != nil {
		return Unauthenticated(), err
	}

	return Authenticated(user.ID, user.Username), nil
}

// isAuthFailure reports whether err is an expected authentication failure
// rather than an infrastructure one.
func isAuthFailure(err error) bool {
	return errors.Is(err, ErrRefreshMissing) ||
		errors.Is(err, ErrTokenMismatch) ||
		errors.Is(err, tokens.ErrInvalidToken) ||
		errors.Is(err, repo.ErrUserNotFound)
}
