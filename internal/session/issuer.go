package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foodfinder/foodfinder-api/internal/repo"
	"github.com/foodfinder/foodfinder-api/internal/tokens"
	"github.com/foodfinder/foodfinder-api/internal/transport"
)

// Issuer mints a fresh access/refresh pair for a user, persists it as the
// single valid pair and arms the transport with it. Issuing overwrites the
// previous pair, which revokes it for future refreshes.
type Issuer struct {
	Store      *repo.Store
	Codec      *tokens.Codec
	Carrier    transport.Carrier
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// locks live for the process lifetime, so the map grows with the
	// number of distinct users seen since startup. A mutex is a few dozen
	// bytes; shard or evict before this matters.
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// userLock returns the rotation lock for one user. Refresh rotation runs
// its compare-and-reissue under this lock so concurrent refreshes with the
// same token cannot both mint a pair.
func (i *Issuer) userLock(userID uint) *sync.Mutex {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.locks == nil {
		i.locks = make(map[uint]*sync.Mutex)
	}
	l, ok := i.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		i.locks[userID] = l
	}
	return l
}

// Issue loads the user, mints both tokens, persists them and attaches them
// to the response.
func (i *Issuer) Issue(c echo.Context, userID uint) (transport.Pair, error) {
	ctx := c.Request().Context()

	user, err := i.Store.FindByID(ctx, userID)
	if err != nil {
		return transport.Pair{}, err
	}

	now := i.Codec.Now()

	accessToken, err := i.Codec.Sign(tokens.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Kind:     tokens.KindAccess,
	}, i.AccessTTL)
	if err != nil {
		return transport.Pair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := i.Codec.Sign(tokens.Claims{
		UserID: user.ID,
		Kind:   tokens.KindRefresh,
	}, i.RefreshTTL)
	if err != nil {
		return transport.Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	// The update is a whole-record overwrite, so letting it finish after
	// the request is aborted cannot leave a half-written pair.
	if err := i.Store.SetTokens(context.WithoutCancel(ctx), user.ID, accessToken, refreshToken); err != nil {
		return transport.Pair{}, err
	}

	pair := transport.Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    now.Add(i.AccessTTL),
		RefreshExp:   now.Add(i.RefreshTTL),
	}
	i.Carrier.AttachTokens(c, pair)
	return pair, nil
}
