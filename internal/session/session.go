// Package session implements the two-token session lifecycle: minting and
// persisting access/refresh pairs, verifying inbound requests and rotating
// expired pairs against the credential store.
package session

import "errors"

var (
	// ErrRefreshMissing means no refresh token was presented at all.
	ErrRefreshMissing = errors.New("refresh token missing")

	// ErrTokenMismatch means the presented refresh token verified
	// cryptographically but is not the one currently stored for the user,
	// i.e. it was superseded by a later rotation or cleared by sign-out.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// Session is the request-scoped outcome of verification. It is never
// persisted; every request reconstructs it from the presented tokens.
type Session struct {
	Authenticated bool
	UserID        uint
	Username      string
}

func Unauthenticated() Session {
	return Session{}
}

func Authenticated(userID uint, username string) Session {
	return Session{Authenticated: true, UserID: userID, Username: username}
}
