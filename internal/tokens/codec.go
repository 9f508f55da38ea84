package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single failure kind for verification: malformed,
// wrong signature and expired all collapse into it.
var ErrInvalidToken = errors.New("invalid or expired token")

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the signed token payload. Username is set on access tokens
// only.
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username,omitempty"`
	Kind     Kind   `json:"typ"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens against a single secret. The secret
// and clock are fixed at construction; nothing here reads process state.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// NewCodecWithClock pins the codec to an explicit clock.
func NewCodecWithClock(secret []byte, now func() time.Time) *Codec {
	return &Codec{secret: secret, now: now}
}

// Now exposes the codec clock so callers compute cookie expiries against
// the same time source the tokens are signed with.
func (c *Codec) Now() time.Time {
	return c.now()
}

func (c *Codec) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(c.secret)
}

func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
