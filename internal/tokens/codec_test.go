package tokens

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCodec() (*Codec, *fakeClock) {
	clk := &fakeClock{t: time.Now().UTC()}
	return NewCodecWithClock([]byte("test-jwt-secret"), clk.Now), clk
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec()

	token, err := codec.Sign(Claims{
		UserID:   42,
		Username: "alice",
		Kind:     KindAccess,
	}, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
}

func TestCodec_RefreshClaims_OmitUsername(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec()

	token, err := codec.Sign(Claims{UserID: 7, Kind: KindRefresh}, time.Hour)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Empty(t, claims.Username)
	assert.Equal(t, KindRefresh, claims.Kind)
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	codec, clk := newTestCodec()
	const lifetime = time.Minute

	token, err := codec.Sign(Claims{UserID: 1, Kind: KindAccess}, lifetime)
	require.NoError(t, err)

	clk.Advance(lifetime - time.Second)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_VerifyFailures(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec()
	other := NewCodec([]byte("a-different-secret"))

	foreign, err := other.Sign(Claims{UserID: 1, Kind: KindAccess}, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "malformed", token: "not-a-jwt"},
		{name: "wrong signature", token: foreign},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := codec.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
