package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodfinder/foodfinder-api/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Location{}, &models.City{}))

	return &Store{DB: db}
}

func TestStore_CreateUser_Conflict(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "alice", "hashed")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Nil(t, user.AccessToken)
	assert.Nil(t, user.RefreshToken)

	_, err = store.CreateUser(ctx, "alice", "hashed-again")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestStore_FindByUsername_NotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStore_SetAndClearTokens(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "bob", "hashed")
	require.NoError(t, err)

	require.NoError(t, store.SetTokens(ctx, user.ID, "access-1", "refresh-1"))

	got, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AccessToken)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "access-1", *got.AccessToken)
	assert.Equal(t, "refresh-1", *got.RefreshToken)

	// Re-issuing overwrites the previous pair in place.
	require.NoError(t, store.SetTokens(ctx, user.ID, "access-2", "refresh-2"))
	got, err = store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "access-2", *got.AccessToken)
	assert.Equal(t, "refresh-2", *got.RefreshToken)

	require.NoError(t, store.ClearTokens(ctx, user.ID))
	got, err = store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AccessToken)
	assert.Nil(t, got.RefreshToken)
}

func TestStore_SetTokens_UnknownUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	err := store.SetTokens(context.Background(), 9999, "a", "r")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStore_Locations(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	loc := &models.Location{Name: "Taco Corner", Address: "1 Main St", Latitude: 52.5, Longitude: 13.4}
	require.NoError(t, store.CreateLocation(ctx, loc))
	require.NotZero(t, loc.ID)

	all, err := store.FindAllLocations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Taco Corner", all[0].Name)

	got, err := store.FindLocationByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, loc.Name, got.Name)

	_, err = store.FindLocationByID(ctx, loc.ID+1)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestStore_FindLocationsByCity(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	berlin := &models.City{Name: "Berlin", Slug: "berlin"}
	hamburg := &models.City{Name: "Hamburg", Slug: "hamburg"}
	require.NoError(t, store.DB.WithContext(ctx).Create(berlin).Error)
	require.NoError(t, store.DB.WithContext(ctx).Create(hamburg).Error)

	require.NoError(t, store.CreateLocation(ctx, &models.Location{Name: "Taco Corner", Address: "1 Main St", CityID: berlin.ID}))
	require.NoError(t, store.CreateLocation(ctx, &models.Location{Name: "Pasta Place", Address: "2 Side St", CityID: berlin.ID}))
	require.NoError(t, store.CreateLocation(ctx, &models.Location{Name: "Burger Barn", Address: "3 Harbor Rd", CityID: hamburg.ID}))

	got, err := store.FindLocationsByCity(ctx, berlin.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pasta Place", got[0].Name)
	assert.Equal(t, "Taco Corner", got[1].Name)

	got, err = store.FindLocationsByCity(ctx, hamburg.ID+1)
	require.NoError(t, err)
	assert.Empty(t, got)
}
