package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodfinder/foodfinder-api/internal/models"
)

func TestCreateLocation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)
	ts.register(t, "alice", "password123")
	cookies := ts.login(t, "alice", "password123")

	payload := map[string]any{
		"name":      "Taco Corner",
		"address":   "1 Main St",
		"latitude":  52.5,
		"longitude": 13.4,
	}

	// The catalog sits behind the guard like every other location route.
	rec := ts.do(jsonRequest(http.MethodPost, "/locations", payload))
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = ts.do(withCookies(jsonRequest(http.MethodPost, "/locations", payload), cookies))
	require.Equal(t, http.StatusCreated, rec.Code)

	locations, err := ts.store.FindAllLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Taco Corner", locations[0].Name)
	assert.Equal(t, "1 Main St", locations[0].Address)

	rec = ts.do(withCookies(jsonRequest(http.MethodPost, "/locations", map[string]any{"address": "nameless"}), cookies))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLocation_IndexesDocument(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		indexed []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/_doc/") {
			mu.Lock()
			indexed = append(indexed, r.Method+" "+r.URL.Path)
			mu.Unlock()
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	ts := newTestServer(t, false)
	h := &CatalogHandler{Store: ts.store, ES: es, ESIndex: "locations"}

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/locations", map[string]any{
		"name":    "Pasta Place",
		"address": "2 Side St",
	})
	rec := httptest.NewRecorder()
	require.NoError(t, h.CreateLocation(e.NewContext(req, rec)))
	require.Equal(t, http.StatusCreated, rec.Code)

	locations, err := ts.store.FindAllLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 1)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, indexed, 1)
	assert.Equal(t, fmt.Sprintf("PUT /locations/_doc/%d", locations[0].ID), indexed[0])
}

func TestListCityLocations(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)
	ts.register(t, "bob", "password123")
	cookies := ts.login(t, "bob", "password123")

	ctx := context.Background()
	berlin := &models.City{Name: "Berlin", Slug: "berlin"}
	require.NoError(t, ts.store.DB.WithContext(ctx).Create(berlin).Error)
	require.NoError(t, ts.store.CreateLocation(ctx, &models.Location{Name: "Taco Corner", Address: "1 Main St", CityID: berlin.ID}))
	require.NoError(t, ts.store.CreateLocation(ctx, &models.Location{Name: "Elsewhere", Address: "9 Far Rd", CityID: berlin.ID + 1}))

	rec := ts.do(withCookies(jsonRequest(http.MethodGet, fmt.Sprintf("/cities/%d/locations", berlin.ID), nil), cookies))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Taco Corner")
	assert.NotContains(t, rec.Body.String(), "Elsewhere")

	rec = ts.do(withCookies(jsonRequest(http.MethodGet, "/cities/abc/locations", nil), cookies))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
