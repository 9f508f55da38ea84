package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/foodfinder/foodfinder-api/internal/logging"
	"github.com/foodfinder/foodfinder-api/internal/middleware"
	"github.com/foodfinder/foodfinder-api/internal/models"
	"github.com/foodfinder/foodfinder-api/internal/repo"
	"github.com/foodfinder/foodfinder-api/internal/search"
)

// CatalogHandler serves the location and city listing pages. All of its
// routes sit behind the route guard.
type CatalogHandler struct {
	Store   *repo.Store
	ES      *elasticsearch.Client
	ESIndex string
}

func (h *CatalogHandler) ListLocations(c echo.Context) error {
	locations, err := h.Store.FindAllLocations(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list locations failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"locations": locations})
}

func (h *CatalogHandler) GetLocation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid location id")
	}

	location, err := h.Store.FindLocationByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrLocationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Location not found")
		}
		logging.FromContext(c.Request().Context()).Error("get location failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, location)
}

// CreateLocation persists a location and mirrors it into the search index.
// Indexing is best-effort: a failure is logged and the document is picked
// up by the startup sync instead.
func (h *CatalogHandler) CreateLocation(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name      string  `json:"name"`
		Address   string  `json:"address"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		CityID    uint    `json:"city_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}
	if req.Name == "" || req.Address == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	location := &models.Location{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CityID:    req.CityID,
	}
	if err := h.Store.CreateLocation(ctx, location); err != nil {
		logging.FromContext(ctx).Error("create location failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	if h.ES != nil {
		if err := search.IndexLocation(ctx, h.ES, h.ESIndex, *location); err != nil {
			logging.FromContext(ctx).Error("location indexing failed", "location_id", location.ID, "error", err)
		}
	}

	return c.JSON(http.StatusCreated, location)
}

// ListCityLocations serves the nested per-city location listing.
func (h *CatalogHandler) ListCityLocations(c echo.Context) error {
	cityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid city id")
	}

	locations, err := h.Store.FindLocationsByCity(c.Request().Context(), uint(cityID))
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list city locations failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"locations": locations})
}

func (h *CatalogHandler) ListCities(c echo.Context) error {
	cities, err := h.Store.FindAllCities(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list cities failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"cities": cities})
}

// SearchLocations is the full-text location search. It requires an ES
// deployment; without one the route answers 503.
func (h *CatalogHandler) SearchLocations(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not available")
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query parameter q is required")
	}

	from := queryIntDefault(c, "from", 0)
	size := queryIntDefault(c, "size", 20)

	total, locations, err := search.Locations(c.Request().Context(), h.ES, h.ESIndex, query, from, size)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("location search failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":     total,
		"locations": locations,
	})
}

// Profile returns the session identity the guard put into the context.
func Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"id":       c.Get(middleware.UserIDKey),
		"username": c.Get(middleware.UsernameKey),
	})
}

// Page serves the protected page stubs; rendering itself lives in the
// frontend.
func Page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"page": name})
	}
}

func queryIntDefault(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func userIDKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
