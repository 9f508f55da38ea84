package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/foodfinder/foodfinder-api/internal/middleware"
)

const LoginPath = "/auth"

type Deps struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Guard   *middleware.Guard
	Logger  *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(d.Guard.Middleware)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/", Page("index"))
	e.GET(LoginPath, Page("auth"))

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.Logout)
	e.POST("/refresh-token", d.Auth.RefreshToken)

	// Everything below matches a guarded prefix.
	e.GET("/home", Page("home"))
	e.GET("/about", Page("about"))
	e.GET("/projects", Page("projects"))
	e.GET("/projects/professional", Page("projects/professional"))
	e.GET("/projects/personal", Page("projects/personal"))
	e.GET("/profile", Profile)

	e.GET("/locations", d.Catalog.ListLocations)
	e.POST("/locations", d.Catalog.CreateLocation)
	e.GET("/locations/search", d.Catalog.SearchLocations)
	e.GET("/location/:id", d.Catalog.GetLocation)
	e.GET("/cities", d.Catalog.ListCities)
	e.GET("/cities/:id/locations", d.Catalog.ListCityLocations)
}
