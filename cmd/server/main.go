package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foodfinder/foodfinder-api/internal/config"
	"github.com/foodfinder/foodfinder-api/internal/events"
	"github.com/foodfinder/foodfinder-api/internal/httpserver"
	"github.com/foodfinder/foodfinder-api/internal/logging"
	"github.com/foodfinder/foodfinder-api/internal/middleware"
	"github.com/foodfinder/foodfinder-api/internal/repo"
	"github.com/foodfinder/foodfinder-api/internal/search"
	"github.com/foodfinder/foodfinder-api/internal/session"
	"github.com/foodfinder/foodfinder-api/internal/tokens"
	"github.com/foodfinder/foodfinder-api/internal/transport"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repo.Open(initCtx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	store := &repo.Store{DB: db}

	catalog := &httpserver.CatalogHandler{
		Store:   store,
		ESIndex: cfg.ESIndex,
	}
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("es init error: %v", err)
		}
		catalog.ES = esClient

		// Reindex the catalog so documents created while ES was down are
		// searchable again. Search stays degraded on failure, the API does
		// not.
		syncCtx, cancelSync := context.WithTimeout(context.Background(), 30*time.Second)
		if locations, err := store.FindAllLocations(syncCtx); err != nil {
			logger.Error("location sync: load failed", "error", err)
		} else if err := search.SyncLocations(syncCtx, esClient, cfg.ESIndex, locations); err != nil {
			logger.Error("location sync failed", "error", err)
		} else {
			logger.Info("location index synced", "count", len(locations))
		}
		cancelSync()
	}

	codec := tokens.NewCodec(cfg.JWTSecret)

	var carrier transport.Carrier
	switch cfg.TokenTransport {
	case "bearer":
		carrier = &transport.BearerCarrier{}
	default:
		carrier = &transport.CookieCarrier{Secure: cfg.Production()}
	}

	issuer := &session.Issuer{
		Store:      store,
		Codec:      codec,
		Carrier:    carrier,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	verifier := &session.Verifier{
		Store:   store,
		Codec:   codec,
		Carrier: carrier,
		Issuer:  issuer,
	}

	e := echo.New()
	e.HideBanner = true

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHandler{
			Store:      store,
			Codec:      codec,
			Carrier:    carrier,
			Issuer:     issuer,
			Verifier:   verifier,
			Producer:   producer,
			BodyTokens: cfg.TokenTransport == "bearer",
		},
		Catalog: catalog,
		Guard:   middleware.NewGuard(verifier, httpserver.LoginPath),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "addr", cfg.ServerAddr, "transport", cfg.TokenTransport)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
