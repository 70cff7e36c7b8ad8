// Command gateway runs the Ecolatam backend-for-frontend.
//
//	@title			Ecolatam Gateway API
//	@version		1.0
//	@description	Backend-for-frontend of the Ecolatam SPA.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/ecolatam/gateway/docs"
	"github.com/ecolatam/gateway/internal/api"
	"github.com/ecolatam/gateway/internal/api/handler"
	"github.com/ecolatam/gateway/internal/api/middleware"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/core/service"
	"github.com/ecolatam/gateway/internal/infrastructure/db/memory"
	mongostore "github.com/ecolatam/gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/ecolatam/gateway/internal/infrastructure/db/redis"
	"github.com/ecolatam/gateway/internal/infrastructure/ecolatam"
	"github.com/ecolatam/gateway/internal/infrastructure/http/handlers"
	"github.com/ecolatam/gateway/internal/infrastructure/ipfs"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
	"github.com/ecolatam/gateway/internal/pkg/config"
	"github.com/ecolatam/gateway/pkg/logger"
)

const (
	serviceName     = "ecolatam-gateway"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Env: cfg.Env, Service: serviceName})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Backend access ---
	rc := restclient.New(restclient.Config{
		BaseURL:      cfg.APIBase,
		PublicOrigin: cfg.PublicOrigin,
		Timeout:      cfg.APITimeout,
		Transport:    restclient.NewTransport(nil, middleware.Sessions, middleware.Navigators, log),
	}, log)
	if rc.BaseURL() == "" {
		return errors.New("API_BASE is empty")
	}
	log.Info().Str("api_base", rc.BaseURL()).Str("session_store", cfg.Session.Store).Msg("backend configured")

	authAPI := ecolatam.NewAuthClient(rc)
	usersAPI := ecolatam.NewUsersClient(rc)
	ecoguiaAPI := ecolatam.NewEcoguiaClient(rc, middleware.Sessions)
	catalogsAPI := ecolatam.NewCatalogsClient(rc)
	adminAPI := ecolatam.NewAdminCatalogsClient(rc, middleware.Sessions)
	categoriesAPI := ecolatam.NewCategoriesClient(rc, middleware.Sessions)
	kycAPI := ecolatam.NewKycClient(rc)
	socialAPI := ecolatam.NewSocialClient(rc)

	// --- Services ---
	roles := service.NewRoleService(ecolatam.NewRoleTables(rc), middleware.Sessions, cfg.Roles.CheckTimeout, log)
	guard := service.NewGuard(middleware.Sessions, roles)
	search := service.NewSearchService(ecoguiaAPI, usersAPI, middleware.Sessions, cfg.Search.CacheSize, cfg.Search.CacheTTL, log)
	uploader := ipfs.NewUploader(ipfs.Config{APIBase: cfg.IPFS.APIBase, Timeout: cfg.IPFS.Timeout}, log)

	e := api.NewRouter(api.Deps{
		Handlers: api.Handlers{
			Auth:     handler.NewAuthHandler(authAPI, roles, middleware.Sessions),
			Ecoguia:  handler.NewEcoguiaHandler(ecoguiaAPI),
			Users:    handler.NewUsersHandler(usersAPI),
			Kyc:      handler.NewKycHandler(kycAPI, uploader),
			Catalogs: handler.NewCatalogsHandler(catalogsAPI, adminAPI, categoriesAPI),
			Search:   handler.NewSearchHandler(search),
			Social:   handler.NewSocialHandler(socialAPI),
		},
		Guard: guard,
		Scope: middleware.ScopeConfig{
			Store:      store,
			Keys:       service.SessionKeys{Token: cfg.Session.TokenKey, User: cfg.Session.UserKey},
			CookieName: cfg.Session.Cookie,
			CookieTTL:  cfg.Session.TTL,
			Secure:     cfg.Production(),
			Log:        log,
		},
		Health: map[string]handlers.Pinger{
			"session_store": store,
			"backend":       rc,
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// sessionStore is what the gateway needs from a session backend.
type sessionStore interface {
	ports.KVStorage
	handlers.Pinger
}

func openSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (sessionStore, func(), error) {
	switch cfg.Session.Store {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionStore(client, cfg.Session.TTL), func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
		}, nil

	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: serviceName})
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewSessionStore(db, cfg.Session.TTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("session indexes: %w", err)
		}
		return store, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		}, nil

	default:
		log.Warn().Msg("sessions are kept in memory and lost on restart")
		return memory.NewSessionStore(cfg.Session.TTL), func() {}, nil
	}
}
