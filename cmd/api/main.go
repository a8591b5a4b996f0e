package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "movie_review/internal/adapters/http_server"
	"movie_review/internal/adapters/identity"
	"movie_review/internal/adapters/observability"
	"movie_review/internal/adapters/omdb"
	redisad "movie_review/internal/adapters/redis"
	"movie_review/internal/app"
	"movie_review/internal/shared"
	mysqlrepo "movie_review/internal/storage/mysql"
)

func main() {
	// .env is optional; real deployments use the process environment
	_ = godotenv.Load()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	catalogClient, err := omdb.New(cfg.OMDbBase, cfg.OMDbKey, cfg.OMDbRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OMDb client")
	}

	verifier, err := identity.New(cfg.IdentityBase, cfg.IdentityKey, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize identity verifier")
	}
	cachedVerifier := identity.NewCached(verifier, cache, int(cfg.TokenTTL.Seconds()))

	reviews := app.NewReviewService(repo)
	catalog := app.NewCatalogService(catalogClient, shared.FeaturedMovieIDs, 8)

	// http
	srv := server.New(cfg.AppEnv)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Reviews:  reviews,
		Catalog:  catalog,
		Verifier: cachedVerifier,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
