package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	authapi "go.carehub.io/hospital-api/api/echo"
	"go.carehub.io/hospital-api/cache"
	redcache "go.carehub.io/hospital-api/cache/redis"
	"go.carehub.io/hospital-api/config"
	"go.carehub.io/hospital-api/internal/auth"
	"go.carehub.io/hospital-api/internal/metrics"
	"go.carehub.io/hospital-api/internal/server"
	"go.carehub.io/hospital-api/mongodb"
	"go.carehub.io/hospital-api/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	initLogger(cfg)
	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("mongo_db", cfg.MongoDBName).
		Str("log_level", cfg.LogLevel).
		Msg("Starting hospital-api authentication server")

	ctx := context.Background()
	if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MongoDB connection")
	}
	db := mongodb.GetDB()

	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize UserRepository")
	}
	auditRepo, err := mongodb.NewSessionAuditRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize SessionAuditRepository")
	}

	revocationStore := newRevocationStore(cfg)
	defer revocationStore.Close()

	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	tokenSigner := services.NewTokenSigner()
	tokenSigner.AddKeySigner(cfg.JWTSecretKey)
	tokenService := services.NewTokenService(
		tokenSigner, cfg.JWTSecretKey, cfg.JWTIssuer,
		cfg.AccessTokenTTL(), cfg.RefreshTokenTTL(),
	)

	verifier := services.NewCredentialVerifier(userRepo, passwordHasher)
	recorder := services.NewAuditRecorder(auditRepo)
	authService := services.NewAuthService(verifier, tokenService, recorder, revocationStore)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics.Register(registry)

	authAPI := authapi.NewAuthAPI(authService, tokenService)
	httpServer := server.NewHTTPServer(cfg, authAPI, registry)

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	mongodb.CloseMongoDB(shutdownCtx)

	log.Info().Msg("Server gracefully stopped")
}

func initLogger(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
		log.Warn().Str("configured_log_level", cfg.LogLevel).Msg("Invalid LOG_LEVEL, defaulting to info")
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newRevocationStore(cfg *config.ServerConfig) cache.RevocationStore {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryRevocationStore()
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.Info().Str("addr", cfg.RedisAddr).Msg("Using redis refresh-token deny list")
	return redcache.NewRevocationStore(client, "hospital-api")
}
