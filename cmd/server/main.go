// Command server runs the fuel gauge conversion API.
//
// Startup order: load .env, configure logging, load and validate config,
// open the database and migrate the schema, build and persist the calibration
// table, set up tracing, wire the HTTP router, then serve until SIGINT or
// SIGTERM triggers a graceful shutdown.
//
// @title           Fuel Gauge Conversion API
// @version         1.0
// @description     Converts dipstick gauge readings to fuel volume via a
// @description     calibration table and keeps an auditable conversion ledger.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/go-fuel-backend/docs"
	"github.com/tbourn/go-fuel-backend/internal/calibration"
	"github.com/tbourn/go-fuel-backend/internal/config"
	httpapi "github.com/tbourn/go-fuel-backend/internal/http"
	"github.com/tbourn/go-fuel-backend/internal/observability"
	"github.com/tbourn/go-fuel-backend/internal/repo"
	"github.com/tbourn/go-fuel-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	ver := sysutil.FirstNonEmpty(os.Getenv("SERVICE_VERSION"), version)

	gin.SetMode(cfg.GinMode)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}

	// Decode the calibration chart once; gaps and monotonicity findings are
	// logged here and surfaced per reading as 404s later.
	table, rep, err := calibration.Default(cfg.MaxGaugeCm, cfg.TankCapacityL)
	if err != nil {
		log.Fatal().Err(err).Msg("build calibration table")
	}
	if len(rep.Gaps) > 0 {
		log.Warn().Ints("readings_cm", rep.Gaps).Msg("calibration chart has gaps")
	}
	if len(rep.NonMonotonic) > 0 {
		log.Warn().Ints("readings_cm", rep.NonMonotonic).Msg("calibration chart is not monotonic")
	}
	ctx := context.Background()
	if err := repo.SeedCalibration(ctx, db, table.Points()); err != nil {
		log.Fatal().Err(err).Msg("seed calibration table")
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, table, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("version", ver).
			Str("addr", srv.Addr).
			Str("base_path", cfg.APIBasePath).
			Str("history_scope", cfg.HistoryScope).
			Int("max_gauge_cm", cfg.MaxGaugeCm).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}
