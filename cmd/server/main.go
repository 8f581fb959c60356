// Command server runs the credit-risk oracle HTTP service.
//
// Startup order matters: configuration and the signing key are validated
// before the listener opens, so a misconfigured oracle never serves a single
// request. Once up, the process runs until SIGINT/SIGTERM and then drains
// in-flight requests before exiting.
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

	"github.com/agrobond/go-oracle-backend/internal/attest"
	"github.com/agrobond/go-oracle-backend/internal/config"
	"github.com/agrobond/go-oracle-backend/internal/domain"
	httpapi "github.com/agrobond/go-oracle-backend/internal/http"
	"github.com/agrobond/go-oracle-backend/internal/observability"
	"github.com/agrobond/go-oracle-backend/internal/oracle"
	"github.com/agrobond/go-oracle-backend/internal/risk"
	"github.com/agrobond/go-oracle-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("opentelemetry setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("opentelemetry shutdown")
		}
	}()

	// Payer directory: built-in fixtures unless an operator supplies a file.
	dir := domain.DefaultDirectory()
	if cfg.Oracle.DirectoryPath != "" {
		dir, err = domain.LoadDirectory(cfg.Oracle.DirectoryPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Oracle.DirectoryPath).Msg("invalid payer directory")
		}
	}
	log.Info().Int("payers", dir.Len()).Msg("payer directory loaded")

	engine := risk.NewEngine(dir)

	signer, err := attest.NewSigner(cfg.Oracle.SigningKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid signing key")
	}

	svc := oracle.NewService(engine, signer, cfg.Oracle.ChainID, cfg.Oracle.ContractAddress, nil)
	log.Info().
		Str("signer", svc.SignerAddress()).
		Uint64("chain_id", svc.ChainID()).
		Str("oracle_contract", svc.OracleAddress()).
		Msg("oracle signer ready")

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
