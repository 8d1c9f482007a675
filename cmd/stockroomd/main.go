package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/rs/cors"
	"github.com/stockroomd/stockroom/internal/adapters/duckdb"
	"github.com/stockroomd/stockroom/internal/adapters/fsstore"
	"github.com/stockroomd/stockroom/internal/adapters/pdf"
	"github.com/stockroomd/stockroom/internal/auth"
	"github.com/stockroomd/stockroom/internal/config"
	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/services"
	"github.com/stockroomd/stockroom/pkg/api"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("starting stockroomd")

	if err := run(logger); err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	configPath := flag.String("config", os.Getenv("STOCKROOM_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	// Adapters
	repo, err := duckdb.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer repo.Close()

	store, err := fsstore.New(cfg.Reports.ExportDir)
	if err != nil {
		return fmt.Errorf("opening result store: %w", err)
	}

	renderer := pdf.NewRenderer()

	// Core services
	registry := services.NewTaskRegistry()
	productSvc := services.NewProductService(logger, repo, repo)
	saleSvc := services.NewSaleService(logger, repo, repo)
	reportSvc := services.NewReportService(logger, registry, store, renderer, productSvc, services.ReportConfig{
		MaxConcurrentRenders: cfg.Reports.MaxConcurrentRenders,
		QueueSize:            cfg.Reports.QueueSize,
	})
	sweeper := services.NewSweeper(logger, registry, store, cfg.Retention(), cfg.SweepInterval())

	// Artifacts that survived a restart become downloadable again.
	if err := reportSvc.Rehydrate(); err != nil {
		return fmt.Errorf("rehydrating report registry: %w", err)
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		return fmt.Errorf("configuring tokens: %w", err)
	}

	if err := seedAdmin(ctx, logger, repo, cfg); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	apiServer := api.NewServer(logger, productSvc, saleSvc, reportSvc, repo, tokens)

	allowlist, err := api.IPAllowlist(logger, cfg.Server.AllowedIPs)
	if err != nil {
		return fmt.Errorf("configuring ip allowlist: %w", err)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: c.Handler(allowlist(apiServer.Handler())),
	}

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Report render pool
	g.Go(func() error {
		return reportSvc.Run(gCtx)
	})

	// 2. Retention sweeper
	g.Go(func() error {
		return sweeper.Run(gCtx)
	})

	// 3. API server
	g.Go(func() error {
		logger.Info("starting api server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})

	// 4. Graceful shutdown for the API server
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seedAdmin creates the configured admin account if it doesn't exist yet.
// Without a configured password no account is created, which leaves the
// instance registration-only.
func seedAdmin(ctx context.Context, logger *slog.Logger, repo *duckdb.Repository, cfg *config.Config) error {
	if cfg.Auth.AdminPassword == "" {
		logger.Warn("no admin password configured, skipping admin seed")
		return nil
	}

	if _, err := repo.GetUserByUsername(ctx, cfg.Auth.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := domain.User{
		Username:     cfg.Auth.AdminUsername,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, &admin); err != nil {
		return err
	}
	logger.Info("admin user seeded", "username", admin.Username)
	return nil
}
