package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/config"
	"clubhouse-server/internal/db"
	transport "clubhouse-server/internal/http"
	"clubhouse-server/internal/http/middleware"
	"clubhouse-server/internal/metrics"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
	"clubhouse-server/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().String("http-addr", "", "listen address, e.g. :8080")
	cmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
	cmd.Flags().String("redis-url", "", "redis URL for reset notifications")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.Env)
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.MigrateOnStart {
		if err := migrateUp(cfg.DBURL); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	dbConn, err := db.Connect(ctx, cfg.DBURL, db.ConnectOptions{Retries: cfg.DBConnectRetries, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbConn.Close()

	gormDB, err := db.OpenGorm(dbConn.Pool)
	if err != nil {
		return err
	}
	defer gormDB.Close()

	notifier, closeNotifier, err := newResetNotifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	m := metrics.New()
	accounts := repo.NewAccountRepo(dbConn.Pool, cfg.RequestTimeout)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens := auth.NewTokenCodec(cfg.JWTSecret)

	authService := services.NewAuthService(accounts, hasher, tokens, cfg, logger, m)
	resetService := services.NewResetService(accounts, hasher, notifier, cfg, logger, m)

	if err := db.EnsureBootstrapAdmin(ctx, authService, cfg.Bootstrap, logger); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	gdb := gormDB.DB
	router := transport.NewRouter(transport.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitPerMinute),
		DB:          dbConn.Pool,
		Tokens:      tokens,

		AuthService:      authService,
		ResetService:     resetService,
		MemberService:    services.NewMemberService(repo.NewMemberRepo(gdb, cfg.RequestTimeout)),
		ContractService:  services.NewContractService(repo.NewContractRepo(gdb, cfg.RequestTimeout)),
		InvoiceService:   services.NewInvoiceService(repo.NewInvoiceRepo(dbConn.Pool, cfg.RequestTimeout)),
		InventoryService: services.NewRecordService[models.InventoryItem](repo.NewInventoryRepo(gdb, cfg.RequestTimeout), "inventory item"),
		DocumentService:  services.NewRecordService[models.Document](repo.NewDocumentRepo(gdb, cfg.RequestTimeout), "document"),
		MessageService:   services.NewRecordService[models.Message](repo.NewMessageRepo(gdb, cfg.RequestTimeout), "message"),
		ReportService:    services.NewReportService(repo.NewReportRepo(gdb, cfg.RequestTimeout)),
		DashboardService: services.NewDashboardService(repo.NewDashboardRepo(gdb, cfg.RequestTimeout)),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("http server stopped")
	return runErr
}

// newResetNotifier publishes reset links to a redis stream when REDIS_URL
// is set, and otherwise logs them. The link itself is only logged outside
// prod.
func newResetNotifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.ResetNotifier, func(), error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set; password reset links are only logged")
		return services.NewLogResetNotifier(logger, !cfg.IsProd()), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("reset notifications go to redis stream", "stream", cfg.ResetNotifyStream)
	return services.NewRedisResetNotifier(client, cfg.ResetNotifyStream), func() { _ = client.Close() }, nil
}
