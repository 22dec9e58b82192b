package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/campus-erp/campus-erp/internal/access"
	"github.com/campus-erp/campus-erp/internal/app"
	"github.com/campus-erp/campus-erp/internal/attendance"
	"github.com/campus-erp/campus-erp/internal/auth"
	"github.com/campus-erp/campus-erp/internal/observability"
	"github.com/campus-erp/campus-erp/internal/platform/cache"
	"github.com/campus-erp/campus-erp/internal/platform/db"
	"github.com/campus-erp/campus-erp/internal/shared"
	"github.com/campus-erp/campus-erp/internal/staff"
	"github.com/campus-erp/campus-erp/internal/students"
	"github.com/campus-erp/campus-erp/internal/tenant"
	"github.com/campus-erp/campus-erp/internal/users"
	"github.com/campus-erp/campus-erp/jobs"
	"github.com/campus-erp/campus-erp/report"
)

// tenantDirectory adapts the tenant service for login responses.
type tenantDirectory struct {
	service *tenant.Service
}

func (d tenantDirectory) Get(ctx context.Context, id int64) (tenant.Tenant, error) {
	return d.service.Get(ctx, id)
}

// mailQueue adapts the jobs client for transactional mail.
type mailQueue struct {
	client *jobs.Client
}

func (m mailQueue) EnqueueSendEmail(ctx context.Context, to, subject, body string) error {
	_, err := m.client.EnqueueSendEmail(ctx, jobs.SendEmailPayload{To: to, Subject: subject, Body: body})
	return err
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := shared.NewTokenStore(redisClient, cfg.TokenSecret, cfg.TokenTTL)
	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)
	guard := access.Guard{Logger: logger}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	tenantRepo := tenant.NewRepository(dbpool)
	tenantService := tenant.NewService(tenantRepo, auditLogger)
	tenantResolver := tenant.NewResolver(tenantRepo, redisClient, cfg.TenantCacheTTL)
	tenantHandler := tenant.NewHandler(logger, tenantService, tenantResolver, guard)
	tenantMiddleware := tenant.Middleware{Resolver: tenantResolver, Tokens: tokens, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, tokens, tenantDirectory{service: tenantService}, mailQueue{client: jobClient})

	accessHandler := access.NewHandler(logger, guard)

	studentRepo := students.NewRepository(dbpool)
	studentService := students.NewService(studentRepo, auditLogger)
	studentHandler := students.NewHandler(logger, studentService, guard)

	staffRepo := staff.NewRepository(dbpool)
	staffService := staff.NewService(staffRepo, auditLogger)
	staffHandler := staff.NewHandler(logger, staffService, guard)

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo, auditLogger)
	userHandler := users.NewHandler(logger, userService, guard)

	attendanceRepo := attendance.NewRepository(dbpool)
	attendanceService := attendance.NewService(attendanceRepo, idempotencyStore, auditLogger)
	attendanceHandler := attendance.NewHandler(logger, attendanceService, guard)

	metrics := observability.NewMetrics()

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(reportClient, studentService, guard, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Tokens:            tokens,
		Guard:             guard,
		TenantMiddleware:  tenantMiddleware,
		AuthHandler:       authHandler,
		AccessHandler:     accessHandler,
		TenantHandler:     tenantHandler,
		StudentsHandler:   studentHandler,
		StaffHandler:      staffHandler,
		UsersHandler:      userHandler,
		AttendanceHandler: attendanceHandler,
		ReportHandler:     reportHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
