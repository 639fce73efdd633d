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

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/workday-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/workday-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/workday-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/workday-backend-go/internal/service/auth"
	eodService "github.com/cmlabs-hris/workday-backend-go/internal/service/eod"
	leaveService "github.com/cmlabs-hris/workday-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/workday-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/workday-backend-go/internal/service/report"
	userService "github.com/cmlabs-hris/workday-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

const (
	appName         = "workday"
	appVersion      = "v1.0.0"
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)
	response.SetDevelopment(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx, db, cfg.Database.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	loc := cfg.Attendance.Location()

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	eodRepo := postgresql.NewEODRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.JWT.CookieSecure)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	providers := []oauth.Provider{
		oauth.NewGoogleProvider(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes),
	}
	if cfg.OAuth2Microsoft.Enabled() {
		providers = append(providers, oauth.NewMicrosoftProvider(
			cfg.OAuth2Microsoft.ClientID,
			cfg.OAuth2Microsoft.ClientSecret,
			cfg.OAuth2Microsoft.RedirectURL,
			cfg.OAuth2Microsoft.Tenant,
			cfg.OAuth2Microsoft.Scopes,
		))
	}

	userSvc := userService.NewUserService(userRepo, txManager)
	authSvc := serviceAuth.NewAuthService(userRepo, JWTRepository, JWTService, txManager, providers...)
	notificationSvc := notificationService.NewNotificationService(notificationRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userSvc, cfg.Attendance.CutoffHour, loc)
	eodSvc := eodService.NewEODService(eodRepo, userSvc, loc)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, userRepo, userSvc, notificationSvc)
	reportSvc := reportService.NewReportService(reportRepo, userSvc, loc)

	scheduler := cron.NewScheduler()
	if err := cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.LockInterval).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("register attendance jobs: %w", err)
	}
	if err := cron.NewNotificationJobs(notificationSvc, cfg.Notification.Retention, cfg.Notification.PurgeInterval).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("register notification jobs: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg.App, logger, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, cfg.App.FrontendURL, cfg.JWT.CookieSecure),
		User:         appHTTP.NewUserHandler(userSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, loc),
		EOD:          appHTTP.NewEODHandler(eodSvc, loc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String(), "cutoff_hour", cfg.Attendance.CutoffHour)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
