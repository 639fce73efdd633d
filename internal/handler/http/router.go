package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Attendance   AttendanceHandler
	EOD          EODHandler
	Leave        LeaveHandler
	Notification NotificationHandler
	Report       ReportHandler
}

func NewRouter(appConfig config.AppConfig, logger *slog.Logger, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(appConfig.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.SecureHeaders(appConfig.Env == "production"))
	r.Use(middleware.BodyLimit(appConfig.MaxBodyBytes))
	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login/oauth/{provider}", h.Auth.LoginWithOAuth)
			r.Get("/oauth/callback/{provider}", h.Auth.OAuthCallback)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Delete("/refresh", h.Auth.Logout)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/users", func(r chi.Router) {
				// Pending accounts may read their own profile
				r.Get("/me", h.User.Me)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireActive)
					r.Get("/managers", h.User.ListManagers)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionUserView))
						r.Get("/", h.User.List)
						r.Get("/{id}", h.User.Get)
					})

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Post("/", h.User.Create)
						r.Put("/{id}", h.User.Update)
						r.Delete("/{id}", h.User.Delete)
					})
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireActive)

				r.Route("/attendance", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceMark)).Post("/", h.Attendance.Mark)
					r.Get("/my", h.Attendance.GetMyAttendance)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewTeam)).Get("/dashboard", h.Attendance.Dashboard)
					r.With(middleware.RequirePermission(user.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)
					r.With(middleware.RequirePermission(user.PermissionAttendanceLock)).Put("/{id}/lock", h.Attendance.SetLock)
				})

				r.Route("/eod", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionEODSubmit)).Post("/", h.EOD.Submit)
					r.Get("/my", h.EOD.GetMyEntries)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionEODViewTeam))
						r.Get("/team", h.EOD.GetTeamEntries)
						r.Get("/export", h.EOD.Export)
					})
				})

				r.Route("/leaves", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveApply)).Post("/apply", h.Leave.Apply)
					r.Get("/my", h.Leave.GetMyRequests)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Get("/pending", h.Leave.GetPendingRequests)
						r.Put("/{id}/action", h.Leave.Action)
					})
				})

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", h.Notification.List)
					r.Get("/unread-count", h.Notification.UnreadCount)
					r.Put("/read-all", h.Notification.MarkAllAsRead)
					r.Put("/{id}/read", h.Notification.MarkAsRead)
					r.Delete("/{id}", h.Notification.Delete)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Use(middleware.RequirePermission(user.PermissionReportsView))
					r.Get("/stats", h.Report.GetStats)
					r.Get("/monthly", h.Report.GetMonthlyReport)
					r.Get("/monthly/export", h.Report.ExportMonthlyReport)
					r.Get("/leave-utilization", h.Report.GetLeaveUtilization)
					r.Get("/project-performance", h.Report.GetProjectPerformance)
					r.Get("/eod-compliance", h.Report.GetEODCompliance)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
