package http

import (
	"log/slog"
	"os"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/user"
	"github.com/clinixa-his/attendance-engine-go/internal/handler/http/middleware"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	exceptionHandler ExceptionHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Route("/process", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendancePreview)).
						Post("/preview", attendanceHandler.Preview)

					// Admin only
					r.With(middleware.AdminOnly).
						Post("/commit", attendanceHandler.Commit)
				})

				r.Route("/summaries", func(r chi.Router) {
					r.Get("/my", attendanceHandler.GetMySummary)

					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).
						Get("/", attendanceHandler.ListSummaries)
				})
			})

			r.Route("/exceptions", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionExceptionRescan)).
					Post("/rescan", exceptionHandler.Rescan)

				r.With(middleware.RequirePermission(user.PermissionExceptionView)).
					Get("/", exceptionHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionExceptionReview)).
						Patch("/review", exceptionHandler.Review)

					// Admin only
					r.With(middleware.AdminOnly).
						Delete("/", exceptionHandler.Delete)
				})
			})
		})
	})
	return r
}
