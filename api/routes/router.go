package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sheltersync/sheltersync-backend/api/controllers"
	"github.com/sheltersync/sheltersync-backend/api/middleware"
	"github.com/sheltersync/sheltersync-backend/internal/analytics"
	"github.com/sheltersync/sheltersync-backend/internal/auth"
	"github.com/sheltersync/sheltersync-backend/internal/bio"
	"github.com/sheltersync/sheltersync-backend/internal/kiosk"
	"github.com/sheltersync/sheltersync-backend/internal/movement"
	"github.com/sheltersync/sheltersync-backend/internal/occupancy"
	"github.com/sheltersync/sheltersync-backend/internal/residents"
	"github.com/sheltersync/sheltersync-backend/internal/staff"
	"github.com/sheltersync/sheltersync-backend/pkg/auth/session"
	"github.com/sheltersync/sheltersync-backend/pkg/config"
	"github.com/sheltersync/sheltersync-backend/pkg/db"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
	"github.com/sheltersync/sheltersync-backend/pkg/redis"
)

// RouterParams carries every dependency the HTTP surface needs.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         db.Pinger
	RedisClient      *redis.Client
	SessionManager   session.AccessSessionChecker
	AuthService      auth.Service
	ResidentsService residents.Service
	OccupancyService occupancy.Service
	MovementRepo     movement.Repository
	AnalyticsService analytics.Service
	StaffService     staff.Service
	KioskService     kiosk.Service
	BioService       bio.Service
}

// NewRouter assembles the kiosk-facing public routes and the authenticated
// dashboard routes.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Kiosk.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	var redisPinger redis.Pinger
	if p.RedisClient != nil {
		redisPinger = p.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, redisPinger))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Kiosk surface, reachable without a token.
	r.Route("/api/kiosk", func(r chi.Router) {
		r.Get("/residents", controllers.KioskBoard(p.OccupancyService, logg))
		r.Post("/residents/{residentId}/check-in", controllers.KioskCheckIn(p.OccupancyService, logg))
		r.Post("/residents/{residentId}/check-out", controllers.KioskCheckOut(p.OccupancyService, logg))
		r.Get("/settings", controllers.GetKioskSettings(p.KioskService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.RedisClient, logg)).Post("/login", controllers.Login(p.AuthService, logg))
		r.Post("/refresh", controllers.RefreshToken(p.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, p.SessionManager, logg)).Post("/logout", controllers.Logout(p.AuthService, logg))
	})

	// Dashboard surface behind JWT auth.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		adminOnly := middleware.RequireRole(string(enums.StaffRoleAdmin), logg)

		r.Route("/residents", func(r chi.Router) {
			r.Get("/", controllers.ListResidents(p.OccupancyService, logg))
			r.With(adminOnly).Post("/", controllers.CreateResident(p.ResidentsService, logg))
			r.Get("/{residentId}", controllers.GetResident(p.ResidentsService, logg))
			r.Put("/{residentId}", controllers.UpdateResident(p.ResidentsService, logg))
			r.With(adminOnly).Delete("/{residentId}", controllers.DeleteResident(p.ResidentsService, logg))
			r.Post("/{residentId}/check-in", controllers.StaffCheckIn(p.OccupancyService, logg))
			r.Post("/{residentId}/check-out", controllers.StaffCheckOut(p.OccupancyService, logg))
			r.Post("/{residentId}/enhance-bio", controllers.EnhanceResidentBio(p.BioService, logg))
		})

		r.Get("/logs", controllers.ListMovementLogs(p.MovementRepo, logg))
		r.Get("/analytics/summary", controllers.AnalyticsSummary(p.AnalyticsService, logg))

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", controllers.ListStaff(p.StaffService, logg))
			r.With(adminOnly).Post("/", controllers.CreateStaff(p.StaffService, logg))
			r.Get("/me", controllers.GetStaffMe(p.StaffService, logg))
			r.Get("/{staffId}", controllers.GetStaff(p.StaffService, logg))
			r.Put("/{staffId}", controllers.UpdateStaff(p.StaffService, logg))
			r.With(adminOnly).Delete("/{staffId}", controllers.DeleteStaff(p.StaffService, logg))
		})

		r.With(adminOnly).Put("/kiosk-settings", controllers.UpdateKioskSettings(p.KioskService, logg))
	})

	return r
}
