package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sheltersync/sheltersync-backend/api/routes"
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
	"github.com/sheltersync/sheltersync-backend/pkg/genai"
	"github.com/sheltersync/sheltersync-backend/pkg/logger"
	"github.com/sheltersync/sheltersync-backend/pkg/metrics"
	"github.com/sheltersync/sheltersync-backend/pkg/migrate"
	"github.com/sheltersync/sheltersync-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	residentsRepo := residents.NewRepository(dbClient.DB())
	movementRepo := movement.NewRepository(dbClient.DB())
	staffRepo := staff.NewRepository(dbClient.DB())
	kioskRepo := kiosk.NewRepository(dbClient.DB())

	movementMetrics := metrics.NewMovementMetrics(prometheus.DefaultRegisterer)

	residentsService, err := residents.NewService(residents.ServiceParams{
		Repo:           residentsRepo,
		MovementRepo:   movementRepo,
		TxRunner:       dbClient,
		MovementLogCap: cfg.Retention.MovementLogCap,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create residents service", err)
		os.Exit(1)
	}

	occupancyService, err := occupancy.NewService(occupancy.ServiceParams{
		Residents:      residentsRepo,
		MovementRepo:   movementRepo,
		TxRunner:       dbClient,
		Metrics:        movementMetrics,
		MovementLogCap: cfg.Retention.MovementLogCap,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create occupancy service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		MovementRepo: movementRepo,
		Residents:    residentsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	staffService, err := staff.NewService(staff.ServiceParams{
		Repo:      staffRepo,
		PinConfig: cfg.Pin,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create staff service", err)
		os.Exit(1)
	}

	if err := staffService.EnsureDefaultAdmin(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed default admin", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		StaffRepo:      staffRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	kioskService, err := kiosk.NewService(kioskRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create kiosk service", err)
		os.Exit(1)
	}

	var generator genai.TextGenerator
	if cfg.Gemini.APIKey != "" {
		client, err := genai.NewClient(context.Background(), cfg.Gemini)
		if err != nil {
			logg.Error(context.Background(), "failed to create gemini client", err)
			os.Exit(1)
		}
		generator = client
	} else {
		logg.Warn(context.Background(), "gemini api key not set, bio enhancement disabled")
	}

	bioService, err := bio.NewService(bio.ServiceParams{
		Residents: residentsRepo,
		Guard:     redisClient,
		Generator: generator,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bio service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:           cfg,
			Logger:           logg,
			DBPinger:         dbClient,
			RedisClient:      redisClient,
			SessionManager:   sessionManager,
			AuthService:      authService,
			ResidentsService: residentsService,
			OccupancyService: occupancyService,
			MovementRepo:     movementRepo,
			AnalyticsService: analyticsService,
			StaffService:     staffService,
			KioskService:     kioskService,
			BioService:       bioService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
