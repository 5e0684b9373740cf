package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consultly/internal/config"
	"consultly/internal/database"
	"consultly/internal/logging"
	"consultly/internal/metrics"
	"consultly/internal/middleware"
	"consultly/internal/modules/admin"
	"consultly/internal/modules/auth"
	"consultly/internal/modules/availability"
	"consultly/internal/modules/booking"
	"consultly/internal/modules/catalog"
	"consultly/internal/modules/lead"
	"consultly/internal/modules/notify"
	jwtsvc "consultly/internal/pkg/jwt"
	"consultly/internal/repository"
	syncx "consultly/internal/sync"
	"consultly/internal/sync/google"
	"consultly/internal/sync/odoo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	metrics.Register()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("database migrate")
	}

	userRepo := repository.NewUserRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	var calendarAdapter syncx.CalendarAdapter
	if cfg.Google.IsConfigured() {
		cal, err := google.NewCalendarService(context.Background(), cfg.Google)
		if err != nil {
			logger.Fatal().Err(err).Msg("google calendar init")
		}
		calendarAdapter = syncx.WithCalendarBreaker(cal, logger)
		logger.Info().Str("calendar_id", cfg.Google.CalendarID).Msg("google calendar sync enabled")
	} else {
		logger.Warn().Msg("google calendar sync not configured")
	}

	var crmAdapter syncx.CrmAdapter
	if cfg.Odoo.IsConfigured() {
		crmAdapter = syncx.WithCrmBreaker(odoo.NewClient(cfg.Odoo), logger)
		logger.Info().Str("url", cfg.Odoo.URL).Msg("odoo sync enabled")
	} else {
		logger.Warn().Msg("odoo sync not configured")
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := notify.NewHub(logger)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(
		bookingRepo, slotRepo, syncLogRepo, auditRepo,
		calendarAdapter, crmAdapter, hub,
		cfg.SyncTimeout, logger,
	)
	bookingHandler := booking.NewHandler(bookingService)

	availabilityService := availability.NewService(availabilityRepo, slotRepo, auditRepo, logger)
	availabilityHandler := availability.NewHandler(availabilityService)

	leadService := lead.NewService(leadRepo, auditRepo, logger)
	leadHandler := lead.NewHandler(leadService)

	catalogService := catalog.NewService(serviceRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	adminService := admin.NewService(bookingService, auditRepo, leadRepo)
	adminHandler := admin.NewHandler(adminService, bookingService)

	notifyHandler := notify.NewHandler(hub)

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		availabilityHandler.RegisterPublicRoutes(v1)

		limited := v1.Group("/")
		limited.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		{
			bookingHandler.RegisterRoutes(limited)
			leadHandler.RegisterRoutes(limited)
		}

		// admin panel
		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.Auth(j))
		{
			adminHandler.RegisterRoutes(adminGroup)
			availabilityHandler.RegisterAdminRoutes(adminGroup)
			notifyHandler.RegisterRoutes(adminGroup)
		}
	}

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
