package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/carelink/backend/internal/adapters/cache"
	"github.com/carelink/backend/internal/adapters/database"
	"github.com/carelink/backend/internal/adapters/events"
	"github.com/carelink/backend/internal/adapters/mail"
	"github.com/carelink/backend/internal/adapters/search"
	"github.com/carelink/backend/internal/adapters/storage"
	"github.com/carelink/backend/internal/api/handlers"
	"github.com/carelink/backend/internal/api/middleware"
	"github.com/carelink/backend/internal/api/routes"
	"github.com/carelink/backend/internal/application/services"
	"github.com/carelink/backend/internal/domain/providers"
	"github.com/carelink/backend/internal/infrastructure/auth"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
	"github.com/carelink/backend/internal/infrastructure/clients/redis"
	"github.com/carelink/backend/internal/infrastructure/clients/typesense"
	"github.com/carelink/backend/internal/infrastructure/observability"
	"github.com/carelink/backend/pkg/config"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			migrate, _ := cmd.Flags().GetBool("migrate")
			return runServer(cfg, migrate)
		},
	}
	cmd.Flags().Bool("migrate", true, "Apply pending migrations before serving")
	return cmd
}

func runServer(cfg *config.Config, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	if migrate {
		if _, err := runMigrations(ctx, pgClient, cfg.Database.MigrationsDir); err != nil {
			return err
		}
	}

	// Redis backs the cache and the notification bus; without it both fall
	// back to process-local implementations.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using in-memory cache and event bus")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, "carelink:")
			eventBus = events.NewRedisEventBus(redisClient)
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter()
		eventBus = events.NewMemoryEventBus()
	}
	defer func() {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}()

	var blogSearch providers.BlogSearchProvider
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, blog search disabled")
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to init Typesense schema")
			}
			blogSearch = adapter
		}
	}

	var mailer providers.Mailer = mail.LogMailer{}
	if cfg.Mail.Enabled {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	}

	images, err := storage.NewLocalImageStore(cfg.Upload.Dir, cfg.Upload.URLPrefix, cfg.Upload.MaxBytes)
	if err != nil {
		return err
	}

	// Services
	userService := services.NewUserService(
		database.NewUserAdapter(pgClient),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		cfg.Auth.LoginURL,
	)
	appointmentService := services.NewAppointmentService(database.NewAppointmentAdapter(pgClient))
	paymentService := services.NewPaymentService(database.NewPaymentAdapter(pgClient))
	nursePaymentService := services.NewNursePaymentService(
		database.NewNursePaymentAdapter(pgClient),
		eventBus,
		cfg.Commission.DefaultPercentage,
	)
	notificationService := services.NewNotificationService(database.NewNotificationAdapter(pgClient), eventBus)
	blogService := services.NewBlogService(database.NewBlogAdapter(pgClient), blogSearch)
	contactService := services.NewContactService(database.NewContactMessageAdapter(pgClient), mailer, metrics)
	dashboardService := services.NewDashboardService(database.NewDashboardAdapter(pgClient))

	// Handlers
	h := routes.Handlers{
		Users:         handlers.NewUserHandler(userService),
		Appointments:  handlers.NewAppointmentHandler(appointmentService),
		Payments:      handlers.NewPaymentHandler(paymentService),
		NursePayments: handlers.NewNursePaymentHandler(nursePaymentService),
		Blogs:         handlers.NewBlogHandler(blogService, images, cfg.Upload.MaxBytes),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Stream:        handlers.NewSSEHandler(notificationService),
		Contact:       handlers.NewContactHandler(contactService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService),
	}

	cacheMiddleware := middleware.NewCacheMiddleware(cacheProvider, metrics, map[string]middleware.CacheConfig{
		routes.DashboardStatsPath: {TTL: cfg.Dashboard.CacheTTL, Enabled: cfg.Dashboard.CacheTTL > 0},
	})
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	if err := rateLimiter.TrustProxies(cfg.RateLimit.TrustedProxies); err != nil {
		return err
	}
	go rateLimiter.Run(ctx)

	router := routes.NewRouter(h, routes.Options{
		CORSOrigin: cfg.Server.CORSOrigin,
		UploadDir:  images.Dir(),
	}, cacheMiddleware, rateLimiter, metrics)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		// Open notification streams end when the process is signalled.
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
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

	log.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
	return nil
}
