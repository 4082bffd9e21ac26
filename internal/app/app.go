package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/velaflam/storefront/internal/auth"
	"github.com/velaflam/storefront/internal/config"
	"github.com/velaflam/storefront/internal/event"
	handler "github.com/velaflam/storefront/internal/handler/http"
	postgresrepo "github.com/velaflam/storefront/internal/repository/postgres"
	redisrepo "github.com/velaflam/storefront/internal/repository/redis"
	"github.com/velaflam/storefront/internal/service"
	"github.com/velaflam/storefront/migrations"
	"github.com/velaflam/storefront/pkg/database"
	"github.com/velaflam/storefront/pkg/health"
	pkgkafka "github.com/velaflam/storefront/pkg/kafka"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PostgreSQL pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPassword
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSLMode

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.String("database", cfg.PostgresDB),
	)

	database.RegisterPoolMetrics(pool, "storefront")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis client.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Host = cfg.RedisHost
	redisCfg.Port = cfg.RedisPort
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", redisCfg.Addr()),
		slog.Int("db", cfg.RedisDB),
	)

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Repositories.
	cartRepo := redisrepo.NewCartRepository(rdb, cfg.CartTTL)
	wishlistRepo := redisrepo.NewWishlistRepository(rdb, cfg.WishlistTTL)
	wishlistMirror := postgresrepo.NewWishlistMirror(pool)
	orderRepo := postgresrepo.NewOrderRepository(pool)
	reviewRepo := postgresrepo.NewReviewRepository(pool)
	productRepo := postgresrepo.NewProductRepository(pool)
	contactRepo := postgresrepo.NewContactRepository(pool)
	adminUserRepo := postgresrepo.NewAdminUserRepository(pool)
	statsRepo := postgresrepo.NewStatsRepository(pool)

	// Services.
	eventProducer := event.NewProducer(producer, logger)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	cartService := service.NewCartService(cartRepo, eventProducer, logger, cfg.CartTTL)
	wishlistService := service.NewWishlistService(wishlistRepo, wishlistMirror, logger, cfg.WishlistTTL)
	orderService := service.NewOrderService(orderRepo, cartRepo, eventProducer, logger)
	reviewService := service.NewReviewService(reviewRepo, eventProducer, logger, cfg.ReviewsRequireModeration)
	productService := service.NewProductService(productRepo, logger)
	contactService := service.NewContactService(contactRepo, eventProducer, logger)
	adminService := service.NewAdminService(adminUserRepo, statsRepo, jwtManager, logger)

	// Seed the first admin account on a fresh database.
	if err := adminService.Bootstrap(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("admin bootstrap failed", slog.String("error", err.Error()))
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	router := handler.NewRouter(handler.RouterDeps{
		CartService:      cartService,
		WishlistService:  wishlistService,
		OrderService:     orderService,
		ReviewService:    reviewService,
		ProductService:   productService,
		ContactService:   contactService,
		AdminService:     adminService,
		JWTManager:       jwtManager,
		HealthHandler:    healthHandler,
		Logger:           logger,
		RequestTimeout:   cfg.RequestTimeout,
		SessionCookieTTL: cfg.SessionCookieTTL,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		rdb:        rdb,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
