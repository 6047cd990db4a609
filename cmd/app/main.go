package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
	"github.com/wichananm65/kunapet-backend/internal/cart"
	"github.com/wichananm65/kunapet-backend/internal/checkout"
	"github.com/wichananm65/kunapet-backend/internal/config"
	"github.com/wichananm65/kunapet-backend/internal/database"
	"github.com/wichananm65/kunapet-backend/internal/event"
	"github.com/wichananm65/kunapet-backend/internal/logger"
	"github.com/wichananm65/kunapet-backend/internal/membership"
	"github.com/wichananm65/kunapet-backend/internal/metrics"
	"github.com/wichananm65/kunapet-backend/internal/order"
	"github.com/wichananm65/kunapet-backend/internal/points"
	"github.com/wichananm65/kunapet-backend/internal/product"
	"github.com/wichananm65/kunapet-backend/internal/provider"
	"github.com/wichananm65/kunapet-backend/internal/services"
	"github.com/wichananm65/kunapet-backend/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.EnsureSchema(db); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.CartStore == config.CartStoreRedis {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("ping redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	app := fiber.New(fiber.Config{ErrorHandler: apperrors.FiberErrorHandler})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.RequestLogger(log))
	metrics.RegisterRoutes(app)

	// users and sessions
	var revoker user.Revoker = user.NewMemoryRevoker()
	if rdb != nil {
		revoker = user.NewRedisRevoker(rdb)
	}
	issuer := user.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	userHandler := user.NewHandler(user.NewService(user.NewPostgresRepository(db), issuer, revoker, log))

	productService := product.NewService(product.NewPostgresRepository(db))
	providerService := provider.NewService(provider.NewPostgresRepository(db), log)
	providerHandler := provider.NewHandler(providerService)
	serviceCatalog := services.NewService(services.NewPostgresRepository(db))

	var cartRepo cart.Repository
	switch cfg.CartStore {
	case config.CartStoreMemory:
		cartRepo = cart.NewInMemoryRepository()
	case config.CartStoreRedis:
		cartRepo = cart.NewRedisRepository(rdb, cfg.CartTTL)
	default:
		cartRepo = cart.NewPostgresRepository(db)
	}
	cartService := cart.NewService(cartRepo, log)
	orderService := order.NewService(order.NewPostgresRepository(db))

	var publisher event.Publisher = event.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = event.NewKafkaPublisher(cfg.KafkaBrokers, log)
	}
	defer publisher.Close()

	gateway := checkout.NewResilientGateway(
		checkout.NewSimulatedGateway(cfg.PaymentDelay),
		checkout.RetryConfig{
			MaxAttempts:     cfg.PaymentMaxAttempts,
			InitialInterval: cfg.PaymentRetryInitial,
			MaxInterval:     cfg.PaymentRetryMax,
		},
		log,
	)
	checkoutService := checkout.NewService(checkout.Deps{
		Carts:     cartService,
		Orders:    orderService,
		Providers: providerService,
		Services:  serviceCatalog,
		Gateway:   gateway,
		Publisher: publisher,
		Log:       log,
	})

	userHandler.RegisterPublicRoutes(app)
	providerHandler.RegisterPublicRoutes(app)
	services.NewHandler(serviceCatalog).RegisterPublicRoutes(app)
	product.NewHandler(productService).RegisterPublicRoutes(app)

	app.Use(user.Middleware(issuer, revoker))

	userHandler.RegisterProtectedRoutes(app)
	providerHandler.RegisterProtectedRoutes(app)
	cart.NewHandler(cartService, productService).RegisterProtectedRoutes(app)
	checkout.NewHandler(checkoutService).RegisterProtectedRoutes(app)
	order.NewHandler(orderService).RegisterProtectedRoutes(app)
	points.NewHandler(points.NewService(points.NewPostgresRepository(db), log)).RegisterProtectedRoutes(app)
	membership.NewHandler(membership.NewService(membership.NewPostgresRepository(db), log)).RegisterProtectedRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		_ = app.Shutdown()
	}()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error("listen", zap.Error(err))
	}
}
