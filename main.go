package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokoadmin/internal/config"
	"tokoadmin/internal/handlers"
	"tokoadmin/internal/middleware"
	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"
	"tokoadmin/pkg/rabbitmq"
)

// NewApp wires services and handlers over store into a Fiber app. events may be nil.
func NewApp(cfg *config.Config, store *repositories.Store, events services.EventPublisher, log logger.Logger) *fiber.App {
	validate := validator.New()

	productService := services.NewProductService(store.Products, events, log)
	checkoutService := services.NewCheckoutService(store.Products, store.Coupons, cfg.Shipping, cfg.TaxRate)
	orderService := services.NewOrderService(store, checkoutService, events, log)
	couponService := services.NewCouponService(store.Coupons, log)
	offerService := services.NewOfferService(store.Offers, log)
	authService := services.NewAuthService(store.Users, cfg.JWTSecret, log)

	productHandler := handlers.NewProductHandler(productService, validate, log)
	orderHandler := handlers.NewOrderHandler(orderService, validate, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, validate, log)
	promotionHandler := handlers.NewPromotionHandler(couponService, offerService, validate, log)
	authHandler := handlers.NewAuthHandler(authService, validate, log)

	app := fiber.New(fiber.Config{
		AppName:      "toko-admin",
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"message": utils.StatusMessage(code),
				"error":   err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestContext(cfg.RequestTimeout))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.Prometheus())

	app.Get("/health", func(c *fiber.Ctx) error {
		broker := "disabled"
		if events != nil {
			broker = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"broker": broker,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiV1 := app.Group("/api/v1")

	// Public storefront and authentication routes
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	// Admin console routes (require JWT authentication)
	admin := apiV1.Group("/admin", middleware.AuthRequired(authService, log))
	authHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	promotionHandler.RegisterAdminRoutes(admin)

	return app
}

// openStore returns the backend selected by DB_DRIVER.
func openStore(cfg *config.Config, log logger.Logger) (*repositories.Store, error) {
	if cfg.DBDriver == config.DriverMemory {
		return repositories.NewMemoryStore(), nil
	}
	db, err := repositories.OpenDB(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	return repositories.NewGORMStore(db), nil
}

// consumeEvent logs a consumed domain event and counts it.
func consumeEvent(log logger.Logger) rabbitmq.EventHandler {
	return func(ctx context.Context, event models.Event) error {
		middleware.RecordEventConsumed(event.Type)
		log.Info("event received",
			logger.String("type", event.Type),
			logger.String("order_id", event.OrderID),
			logger.String("product_id", event.ProductID),
			logger.String("status", event.Status))
		return nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewZapLogger(cfg.AppEnv, logger.Options{Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to open store", logger.String("driver", cfg.DBDriver), logger.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !logger.IsProduction(cfg.AppEnv) {
		if err := seedDemoData(ctx, store, time.Now()); err != nil {
			log.Warn("failed to seed demo data", logger.Error(err))
		}
	}

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.Exchange,
			Queue:    cfg.Queue,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize RabbitMQ client", logger.Error(err))
		}
		defer mqClient.Close()
		events = mqClient

		if err := mqClient.ConsumeEvents(ctx, consumeEvent(log)); err != nil {
			log.Error("failed to start RabbitMQ consumer", logger.Error(err))
		}
	} else {
		log.Info("RABBITMQ_URL not set, domain events are disabled")
	}

	app := NewApp(cfg, store, events, log)

	go func() {
		log.Info("starting server",
			logger.String("port", cfg.AppPort),
			logger.String("driver", cfg.DBDriver),
			logger.Any("shipping_methods", cfg.ShippingMethodNames()))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", logger.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during fiber shutdown", logger.Error(err))
	}
	log.Info("server gracefully stopped")
}
