package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/dinarpay/dinarpay/internal/aml"
	"github.com/dinarpay/dinarpay/internal/auth"
	"github.com/dinarpay/dinarpay/internal/config"
	"github.com/dinarpay/dinarpay/internal/identity"
	"github.com/dinarpay/dinarpay/internal/middleware"
	"github.com/dinarpay/dinarpay/internal/notification"
	"github.com/dinarpay/dinarpay/internal/openfinance"
	"github.com/dinarpay/dinarpay/internal/security"
	"github.com/dinarpay/dinarpay/internal/transactions"
	"github.com/dinarpay/dinarpay/internal/transfers"
	"github.com/dinarpay/dinarpay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	AMQP   *amqp.Channel
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories fall back to memory stores in database-less development.
	var (
		identityRepo identity.Repository
		walletRepo   wallet.Repository
		txRepo       transactions.Repository
		amlRepo      aml.Repository
		ofRepo       openfinance.Repository
	)
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		txRepo = transactions.NewPostgresRepository(d.DB)
		amlRepo = aml.NewPostgresRepository(d.DB)
		ofRepo = openfinance.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		walletRepo = wallet.NewMemoryRepository()
		txRepo = transactions.NewMemoryRepository()
		amlRepo = aml.NewMemoryRepository()
		ofRepo = openfinance.NewMemoryRepository()
	}

	var notifier notification.Notifier = notification.NewLoggerNotifier(d.Logger)
	if d.AMQP != nil {
		amqpNotifier, err := notification.NewAMQPNotifier(d.AMQP, "")
		if err != nil {
			return fmt.Errorf("declare notification queue: %w", err)
		}
		notifier = amqpNotifier
	}

	// Services and handlers
	amlSvc := aml.NewService(amlRepo, d.Cfg.AMLThresholdFils, notifier)
	walletSvc := wallet.NewService(walletRepo, txRepo, amlSvc)
	identitySvc := identity.NewService(identityRepo)
	tokens := auth.NewTokenIssuer(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL)
	transferSvc := transfers.NewService(walletSvc, identitySvc, txRepo, amlSvc, notifier)
	ofSvc := openfinance.NewService(openfinance.NewClient(d.Cfg.OpenFinance), ofRepo)

	authHandler := auth.NewHandler(identitySvc, tokens, walletSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	txHandler := transactions.NewHandler(txRepo)
	transferHandler := transfers.NewHandler(transferSvc, identitySvc)
	ofHandler := openfinance.NewHandler(ofSvc)
	amlHandler := aml.NewHandler(amlSvc)
	securityHandler := security.NewHandler()

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(tokens, identityRepo)
	protected := api.Group("", jwtmw)
	protected.Get("/auth/me", authHandler.Me)
	RegisterWalletRoutes(protected, walletHandler)
	RegisterTransactionRoutes(protected, txHandler)
	RegisterTransferRoutes(protected, transferHandler)
	RegisterOpenBankingRoutes(protected, ofHandler)
	RegisterAMLRoutes(protected, amlHandler)
	RegisterSecurityRoutes(protected, securityHandler)

	return nil
}
