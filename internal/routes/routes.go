package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tembo-pay/tembo_pay/internal/auth"
	"github.com/tembo-pay/tembo_pay/internal/codes"
	"github.com/tembo-pay/tembo_pay/internal/config"
	"github.com/tembo-pay/tembo_pay/internal/identity"
	"github.com/tembo-pay/tembo_pay/internal/ledger"
	"github.com/tembo-pay/tembo_pay/internal/middleware"
	"github.com/tembo-pay/tembo_pay/internal/notification"
	"github.com/tembo-pay/tembo_pay/internal/redemption"
	"github.com/tembo-pay/tembo_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB, d.Logger)
	} else {
		store = ledger.NewInMemory()
	}

	walletSvc := wallet.NewService(store)
	if err := walletSvc.Provision(context.Background(), d.Cfg.SourceWallet, d.Cfg.PlatformWallet); err != nil {
		return err
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	redemptionSvc := redemption.NewService(store, d.Cfg.SourceWallet, d.Cfg.PlatformWallet, notifier)
	codeSvc := codes.NewService(store)

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)

	authHandler := auth.NewHandler(identitySvc, authSvc)
	redemptionHandler := redemption.NewHandler(redemptionSvc)
	codeHandler := codes.NewHandler(codeSvc)
	walletHandler := wallet.NewHandler(walletSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes. Redemption is deliberately unauthenticated: a code is a
	// bearer instrument and the redeeming party need not hold an account.
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	api.Post("/codes/redeem", redemptionHandler.Redeem)

	// Protected routes.
	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	protected := api.Group("", jwtmw)
	RegisterCodeRoutes(protected, codeHandler)
	RegisterWalletRoutes(protected, walletHandler)
	protected.Post("/auth/pin", authHandler.SetPIN)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		user, err := identityRepo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"user_id":    user.ID,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		})
	})

	return nil
}
