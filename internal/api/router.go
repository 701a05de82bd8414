package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Jan1986-cloud/aitrader/internal/api/handler"
	"github.com/Jan1986-cloud/aitrader/internal/api/middleware"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

// Dependencies carries everything the router needs; wiring happens in main.
type Dependencies struct {
	Mongo    *mongo.Database
	Redis    *redis.Client
	Auth     ports.AuthService
	Tokens   ports.TokenService
	Vault    ports.CredentialVault
	Settings ports.SettingsService
	Trades   ports.TradeRepository

	AllowedOrigins []string
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
	}))
	e.Use(echoprometheus.NewMiddleware("aitrader"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	credsHandler := handler.NewCredentialsHandler(deps.Vault)
	settingsHandler := handler.NewSettingsHandler(deps.Settings)
	tradingHandler := handler.NewTradingHandler(deps.Settings)
	tradesHandler := handler.NewTradesHandler(deps.Trades)

	// --- Auth routes ---
	e.POST("/api/auth/google", authHandler.GoogleLogin)

	// --- Authenticated routes ---
	authMiddleware := middleware.Auth(deps.Tokens)
	apiGroup := e.Group("/api", authMiddleware)

	apiGroup.POST("/coinbase/credentials", credsHandler.Store)
	apiGroup.GET("/coinbase/credentials", credsHandler.Status)
	apiGroup.GET("/trading/settings", settingsHandler.Get)
	apiGroup.PUT("/trading/settings", settingsHandler.Update)
	apiGroup.POST("/trading/start", tradingHandler.Start)
	apiGroup.POST("/trading/stop", tradingHandler.Stop)
	apiGroup.GET("/trades/recent", tradesHandler.Recent)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
