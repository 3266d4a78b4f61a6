package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cloudscope/console-api/internal/api/handler"
	"github.com/cloudscope/console-api/internal/api/middleware"
	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
	"github.com/cloudscope/console-api/internal/core/service"
)

// RouterDeps carries the wired services the router mounts. Mongo and Redis
// are nil under the memory backend; the readiness probe then has nothing to
// ping.
type RouterDeps struct {
	Auth       ports.AuthService
	Manager    *service.AuthManager
	Accounts   ports.AccountService
	Reports    ports.ReportService
	Scope      domain.SessionScope
	SessionTTL time.Duration
	Mongo      *mongo.Database
	Redis      *redis.Client
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))
	e.Use(middleware.Session(deps.Auth))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Manager, deps.Auth, deps.Scope, deps.SessionTTL)
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	reportHandler := handler.NewReportHandler(deps.Reports)
	viewHandler := handler.NewViewHandler(deps.Accounts, deps.Reports)

	// --- Ops endpoints (bypass the guard) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)         // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Page routes (guard-protected views) ---
	pages := e.Group("", middleware.Guard(func() bool {
		return deps.Manager.Snapshot().IsInitialized
	}))
	pages.GET("/", viewHandler.Root)
	pages.GET("/login", viewHandler.Login)
	pages.GET("/signup", viewHandler.Signup)
	pages.GET("/dashboard", viewHandler.Dashboard)
	pages.GET("/accounts", viewHandler.Accounts)
	pages.GET("/reports", viewHandler.Reports)
	pages.GET("/user-onboard", viewHandler.UserOnboard)
	pages.GET("/my-account", viewHandler.MyAccount)

	// --- Auth API ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)

	// --- Account API (session required, 401 instead of redirect) ---
	accounts := e.Group("/api/accounts", middleware.RequireSession())
	accounts.GET("", accountHandler.List)
	accounts.POST("", accountHandler.Create)
	accounts.GET("/:id", accountHandler.Get)
	accounts.PUT("/:id", accountHandler.Update)
	accounts.DELETE("/:id", accountHandler.Delete)

	// --- Report API ---
	reports := e.Group("/api/reports", middleware.RequireSession())
	reports.GET("", reportHandler.List)
	reports.POST("", reportHandler.Request)
	reports.GET("/:id", reportHandler.Get)

	return e
}
