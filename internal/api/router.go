package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/moderncrm/crm-api/docs"
	"github.com/moderncrm/crm-api/internal/api/handler"
	"github.com/moderncrm/crm-api/internal/api/middleware"
	"github.com/moderncrm/crm-api/internal/core/ports"
	"github.com/moderncrm/crm-api/internal/infrastructure/http/handlers"
	"github.com/moderncrm/crm-api/internal/pkg/metrics"
)

// Deps is everything the HTTP layer needs. Mongo and Redis are optional and
// only feed the readiness probe.
type Deps struct {
	Auth      ports.AuthService
	Customers ports.CustomerService
	Deals     ports.DealService
	Tasks     ports.TaskService
	Dashboard ports.DashboardService
	Tokens    ports.TokenVerifier

	RateLimitStore  ports.RateLimitStore
	RateLimitMax    int
	RateLimitWindow time.Duration

	Mongo *mongo.Database
	Redis redis.UniversalClient

	FrontendURL string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	// trust X-Forwarded-For only from loopback and private proxies
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(metrics.HTTPMiddleware())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit("10M"))

	// --- Operational endpoints ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth, not rate limited) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
	e.GET("/api/health", healthHandler.Liveness)
	e.GET("/api/health/ready", healthDepsHandler.Readiness)

	// --- API ---
	api := e.Group("/api", middleware.RateLimit(middleware.RateLimitConfig{
		Store:  deps.RateLimitStore,
		Limit:  deps.RateLimitMax,
		Window: deps.RateLimitWindow,
		Logger: deps.Logger,
	}))
	auth := middleware.Auth(deps.Tokens)

	authHandler := handler.NewAuthHandler(deps.Auth)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/profile", authHandler.Profile, auth)

	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)
	api.GET("/dashboard/stats", dashboardHandler.Stats, auth)
	api.GET("/dashboard/recent-deals", dashboardHandler.RecentDeals, auth)
	api.GET("/analytics", dashboardHandler.Analytics, auth)

	customerHandler := handler.NewCustomerHandler(deps.Customers)
	api.GET("/customers", customerHandler.List, auth)
	api.POST("/customers", customerHandler.Create, auth)

	dealHandler := handler.NewDealHandler(deps.Deals)
	api.GET("/deals", dealHandler.List, auth)
	api.POST("/deals", dealHandler.Create, auth)

	taskHandler := handler.NewTaskHandler(deps.Tasks)
	api.GET("/tasks", taskHandler.List, auth)
	api.POST("/tasks", taskHandler.Create, auth)

	return e
}
