package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/finance-tracker/finance-api/docs"
	"github.com/finance-tracker/finance-api/internal/api/handler"
	"github.com/finance-tracker/finance-api/internal/api/middleware"
	"github.com/finance-tracker/finance-api/internal/core/domain"
	"github.com/finance-tracker/finance-api/internal/core/ports"
)

// Deps lists everything the HTTP layer needs. Construction of the concrete
// services lives in internal/app.
type Deps struct {
	Log            zerolog.Logger
	AuthService    ports.AuthService
	ProfileService ports.ProfileService
	Tokens         ports.TokenVerifier
	HealthChecks   []handler.DependencyCheck
	AllowedOrigins []string

	// AuthRateLimit caps requests per second per client IP on /auth routes.
	// Zero disables it.
	AuthRateLimit float64
	AuthRateBurst int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// HTTP collectors live in a per-router registry so building more than one
	// router in a process does not register them twice; /metrics gathers it
	// together with the default registry holding the auth counters.
	httpMetrics := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "finance",
		Subsystem:                 "http",
		Registerer:                httpMetrics,
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Authenticate(deps.Tokens, deps.AuthService, deps.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	profileHandler := handler.NewProfileHandler(deps.ProfileService)
	adminHandler := handler.NewAdminHandler(deps.AuthService)

	// --- Auth routes ---
	auth := e.Group("/auth")
	if deps.AuthRateLimit > 0 {
		auth.Use(authRateLimiter(deps.AuthRateLimit, deps.AuthRateBurst))
	}
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", authHandler.Me, middleware.RequireAuthenticated())

	// --- Profile routes ---
	profile := e.Group("/profile", middleware.RequireAuthenticated())
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.RequireAuthority(domain.RoleAdmin))
	admin.GET("/users/:username", adminHandler.GetUser)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Log, deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog entry per request. The Authorization header
// is never logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var event *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				event = log.Error().Err(v.Error)
			case v.Error != nil:
				event = log.Warn().Err(v.Error)
			default:
				event = log.Info()
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

func authRateLimiter(limit float64, burst int) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		},
	})
}
