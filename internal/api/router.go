package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/atelier/storefront/internal/api/handler"
	"github.com/atelier/storefront/internal/api/middleware"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the outside.
type Dependencies struct {
	Log      zerolog.Logger
	Sessions *session.Manager
	Users    ports.UserRepository
	Auditor  ports.SecurityAuditor

	AuthService      ports.AuthService
	ArtworkService   ports.ArtworkService
	AccountService   ports.AccountService
	OrderService     ports.OrderService
	UserService      ports.UserService
	DashboardService ports.DashboardService

	HealthChecks map[string]handler.DependencyCheck

	LoginRatePerMinute float64
	LoginBurst         int

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// infraPrefixes are served without a session.
var infraPrefixes = []string{"/health", "/metrics", "/swagger"}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: d.Registerer,
		Skipper:    isInfraRequest,
	}))
	e.Use(withSession(middleware.LoadSession(d.Sessions, d.Log)))

	// --- Dependencies ---
	audit := middleware.NewAudit(d.Log, d.Auditor)
	pages := handler.NewPages(d.Sessions)
	throttle := middleware.NewLoginThrottle(d.LoginRatePerMinute, d.LoginBurst, audit)

	authHandler := handler.NewAuthHandler(d.AuthService, d.Sessions, pages, audit)
	galleryHandler := handler.NewGalleryHandler(d.ArtworkService, pages)
	accountHandler := handler.NewAccountHandler(d.AccountService, d.OrderService, pages)
	adminUserHandler := handler.NewAdminUserHandler(d.UserService, pages)
	adminArtworkHandler := handler.NewAdminArtworkHandler(d.ArtworkService, pages)
	adminOrderHandler := handler.NewAdminOrderHandler(d.OrderService, pages)
	adminDashboardHandler := handler.NewAdminDashboardHandler(d.DashboardService, pages)

	resolveUser := middleware.ResolveUser(d.Users)
	csrf := middleware.VerifyCSRF(audit)
	authGate := middleware.AuthGate(d.Sessions, d.Users, audit)
	gated := func(role domain.Role) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{
			authGate,
			middleware.BanGate(d.Sessions, audit),
			middleware.RoleEnforcer(d.Sessions, audit, role),
			csrf,
		}
	}

	// --- Public pages ---
	e.GET("/", galleryHandler.Home, resolveUser)
	e.GET("/gallery", galleryHandler.Index, resolveUser)
	e.GET("/gallery/:slug", galleryHandler.Show, resolveUser)

	// --- Auth routes ---
	e.GET("/csrf-token", authHandler.CSRFToken)
	e.GET("/login", authHandler.ShowLogin, resolveUser)
	e.POST("/login", authHandler.Login, throttle.Middleware(), csrf)
	e.GET("/register", authHandler.ShowRegister, resolveUser)
	e.POST("/register", authHandler.Register, csrf)
	e.POST("/logout", authHandler.Logout, authGate, csrf)

	// --- Customer area ---
	customerChain := gated(domain.RoleCustomer)
	e.GET("/dashboard", accountHandler.Dashboard, customerChain...)

	account := e.Group("/account", customerChain...)
	account.GET("/favorites", accountHandler.Favorites)
	account.POST("/favorites", accountHandler.AddFavorite)
	account.DELETE("/favorites/:slug", accountHandler.RemoveFavorite)
	account.GET("/recent-views", accountHandler.RecentViews)
	account.GET("/orders", accountHandler.Orders)
	account.POST("/orders", accountHandler.PlaceOrder)
	account.GET("/orders/:number", accountHandler.Order)

	// --- Admin back-office ---
	admin := e.Group("/admin", gated(domain.RoleAdmin)...)
	admin.GET("", adminDashboardHandler.Dashboard)
	admin.GET("/security-events", adminDashboardHandler.SecurityEvents)

	admin.GET("/users", adminUserHandler.Index)
	admin.GET("/users/:id", adminUserHandler.Show)
	admin.PUT("/users/:id/role", adminUserHandler.AssignRole)
	admin.POST("/users/:id/ban", adminUserHandler.Ban)
	admin.DELETE("/users/:id/ban", adminUserHandler.Unban)

	admin.GET("/artworks", adminArtworkHandler.Index)
	admin.POST("/artworks", adminArtworkHandler.Create)
	admin.GET("/artworks/:id", adminArtworkHandler.Show)
	admin.PUT("/artworks/:id", adminArtworkHandler.Update)
	admin.DELETE("/artworks/:id", adminArtworkHandler.Delete)
	admin.POST("/artworks/:id/publish", adminArtworkHandler.Publish)
	admin.DELETE("/artworks/:id/publish", adminArtworkHandler.Unpublish)

	admin.GET("/orders", adminOrderHandler.Index)
	admin.GET("/orders/:number", adminOrderHandler.Show)
	admin.PUT("/orders/:number/status", adminOrderHandler.UpdateStatus)

	// --- Health probes, metrics and docs (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func isInfraRequest(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range infraPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// withSession skips session loading for probes, metrics and docs.
func withSession(load echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		loaded := load(next)
		return func(c echo.Context) error {
			if isInfraRequest(c) {
				return next(c)
			}
			return loaded(c)
		}
	}
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper:      isInfraRequest,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			entry := log.Info()
			if v.Status >= 500 {
				entry = log.Error().Err(v.Error)
			}
			entry.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
