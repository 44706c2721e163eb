package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/unrolled/secure"

	_ "github.com/campuspress/newsroom/docs"
	"github.com/campuspress/newsroom/internal/api/handler"
	"github.com/campuspress/newsroom/internal/api/middleware"
	"github.com/campuspress/newsroom/internal/core/ports"
	"github.com/campuspress/newsroom/internal/infrastructure/http/handlers"
	"github.com/campuspress/newsroom/internal/pkg/cache"
	"github.com/campuspress/newsroom/internal/pkg/ratelimit"
)

const (
	PrefixLogin    = "login"
	PrefixRegister = "register"
	PrefixAuth     = "auth"
)

// Limiters holds one fixed-window limiter per quota partition.
type Limiters struct {
	Login    *ratelimit.Limiter
	Register *ratelimit.Limiter
	Auth     *ratelimit.Limiter
}

// Deps is everything NewRouter needs. Registerer and Gatherer default to the
// prometheus default registry.
type Deps struct {
	Logger      zerolog.Logger
	Sessions    handler.SessionIssuer
	Resolver    middleware.SessionResolver
	AuthService ports.AuthService
	PostService ports.PostService
	CacheStats  func() cache.Stats

	Limiters Limiters
	// GlobalPerMinute is the coarse per-IP request cap across all routes.
	// Zero disables it.
	GlobalPerMinute int
	Production      bool

	ReadinessChecks map[string]handlers.Check

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echo.WrapMiddleware(securityHeaders(d.Production).Handler))
	if d.GlobalPerMinute > 0 {
		e.Use(echo.WrapMiddleware(httprate.Limit(
			d.GlobalPerMinute, time.Minute,
			httprate.WithKeyFuncs(clientKey),
			// Per-route limiters own the X-RateLimit-* headers.
			httprate.WithResponseHeaders(httprate.ResponseHeaders{}),
		)))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "newsroom",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Session(d.Resolver))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.Sessions, d.Logger)
	postHandler := handler.NewPostHandler(d.PostService)
	adminHandler := handler.NewAdminHandler(d.CacheStats)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register, middleware.RateLimit(d.Limiters.Register, PrefixRegister, d.Logger))
	auth.POST("/login", authHandler.Login, middleware.RateLimit(d.Limiters.Login, PrefixLogin, d.Logger))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, middleware.RateLimit(d.Limiters.Auth, PrefixAuth, d.Logger), middleware.RequireAuth())

	// --- Post routes ---
	posts := e.Group("/api/posts", middleware.RequireAuth())
	posts.PUT("/:id", postHandler.Update)
	posts.DELETE("/:id", postHandler.Delete)

	// --- Admin routes ---
	admin := e.Group("/api/admin", middleware.RequireAuth(), middleware.RequirePrivileged())
	admin.GET("/cache", adminHandler.CacheStats)

	// --- Health probes (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.ReadinessChecks, d.Logger).Readiness)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// clientKey keys the global throttle the same way the per-route limiters do,
// so clients behind one proxy keep separate budgets.
func clientKey(r *http.Request) (string, error) {
	return ratelimit.ClientIdentifier(r), nil
}

// securityHeaders sets frame, sniffing and CSP headers on every response and,
// in production, redirects plain HTTP to HTTPS.
func securityHeaders(production bool) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            stsSeconds(production),
	})
}

func stsSeconds(production bool) int64 {
	if production {
		return int64((365 * 24 * time.Hour).Seconds())
	}
	return 0
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
