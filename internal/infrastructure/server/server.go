package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmhodges/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/brooklinpub/admin-api/internal/adapters/http"
	"github.com/brooklinpub/admin-api/internal/adapters/repository"
	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/infrastructure/config"
	"github.com/brooklinpub/admin-api/internal/infrastructure/database"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/infrastructure/mailer"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	todoRepo := repository.NewTodoRepository(db.DB)
	categoryRepo := repository.NewCategoryRepository(db.DB)
	itemRepo := repository.NewMenuItemRepository(db.DB)
	specialRepo := repository.NewSpecialRepository(db.DB)
	eventRepo := repository.NewEventRepository(db.DB)
	hoursRepo := repository.NewHoursRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)

	// Initialize services
	mail := mailer.NewLogMailer(appLogger)
	authService := services.NewAuthService(userRepo, sessionRepo, mail, cfg.Auth, appLogger)
	userService := services.NewUserService(userRepo, appLogger)
	todoService := services.NewTodoService(todoRepo, clock.New(), cfg.Business.Location(), appLogger)
	menuService := services.NewMenuService(categoryRepo, itemRepo, appLogger)
	eventsService := services.NewEventsService(specialRepo, eventRepo, hoursRepo, appLogger)
	dashboardService := services.NewDashboardService(todoService, menuService, eventsService, userRepo, appLogger)

	// Initialize handlers
	authHandler := httpHandlers.NewAuthHandler(authService, cfg.Auth, appLogger)
	userHandler := httpHandlers.NewUserHandler(userService, appLogger)
	todoHandler := httpHandlers.NewTodoHandler(todoService, appLogger)
	menuHandler := httpHandlers.NewMenuHandler(menuService, appLogger)
	eventsHandler := httpHandlers.NewEventsHandler(eventsService, appLogger)
	dashboardHandler := httpHandlers.NewDashboardHandler(dashboardService, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, userHandler, todoHandler, menuHandler, eventsHandler, dashboardHandler, authService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// Credentialed CORS: the dashboard sends the session cookie, so origins
	// must be listed explicitly in production.
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
		AllowCredentials: true,
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, httpHandlers.ErrorResponse{Message: "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, httpHandlers.ErrorResponse{Message: "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(authHandler *httpHandlers.AuthHandler, userHandler *httpHandlers.UserHandler, todoHandler *httpHandlers.TodoHandler, menuHandler *httpHandlers.MenuHandler, eventsHandler *httpHandlers.EventsHandler, dashboardHandler *httpHandlers.DashboardHandler, authService *services.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Auth routes (public)
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/verify-email", authHandler.VerifyEmail)

	// Auth routes (authenticated)
	authGroup.GET("/me", authHandler.Me, s.sessionMiddleware(authService))
	authGroup.PATCH("/profile", authHandler.UpdateProfile, s.sessionMiddleware(authService))
	authGroup.POST("/change-password", authHandler.ChangePassword, s.sessionMiddleware(authService))
	authGroup.POST("/request-verification", authHandler.RequestVerification, s.sessionMiddleware(authService))

	// Todo routes (authenticated)
	todoGroup := v1.Group("/todos", s.sessionMiddleware(authService))
	todoGroup.GET("", todoHandler.List)
	todoGroup.POST("", todoHandler.Create)
	todoGroup.GET("/stats", todoHandler.Stats)
	todoGroup.PATCH("/:id", todoHandler.Update)
	todoGroup.PATCH("/:id/toggle-complete", todoHandler.ToggleComplete)
	todoGroup.DELETE("/:id", todoHandler.Delete)

	// Menu routes (authenticated)
	menuGroup := v1.Group("/menu", s.sessionMiddleware(authService))
	menuGroup.GET("/primary-categories", menuHandler.ListCategories)
	menuGroup.POST("/primary-categories", menuHandler.CreateCategory, s.requireRole("admin", "manager"))
	menuGroup.PATCH("/primary-categories/:id", menuHandler.UpdateCategory, s.requireRole("admin", "manager"))
	menuGroup.DELETE("/primary-categories/:id", menuHandler.DeleteCategory, s.requireRole("admin", "manager"))
	menuGroup.PATCH("/primary-categories/:id/reorder", menuHandler.ReorderCategory, s.requireRole("admin", "manager"))
	menuGroup.GET("/items", menuHandler.ListItems)
	menuGroup.POST("/items", menuHandler.CreateItem, s.requireRole("admin", "manager"))
	menuGroup.PATCH("/items/:id", menuHandler.UpdateItem, s.requireRole("admin", "manager"))
	menuGroup.DELETE("/items/:id", menuHandler.DeleteItem, s.requireRole("admin", "manager"))

	// Specials routes (authenticated)
	specialsGroup := v1.Group("/specials", s.sessionMiddleware(authService))
	specialsGroup.GET("", eventsHandler.ListSpecials)
	specialsGroup.POST("", eventsHandler.CreateSpecial, s.requireRole("admin", "manager"))
	specialsGroup.PATCH("/:id", eventsHandler.UpdateSpecial, s.requireRole("admin", "manager"))
	specialsGroup.DELETE("/:id", eventsHandler.DeleteSpecial, s.requireRole("admin", "manager"))

	// Events routes (authenticated)
	eventsGroup := v1.Group("/events", s.sessionMiddleware(authService))
	eventsGroup.GET("", eventsHandler.ListEvents)
	eventsGroup.POST("", eventsHandler.CreateEvent, s.requireRole("admin", "manager"))
	eventsGroup.PATCH("/:id", eventsHandler.UpdateEvent, s.requireRole("admin", "manager"))
	eventsGroup.DELETE("/:id", eventsHandler.DeleteEvent, s.requireRole("admin", "manager"))

	// Opening hours (authenticated)
	hoursGroup := v1.Group("/opening-hours", s.sessionMiddleware(authService))
	hoursGroup.GET("", eventsHandler.ListOpeningHours)
	hoursGroup.PUT("", eventsHandler.SaveOpeningHours, s.requireRole("admin", "manager"))

	// Dashboard summary (authenticated)
	v1.GET("/dashboard/summary", dashboardHandler.Summary, s.sessionMiddleware(authService))

	// User management (admin only)
	userGroup := v1.Group("/users", s.sessionMiddleware(authService), s.requireRole("admin"))
	userGroup.GET("", userHandler.ListUsers)
	userGroup.POST("", userHandler.CreateUser)
	userGroup.GET("/:id", userHandler.GetUser)
	userGroup.PATCH("/:id", userHandler.UpdateUser)
	userGroup.DELETE("/:id", userHandler.DeleteUser)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}
