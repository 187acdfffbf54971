// Package server contains the HTTP handlers and middleware wiring for the Warbler API.
package server

import (
	"context"
	"log/slog"
	"time"

	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/security"
	"warbler/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	cache          *cache.Cache
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Store
	userRepo       repository.UserRepository
	authService    *service.AuthService
	socialService  *service.SocialService
	messageService *service.MessageService
	userService    *service.UserService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching and rate limiting are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	c := cache.New(redisClient)
	repos := repository.NewRepositories(db, c)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("warbler-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		cache:          c,
		promMiddleware: prom,
		sessions:       newSessionStore(cfg),
		userRepo:       repos.Users,
	}
	server.authService = service.NewAuthService(repos.Users, hasher, cfg.PasswordMinLength)
	server.socialService = service.NewSocialService(repos.Users, repos.Messages, repos.Follows, repos.Likes)
	server.messageService = service.NewMessageService(repos.Messages, repos.Follows)
	server.userService = service.NewUserService(repos.Users, repos.Messages, repos.Follows, repos.Likes, hasher)

	return server, nil
}

func newSessionStore(cfg *config.Config) *session.Store {
	return session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:warbler_session",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: "Lax",
	})
}

// NewApp returns a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Warbler API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	env := s.config.Env
	app.Post("/signup", middleware.RateLimit(s.redis, env, 5, 10*time.Minute, "signup"), s.Signup)
	app.Post("/login", middleware.RateLimit(s.redis, env, 10, 5*time.Minute, "login"), s.Login)
	app.Post("/logout", s.Logout)

	app.Get("/", s.Homepage)

	users := app.Group("/users")
	users.Get("/", s.ListUsers)
	// Specific routes before the generic /:id
	users.Patch("/profile", s.AuthRequired(), s.UpdateProfile)
	users.Post("/delete", s.AuthRequired(), s.DeleteAccount)
	users.Post("/follow/:id", s.AuthRequired(), s.FollowUser)
	users.Post("/stop-following/:id", s.AuthRequired(), s.StopFollowing)
	users.Post("/add_like/:id", s.AuthRequired(), s.ToggleLike)
	users.Get("/:id/following", s.AuthRequired(), s.ShowFollowing)
	users.Get("/:id/followers", s.AuthRequired(), s.ShowFollowers)
	users.Get("/:id/likes", s.AuthRequired(), s.ShowLikes)
	users.Get("/:id", s.GetUserProfile)

	messages := app.Group("/messages")
	messages.Post("/new", s.AuthRequired(), s.CreateMessage)
	messages.Post("/:id/delete", s.AuthRequired(), s.DeleteMessage)
	messages.Get("/:id", s.GetMessage)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: a missing
// client reports "disabled" without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port. It blocks until
// the listener stops.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the HTTP server. The database and Redis handles
// belong to the caller that created them.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		return err
	}
	middleware.Logger.Info("server shutdown complete")
	return nil
}
