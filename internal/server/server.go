// Package server wires the HTTP API: routes, middleware and handlers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/brrock/ronotbroyt.xyz/docs" // swagger docs
	"github.com/brrock/ronotbroyt.xyz/internal/cache"
	"github.com/brrock/ronotbroyt.xyz/internal/config"
	"github.com/brrock/ronotbroyt.xyz/internal/database"
	"github.com/brrock/ronotbroyt.xyz/internal/featureflags"
	"github.com/brrock/ronotbroyt.xyz/internal/identity"
	"github.com/brrock/ronotbroyt.xyz/internal/middleware"
	"github.com/brrock/ronotbroyt.xyz/internal/models"
	"github.com/brrock/ronotbroyt.xyz/internal/moderation"
	"github.com/brrock/ronotbroyt.xyz/internal/repository"
	"github.com/brrock/ronotbroyt.xyz/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	verifier       identity.Verifier
	featureFlags   *featureflags.Manager
	userService    *service.UserService
	blogService    *service.BlogService
	forumService   *service.ForumService
	commentService *service.CommentService
	eventService   *service.EventService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient, identity.NewJWTVerifier(cfg.JWTSecret)), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, verifier identity.Verifier) *Server {
	c := cache.New(redisClient, cfg.CacheUserTTL, cfg.CacheListTTL)

	userRepo := repository.NewUserRepository(db, c)
	blogRepo := repository.NewBlogPostRepository(db, c)
	forumRepo := repository.NewForumPostRepository(db, c)
	commentRepo := repository.NewCommentRepository(db, c)
	eventRepo := repository.NewEventRepository(db, c)

	checker := moderation.NewChecker(
		moderation.NewClient(cfg.ModerationURL, cfg.ModerationTimeout))

	prom := middleware.InitMetrics("ronotbroyt-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		verifier:       verifier,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	server.userService = service.NewUserService(userRepo)
	server.blogService = service.NewBlogService(blogRepo, userRepo, checker)
	server.forumService = service.NewForumService(forumRepo, userRepo, checker)
	server.commentService = service.NewCommentService(commentRepo, forumRepo, blogRepo, userRepo, checker)
	server.eventService = service.NewEventService(eventRepo, userRepo)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Distributed tracing
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
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

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ronotbroyt.xyz API Metrics",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Public read routes
	blog := api.Group("/blog/posts")
	blog.Get("/", s.ListBlogPosts)
	blog.Get("/:id", s.GetBlogPost)

	forum := api.Group("/forum/posts")
	forum.Get("/", s.ListForumPosts)
	forum.Get("/:id", s.GetForumPost)

	api.Get("/comments", s.ListComments)
	api.Get("/events", s.ListEvents)
	api.Get("/features", s.GetFeatures)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protected.Get("/user", s.GetCurrentUser)

	protected.Post("/blog/posts", s.CreateBlogPost)
	protected.Delete("/blog/posts/:id", s.DeleteBlogPost)

	protected.Post("/forum/posts", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreateForumPost)
	protected.Delete("/forum/posts/:id", s.DeleteForumPost)

	protected.Post("/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	protected.Delete("/comments/:id", s.DeleteComment)

	protected.Post("/events", s.CreateEvent)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlagConfig)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is an accelerator here, not a dependency; readiness only
	// reports its state.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
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

// AuthRequired verifies the bearer token and stores the resulting claims
// in locals. The token is the identity provider's session JWT; everything
// past this middleware works with internal user ids.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.verifyRequest(c)
		if err != nil {
			return respondAppError(c, models.NewUnauthenticatedError("Invalid or missing credential"))
		}

		c.Locals("identity", claims)
		// The rate limiter, tracer and request logger key on this local.
		c.Locals("userID", claims.ExternalID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.ExternalID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired rejects non-admin users with 403. Must be placed after
// AuthRequired so the identity claims are available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.userService.CurrentUser(c.Context(), claimsFromCtx(c))
		if err != nil {
			return respondAppError(c, err)
		}
		if user.Role != models.RoleAdmin {
			return respondAppError(c, models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

func (s *Server) verifyRequest(c *fiber.Ctx) (*identity.Claims, error) {
	authHeader := c.Get("Authorization")
	tokenString := ""
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	return s.verifier.Verify(tokenString)
}

// optionalClaims extracts identity claims when a valid credential is
// present but never enforces one.
func (s *Server) optionalClaims(c *fiber.Ctx) *identity.Claims {
	claims, err := s.verifyRequest(c)
	if err != nil {
		return nil
	}
	return claims
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "ronotbroyt.xyz API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled error", "error", err, "path", c.Path())
			return respondAppError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "error", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
