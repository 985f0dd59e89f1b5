// Package server contains the HTTP handlers and wiring for the API.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"heartline/internal/cache"
	"heartline/internal/config"
	"heartline/internal/database"
	"heartline/internal/middleware"
	"heartline/internal/models"
	"heartline/internal/repository"
	"heartline/internal/service"
	"heartline/internal/storage"
	"heartline/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	tokens         *token.Service
	adminService   *service.AdminService
	likeService    *service.LikeService
	accountService *service.AccountService
	messageService *service.MessageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	assets, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("asset store init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.GetClient(), assets)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use it with an in-memory database and a nil Redis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, assets storage.AssetStore) (*Server, error) {
	tokens, err := token.NewService(cfg.TokenKey, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("token service init failed: %w", err)
	}
	if len(cfg.TokenKey) < token.MinKeyLength {
		middleware.Logger.Warn("token key is shorter than recommended",
			"length", len(cfg.TokenKey), "min", token.MinKeyLength)
	}
	if assets == nil {
		assets = storage.NoopStore{}
	}

	uow := repository.NewUnitOfWorkFactory(db)
	roles := repository.NewRoleRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("heartline-api"),
		tokens:         tokens,
		adminService:   service.NewAdminService(uow, roles, assets, cfg.AssetDeleteTimeout),
		likeService:    service.NewLikeService(uow),
		accountService: service.NewAccountService(uow, roles, tokens),
		messageService: service.NewMessageService(uow),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:4200,https://localhost:4200"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    PaginationHeader + ", " + middleware.TraceHeader,
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	account := api.Group("/account")
	account.Post("/register", s.Register)
	account.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	protected := api.Group("", s.AuthRequired())

	admin := protected.Group("/admin")
	admin.Get("/users-with-roles", s.RoleRequired(models.RoleAdmin), s.GetUsersWithRoles)
	admin.Post("/edit-roles/:username", s.RoleRequired(models.RoleAdmin), s.EditRoles)
	admin.Get("/photos-to-moderate",
		s.RoleRequired(models.RoleAdmin, models.RoleModerator), s.GetPhotosForModeration)
	admin.Post("/approve-photo/:photoId",
		s.RoleRequired(models.RoleAdmin, models.RoleModerator), s.ApprovePhoto)
	admin.Post("/reject-photo/:photoId",
		s.RoleRequired(models.RoleAdmin, models.RoleModerator), s.RejectPhoto)

	likes := protected.Group("/likes")
	// Specific /list route before generic /:targetUserId
	likes.Get("/list", s.GetCurrentUserLikeIDs)
	likes.Get("/", s.GetUserLikes)
	likes.Post("/:targetUserId", middleware.RateLimit(
		s.redis, 30, time.Minute, "toggle_like"), s.ToggleLike)

	messages := protected.Group("/messages")
	messages.Post("/", middleware.RateLimit(
		s.redis, 20, time.Minute, "send_message"), s.CreateMessage)
	messages.Get("/thread/:username", s.GetMessageThread)
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
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Rate limiting depends on Redis, so readiness requires it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
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

// AuthRequired returns the authentication middleware. It accepts a bearer
// token and stores the caller's id, username and roles in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.tokens.ParseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		userID, err := claims.UserID()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", userID)
		c.Locals("username", claims.NameID)
		c.Locals("roles", claims.Roles)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))

		return c.Next()
	}
}

// RoleRequired returns middleware that rejects callers holding none of roles
// with 403. Must be placed after AuthRequired.
func (s *Server) RoleRequired(roles ...string) fiber.Handler {
	policy := strings.Join(roles, " or ")
	return func(c *fiber.Ctx) error {
		granted, _ := c.Locals("roles").([]string)
		for _, have := range granted {
			for _, want := range roles {
				if have == want {
					return c.Next()
				}
			}
		}
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError(policy+" role required"))
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Heartline API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
