// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "recipebox/docs" // swagger docs
	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/notifications"
	"recipebox/internal/repository"
	"recipebox/internal/service"

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
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo    repository.UserRepository
	recipeRepo  repository.RecipeRepository
	commentRepo repository.CommentRepository
	folderRepo  repository.FolderRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub

	imageService   *service.ImageService
	recipeService  *service.RecipeService
	commentService *service.CommentService
	folderService  *service.FolderService
	userService    *service.UserService
}

// NewServer connects to the database and Redis and wires every dependency.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional: without it revocation, rate limits and cross-instance
	// fan-out are disabled.
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("config and database are required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("recipebox-api"),
		userRepo:       repository.NewUserRepository(db),
		recipeRepo:     repository.NewRecipeRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		folderRepo:     repository.NewFolderRepository(db),
		hub:            notifications.NewHub(),
		imageService:   service.NewImageService(cfg),
	}

	s.recipeService = service.NewRecipeService(s.recipeRepo, s.commentRepo, s.imageService)
	s.commentService = service.NewCommentService(s.commentRepo, s.recipeRepo, s.userRepo)
	s.folderService = service.NewFolderService(s.folderRepo, s.recipeRepo)
	s.userService = service.NewUserService(s.userRepo, redisClient)

	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	return s, nil
}

// NewApp builds the Fiber app with the API error handler.
func (s *Server) NewApp() *fiber.App {
	bodyLimit := 4 * 1024 * 1024
	if s.config.ImageMaxUploadSizeMB > 0 {
		bodyLimit = (s.config.ImageMaxUploadSizeMB + 1) * 1024 * 1024
	}

	return fiber.New(fiber.Config{
		AppName:   "RecipeBox API",
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers. Uploaded images are served from this origin.
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
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
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static(service.UploadsURLPrefix, s.imageService.UploadDir(), fiber.Static{
		MaxAge: 86400,
	})

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "RecipeBox Backend Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Users
	users := api.Group("/users")
	users.Get("/me", s.private(s.GetMyProfile)...)
	users.Get("/:id", s.GetUserProfile)

	// Recipes. Specific paths are registered before /:id.
	recipes := api.Group("/recipes")
	recipes.Get("/", s.GetRecipes)
	recipes.Get("/user/:userId", s.GetUserRecipes)
	recipes.Get("/:id/forks", s.GetRecipeForks)
	recipes.Get("/:id", s.GetRecipe)
	recipes.Post("/", s.private(
		middleware.RateLimit(s.redis, 20, 10*time.Minute, "create_recipe"), s.CreateRecipe)...)
	recipes.Post("/:id/fork", s.private(
		middleware.RateLimit(s.redis, 20, 10*time.Minute, "fork_recipe"), s.ForkRecipe)...)
	recipes.Post("/:id/image", s.private(
		middleware.RateLimit(s.redis, 10, 10*time.Minute, "recipe_image"), s.UploadRecipeImage)...)
	recipes.Put("/:id/like", s.private(s.LikeRecipe)...)
	recipes.Put("/:id/unlike", s.private(s.UnlikeRecipe)...)
	recipes.Put("/:id", s.private(s.UpdateRecipe)...)
	recipes.Delete("/:id", s.private(s.DeleteRecipe)...)

	// Comments, always addressed through their recipe.
	comments := api.Group("/comments")
	comments.Get("/:recipeId", s.GetComments)
	comments.Get("/:recipeId/:commentId", s.GetComment)
	comments.Post("/:recipeId", s.private(
		middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)...)
	comments.Put("/:recipeId/:commentId/like", s.private(s.LikeComment)...)
	comments.Put("/:recipeId/:commentId/unlike", s.private(s.UnlikeComment)...)
	comments.Put("/:recipeId/:commentId", s.private(s.UpdateComment)...)
	comments.Delete("/:recipeId/:commentId", s.private(s.DeleteComment)...)

	// Folders. /public/all is registered before /:id.
	folders := api.Group("/folders")
	folders.Get("/public/all", s.GetPublicFolders)
	folders.Get("/", s.private(s.GetMyFolders)...)
	folders.Post("/", s.private(s.CreateFolder)...)
	folders.Get("/:id", s.private(s.GetFolder)...)
	folders.Put("/:id/recipes/:recipeId", s.private(s.AddRecipeToFolder)...)
	folders.Delete("/:id/recipes/:recipeId", s.private(s.RemoveRecipeFromFolder)...)
	folders.Put("/:id", s.private(s.UpdateFolder)...)
	folders.Delete("/:id", s.private(s.DeleteFolder)...)

	// Activity feed
	api.Get("/ws", middleware.WebSocketAuthRequired(s.config, s.redis), s.WebsocketHandler())
}

// private prefixes handlers with authentication and the user sync.
func (s *Server) private(handlers ...fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{middleware.AuthRequired(s.config, s.redis), s.SyncUser()}, handlers...)
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
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis degrades features but does not make the API unready.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"connections": s.hub.ConnectionCount(),
		"time":        time.Now(),
	})
}

// Start builds the app, wires the activity hub and listens on the configured port.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.NewApp()
	s.app = app
	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start activity hub wiring", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down activity hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
