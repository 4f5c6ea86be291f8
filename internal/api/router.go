package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eduport/portfolio-api/internal/api/handler"
	"github.com/eduport/portfolio-api/internal/api/middleware"
	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
	"github.com/eduport/portfolio-api/internal/core/service"
	mongodb "github.com/eduport/portfolio-api/internal/infrastructure/db/mongo"
	"github.com/eduport/portfolio-api/internal/infrastructure/db/redis"
	"github.com/eduport/portfolio-api/internal/infrastructure/oauth"
	"github.com/eduport/portfolio-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *goredis.Client,
	files *storage.Local,
	google *oauth.GoogleProvider,
	tokens ports.TokenService,
	maxUploadMB int,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portfolio"))
	if maxUploadMB > 0 {
		e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dM", maxUploadMB)))
	}

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)

	var cache ports.CommunityCache
	if rdb != nil {
		cache = redis.NewCommunityCache(rdb, log)
	}

	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, projectRepo)
	projectService := service.NewProjectService(projectRepo, userRepo, files, cache, log)

	authHandler := handler.NewAuthHandler(authService, google)
	userHandler := handler.NewUserHandler(userService, files)
	projectHandler := handler.NewProjectHandler(projectService, files)

	authRequired := middleware.Auth(tokens)
	teacherOnly := middleware.RequireRole("only teachers can perform this action", domain.RoleTeacher)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/auth/google", authHandler.GoogleStart)
	e.GET("/auth/google/callback", authHandler.GoogleCallback)

	// --- User routes ---
	users := e.Group("/api/users", authRequired)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateProfile)
	users.POST("/update-profile", userHandler.UpdateProfile) // legacy mount
	e.GET("/api/students/:userId/profile", userHandler.StudentProfile, authRequired, teacherOnly)

	// --- Project routes ---
	projects := e.Group("/api/projects", authRequired)
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.ListOwn)
	projects.GET("/community", projectHandler.ListCommunity)
	projects.GET("/all", projectHandler.ListCommunity) // legacy mount
	projects.GET("/:id", projectHandler.Get)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.PUT("/:id/upvote", projectHandler.Upvote)
	projects.POST("/:id/upvote", projectHandler.Upvote)
	projects.PUT("/:id/downvote", projectHandler.Downvote)
	projects.POST("/:id/downvote", projectHandler.Downvote)
	projects.POST("/:id/comments", projectHandler.AddComment, teacherOnly)
	projects.POST("/:id/comment", projectHandler.AddComment, teacherOnly) // legacy mount
	projects.DELETE("/:id/comments/:commentId", projectHandler.DeleteComment)
	projects.DELETE("/:id/comment/:commentId", projectHandler.DeleteComment) // legacy mount

	// --- Uploaded files ---
	if files != nil {
		e.Static(storage.URLPrefix, files.Dir())
	}

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
