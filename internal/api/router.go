package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnly/course-platform/internal/api/handler"
	"github.com/learnly/course-platform/internal/api/middleware"
	"github.com/learnly/course-platform/internal/core/ports"
	"github.com/learnly/course-platform/internal/core/service"
	"github.com/learnly/course-platform/internal/infrastructure/config"
	mongodb "github.com/learnly/course-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/learnly/course-platform/internal/infrastructure/db/redis"
	"github.com/learnly/course-platform/internal/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mailer ports.Mailer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("courseplatform"))

	// --- Dependencies ---
	tokenCfg := token.Config{
		AccessSecret:     cfg.Token.AccessSecret,
		AccessExpiry:     cfg.Token.AccessExpiry(),
		RefreshSecret:    cfg.Token.RefreshSecret,
		RefreshExpiry:    cfg.Token.RefreshExpiry(),
		ActivationSecret: cfg.Token.ActivationSecret,
		ActivationExpiry: cfg.Token.ActivationExpiry(),
	}
	issuer := token.NewIssuer(tokenCfg)
	activation := token.NewActivationService(tokenCfg)

	userRepo := mongodb.NewUserRepository(db)
	courseRepo := mongodb.NewCourseRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	authService := service.NewAuthService(userRepo, sessions, issuer, activation, mailer,
		log.With().Str("component", "auth").Logger())
	courseService := service.NewCourseService(courseRepo, userRepo, sessions,
		log.With().Str("component", "courses").Logger())

	authHandler := handler.NewAuthHandler(authService, cfg.Production())
	userHandler := handler.NewUserHandler(authService)
	courseHandler := handler.NewCourseHandler(courseService)

	authGate := middleware.Auth(issuer, sessions)
	adminOnly := middleware.RequireRoles("admin")

	// --- Auth routes ---
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/activate", authHandler.Activate)
	users.POST("/login", authHandler.Login)
	users.POST("/social-auth", authHandler.SocialAuth)
	users.POST("/refresh-token", authHandler.Refresh)
	users.POST("/logout", authHandler.Logout, authGate)

	// --- Profile routes ---
	users.GET("/me", userHandler.Me, authGate)
	users.PUT("/me", userHandler.UpdateInfo, authGate)
	users.PUT("/me/password", userHandler.ChangePassword, authGate)
	users.PUT("/me/avatar", userHandler.UpdateAvatar, authGate)

	// --- Admin routes ---
	users.GET("", userHandler.List, authGate, adminOnly)
	users.PUT("/role", userHandler.UpdateRole, authGate, adminOnly)
	users.DELETE("/:id", userHandler.Delete, authGate, adminOnly)

	// --- Course routes ---
	courses := e.Group("/api/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", courseHandler.Create, authGate, adminOnly)
	courses.PUT("/:id", courseHandler.Update, authGate, adminOnly)
	courses.DELETE("/:id", courseHandler.Delete, authGate, adminOnly)

	e.POST("/api/orders", courseHandler.Purchase, authGate)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
