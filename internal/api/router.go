package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skladhub/warehousing-system/internal/api/handler"
	"github.com/skladhub/warehousing-system/internal/api/middleware"
	"github.com/skladhub/warehousing-system/internal/core/domain"
	"github.com/skladhub/warehousing-system/internal/core/ports"
	"github.com/skladhub/warehousing-system/internal/core/service"
	"github.com/skladhub/warehousing-system/internal/infrastructure/config"
	mongorepo "github.com/skladhub/warehousing-system/internal/infrastructure/db/mongo"
	redisrepo "github.com/skladhub/warehousing-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, sink ports.EventSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("warehousing"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	productRepo := mongorepo.NewProductRepository(db)
	storageRepo := mongorepo.NewStorageRepository(db, userRepo, productRepo)
	requestRepo := mongorepo.NewRequestRepository(db, userRepo, productRepo, storageRepo)
	sessionStore := redisrepo.NewSessionStore(rdb, cfg.TokenTTL)

	// --- Services ---
	authService := service.NewAuthService(userRepo, sessionStore, cfg.JWTSecret, cfg.TokenTTL, log)
	requestService := service.NewRequestService(requestRepo, productRepo, log)
	storageService := service.NewStorageService(storageRepo, productRepo, sink, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	productHandler := handler.NewProductHandler(productRepo)
	requestHandler := handler.NewRequestHandler(requestService)
	storageHandler := handler.NewStorageHandler(storageService)

	auth := middleware.Auth(authService)
	anyRole := middleware.RBAC(domain.RoleClient, domain.RoleManager)
	clientOnly := middleware.RBAC(domain.RoleClient)
	managerOnly := middleware.RBAC(domain.RoleManager)

	// --- Auth routes ---
	e.POST("/auth/register/", authHandler.Register)
	e.POST("/users/login/", authHandler.Login)
	e.GET("/users/me/", userHandler.Me, auth)
	e.POST("/users/logout/", userHandler.Logout, auth)

	// --- Catalog ---
	e.GET("/products/", productHandler.List, auth, anyRole)

	// --- Requests ---
	e.GET("/requests/", requestHandler.List, auth, anyRole)
	e.POST("/requests/", requestHandler.Create, auth, clientOnly)
	e.PATCH("/requests/:id/", requestHandler.Patch, auth, managerOnly)

	// --- Storage ---
	e.GET("/storage/", storageHandler.List, auth, anyRole)
	e.POST("/storage/", storageHandler.Create, auth, managerOnly)
	e.PATCH("/storage/:id/", storageHandler.Patch, auth, managerOnly)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
