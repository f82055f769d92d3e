package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"smartMarket/app/echo-server/router"
	"smartMarket/business/behavior"
	"smartMarket/business/category"
	"smartMarket/business/product"
	"smartMarket/business/recommend"
	userService "smartMarket/business/user"
	"smartMarket/domain"
	"smartMarket/internal/middleware"
	"smartMarket/internal/repository/gemini"
	psqlRepo "smartMarket/internal/repository/postgres"
	redisRepo "smartMarket/internal/repository/redis"
	"smartMarket/internal/rest"
	"smartMarket/pkg/config"
	"smartMarket/pkg/database"
	redisdb "smartMarket/pkg/database/redis"
	"smartMarket/pkg/logger"
	"smartMarket/pkg/metrics"
	"smartMarket/pkg/utils"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting SmartMarket", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Category{},
		&domain.BehaviorEvent{},
	); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close Redis client", err)
		}
	}()

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	behaviorRepo := psqlRepo.NewBehaviorRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	recoCache := redisRepo.NewRecommendationCache(redisClient, time.Duration(cfg.Engine.CacheTTLSeconds)*time.Second)

	var parser recommend.Parser
	var explainer recommend.Explainer
	if cfg.Gemini.APIKey != "" {
		geminiRepo := gemini.NewGeminiRepository(gemini.GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
		})
		parser = geminiRepo
		explainer = geminiRepo
	} else {
		logger.Warn("Gemini API key not set, free-text parsing disabled")
	}

	// Init service
	userService := userService.NewUserService(userRepo, tokenRepo, validate)
	productService := product.NewProductService(productsRepo)
	categoryService := category.NewCategoryService(categoryRepo)
	behaviorService := behavior.NewBehaviorService(behaviorRepo, validate, recoCache)

	engineCfg := recommend.DefaultConfig()
	engineCfg.DefaultTopN = cfg.Engine.DefaultTopN
	engine := recommend.NewEngine(engineCfg)
	recoService := recommend.NewService(engine, productsRepo, behaviorService, parser, explainer, recoCache)

	// Init handler
	userHandler := rest.NewUserHandler(userService)
	productHandler := rest.NewProductHandler(productService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	behaviorHandler := rest.NewBehaviorHandler(behaviorService)
	recoHandler := rest.NewRecommendationHandler(recoService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(tokenRepo)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired, adminOnly)
	router.SetupBehaviorRoutes(api, behaviorHandler, authRequired)
	router.SetupRecommendationRoutes(api, recoHandler, authRequired)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
