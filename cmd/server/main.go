package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flottapool/internal/config"
	"flottapool/internal/handlers"
	"flottapool/internal/middleware"
	"flottapool/internal/repositories/mongodb"
	"flottapool/internal/services"
	"flottapool/internal/utils"
	"flottapool/pkg/cache"
	"flottapool/pkg/database"
	"flottapool/pkg/logger"
	"flottapool/pkg/storage"
	"flottapool/pkg/websocket"
	"flottapool/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     "json",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		appLogger.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIndexes()

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, continuing without cache")
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	storageProvider, err := buildStorage(cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Repositories
	var cacheService mongodb.CacheService
	if redisCache != nil {
		cacheService = redisCache
	}
	vehicleRepo := mongodb.NewVehicleRepository(db.Database, cacheService)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	logRepo := mongodb.NewLogRepository(db.Database)
	counterRepo := mongodb.NewCounterRepository(db.Database)

	// Change notifications
	wsHandler := websocket.NewHandler()

	// Services
	sequenceService := services.NewSequenceService(counterRepo, appLogger)
	logService := services.NewLogService(logRepo, vehicleRepo, storageProvider, wsHandler, appLogger)
	fleetService := services.NewFleetService(vehicleRepo, bookingRepo, sequenceService, logService, wsHandler, appLogger)
	bookingService := services.NewBookingService(bookingRepo, vehicleRepo, wsHandler, appLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg.Security, appLogger)
	fleetHandler := handlers.NewFleetHandler(fleetService, appLogger)
	bookingHandler := handlers.NewBookingHandler(bookingService, appLogger)
	logHandler := handlers.NewLogHandler(logService, appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)
		routes.SetupFleetRoutes(v1, fleetHandler, cfg.Security.JWTSecret)
		routes.SetupBookingRoutes(v1, bookingHandler, cfg.Security.JWTSecret)
		routes.SetupLogRoutes(v1, logHandler, cfg.Security.JWTSecret)
	}

	router.GET("/ws", middleware.AuthRequired(cfg.Security.JWTSecret), wsHandler.HandleWebSocket)

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"name":    utils.AppName,
			"version": utils.AppVersion,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting server on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}

func buildStorage(cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return storage.NewAWSS3Storage(cfg.Region, cfg.Bucket, cfg.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	}
}
