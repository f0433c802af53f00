package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/higgsterrier/Novel-Publishing-App/internal/cache"
	"github.com/higgsterrier/Novel-Publishing-App/internal/config"
	"github.com/higgsterrier/Novel-Publishing-App/internal/database"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/handler"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/middleware"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/repository"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logMode := "development"
	if cfg.IsProduction() {
		logMode = "production"
	}
	appLogger, err := logger.New(logMode)
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.ConnectDB(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("database connection failed", "error", err)
	}

	// Cache is optional: without REDIS_ADDR every read goes to Postgres.
	var novelCache cache.NovelCache
	if cfg.RedisAddr != "" {
		novelCache, err = cache.NewNovelCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			appLogger.Fatal("redis connection failed", "addr", cfg.RedisAddr, "error", err)
		}
		appLogger.Info("novel cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	novelRepo := repository.NewNovelRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	novelService := service.NewNovelService(novelRepo, genreRepo, novelCache)
	ratingService := service.NewRatingService(ratingRepo, novelRepo, userRepo, novelCache)

	expiresIn := int64(cfg.AccessTokenTTL.Seconds())
	authHandler := handler.NewAuthHandler(authService, appLogger, expiresIn)
	profileHandler := handler.NewProfileHandler(authService, ratingService, appLogger)
	novelHandler := handler.NewNovelHandler(novelService, appLogger)
	ratingHandler := handler.NewRatingHandler(ratingService, appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	requireAuth := middleware.AuthMiddleware(authService)

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api, authLimiter.Middleware())
		profileHandler.RegisterRoutes(api, requireAuth)

		api.GET("/genres", novelHandler.ListGenres)
		api.GET("/my-works", requireAuth, novelHandler.MyWorks)

		novels := api.Group("/novels")
		novelHandler.RegisterRoutes(novels, requireAuth)
		ratingHandler.RegisterRoutes(novels, requireAuth)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	appLogger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		appLogger.Fatal("server exited", "error", err)
	}
}
