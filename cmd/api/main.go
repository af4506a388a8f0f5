package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sreyaslbs/todayinclass/api/swagger"
	"github.com/sreyaslbs/todayinclass/internal/handler"
	"github.com/sreyaslbs/todayinclass/internal/middleware"
	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/internal/registry"
	"github.com/sreyaslbs/todayinclass/internal/repository"
	"github.com/sreyaslbs/todayinclass/internal/service"
	"github.com/sreyaslbs/todayinclass/pkg/cache"
	"github.com/sreyaslbs/todayinclass/pkg/config"
	"github.com/sreyaslbs/todayinclass/pkg/database"
	"github.com/sreyaslbs/todayinclass/pkg/logger"
	corsmiddleware "github.com/sreyaslbs/todayinclass/pkg/middleware/cors"
	reqidmiddleware "github.com/sreyaslbs/todayinclass/pkg/middleware/requestid"
)

// @title TodayInClass API
// @version 1.0.0
// @description Daily classroom updates for teachers, parents and admins
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	updateRepo := repository.NewUpdateRepository(db)

	classRegistry := registry.NewClassRegistry()
	updateRegistry := registry.NewUpdateRegistry()
	hub := registry.NewHub(classRegistry, updateRegistry, classRepo, updateRepo, redisClient, cfg.Registry, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logr.Error("registry hub stopped", zap.Error(err))
		}
	}()

	validate := validator.New()
	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "todayinclass",
	})
	classService := service.NewClassService(classRepo, classRegistry, userRepo, userRepo, hub, validate, logr)
	updateService := service.NewUpdateService(updateRepo, classRegistry, updateRegistry, userRepo, hub, validate, logr)
	reportService := service.NewReportService(classRegistry, updateRegistry, redisClient, cfg.Digest, logr)

	authHandler := handler.NewAuthHandler(authService, reportService)
	classHandler := handler.NewClassHandler(classService)
	updateHandler := handler.NewUpdateHandler(updateService)
	reportHandler := handler.NewReportHandler(reportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authService), authHandler.Me)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	authed.GET("/capabilities", reportHandler.Capabilities)

	classes := authed.Group("/classes")
	classes.GET("", classHandler.List)
	classes.GET("/:id", classHandler.Get)
	classes.POST("", middleware.RequireRoles(models.RoleAdmin), classHandler.Create)
	classes.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), classHandler.Update)
	classes.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), classHandler.Delete)

	// Update routes stay role-middleware free: a stored parent may act
	// as a teacher through a class roster, so the service decides
	// against the live class snapshot.
	updates := authed.Group("/updates")
	updates.POST("", updateHandler.Save)
	updates.DELETE("/:id", updateHandler.Delete)
	updates.GET("/periods", updateHandler.AllowedPeriods)
	updates.GET("/slot", updateHandler.SlotState)
	updates.GET("/feed", updateHandler.Feed)

	reports := authed.Group("/reports")
	reports.GET("/classes/:id/day", reportHandler.Day)
	reports.GET("/classes/:id/week", reportHandler.Week)
	reports.GET("/classes/:id/share", reportHandler.Share)
	reports.GET("/classes/:id/export", middleware.Audit(userRepo, "REPORT_EXPORT", "report"), reportHandler.Export)
	reports.GET("/window", reportHandler.Shift)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
