package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusflow/timetable-api/api/swagger"
	"github.com/campusflow/timetable-api/internal/handler"
	"github.com/campusflow/timetable-api/internal/middleware"
	"github.com/campusflow/timetable-api/internal/models"
	"github.com/campusflow/timetable-api/internal/repository"
	"github.com/campusflow/timetable-api/internal/service"
	"github.com/campusflow/timetable-api/pkg/cache"
	"github.com/campusflow/timetable-api/pkg/config"
	"github.com/campusflow/timetable-api/pkg/database"
	"github.com/campusflow/timetable-api/pkg/jobs"
	"github.com/campusflow/timetable-api/pkg/logger"
	corsmiddleware "github.com/campusflow/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusflow/timetable-api/pkg/middleware/requestid"
)

// @title CampusFlow Timetable API
// @version 1.0.0
// @description Automatic timetable generation and conflict detection for academic institutions
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The settings service degrades to repository reads without Redis, so a
	// missing cache is not fatal.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without settings cache", "error", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	metricsSvc := service.NewMetricsService()

	settingsSvc := service.NewSettingsService(settingsRepo, redisClient, cfg.Settings.CacheTTL, logr)

	notificationSvc := service.NewNotificationService(notificationRepo, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	}, logr)
	notificationSvc.Start(context.Background())
	defer notificationSvc.Stop()

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, instructorRepo, nil, logr)
	roomSvc := service.NewRoomService(roomRepo, nil, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, nil, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, courseRepo, roomRepo, instructorRepo, settingsSvc, notificationSvc, metricsSvc, nil, logr)
	generatorSvc := service.NewGeneratorService(courseRepo, roomRepo, instructorRepo, scheduleRepo, settingsSvc, notificationSvc, metricsSvc, service.GeneratorServiceConfig{
		WorkingDayStart:   cfg.Scheduler.WorkingDayStart,
		WorkingDayEnd:     cfg.Scheduler.WorkingDayEnd,
		SlotMinutes:       cfg.Scheduler.SlotMinutes,
		MaxSubjectsPerDay: cfg.Scheduler.MaxSubjectsPerDay,
	}, nil, logr)
	exportSvc := service.NewExportService(scheduleRepo, courseRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	generatorHandler := handler.NewGeneratorHandler(generatorSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar)
	admin := middleware.RequireRoles(models.RoleAdmin)

	authed.GET("/courses", courseHandler.List)
	authed.GET("/courses/:id", courseHandler.Get)
	authed.POST("/courses", staff, courseHandler.Create)
	authed.PUT("/courses/:id", staff, courseHandler.Update)
	authed.DELETE("/courses/:id", staff, courseHandler.Delete)

	authed.GET("/rooms", roomHandler.List)
	authed.GET("/rooms/:id", roomHandler.Get)
	authed.POST("/rooms", staff, roomHandler.Create)
	authed.PUT("/rooms/:id", staff, roomHandler.Update)
	authed.DELETE("/rooms/:id", staff, roomHandler.Delete)

	authed.GET("/instructors", instructorHandler.List)
	authed.GET("/instructors/:id", instructorHandler.Get)
	authed.POST("/instructors", staff, instructorHandler.Create)
	authed.PUT("/instructors/:id", staff, instructorHandler.Update)
	authed.DELETE("/instructors/:id", staff, instructorHandler.Deactivate)

	authed.GET("/schedules", scheduleHandler.List)
	authed.GET("/schedules/:id", scheduleHandler.Get)
	authed.POST("/schedules", staff, scheduleHandler.Create)
	authed.PUT("/schedules/:id", staff, scheduleHandler.Update)
	authed.DELETE("/schedules/:id", staff, scheduleHandler.Delete)
	authed.POST("/schedules/check", staff, scheduleHandler.Check)

	authed.POST("/timetable/generate", admin, generatorHandler.Generate)
	authed.GET("/timetable/export", exportHandler.Export)

	authed.GET("/settings", settingsHandler.List)
	authed.PUT("/settings/:key", admin, settingsHandler.Update)

	authed.GET("/notifications", notificationHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
