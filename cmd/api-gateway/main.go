package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Ninjax26/Classroom-scheduler/api/swagger"
	"github.com/Ninjax26/Classroom-scheduler/internal/handler"
	"github.com/Ninjax26/Classroom-scheduler/internal/middleware"
	"github.com/Ninjax26/Classroom-scheduler/internal/repository"
	"github.com/Ninjax26/Classroom-scheduler/internal/service"
	"github.com/Ninjax26/Classroom-scheduler/internal/solver"
	"github.com/Ninjax26/Classroom-scheduler/pkg/cache"
	"github.com/Ninjax26/Classroom-scheduler/pkg/config"
	"github.com/Ninjax26/Classroom-scheduler/pkg/database"
	"github.com/Ninjax26/Classroom-scheduler/pkg/logger"
	corsmiddleware "github.com/Ninjax26/Classroom-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/Ninjax26/Classroom-scheduler/pkg/middleware/requestid"
)

// @title Classroom Scheduler API
// @version 1.0.0
// @description Roster management and solver-backed timetable generation
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional: snapshots survive restarts when it is up, but the
	// service runs fine without it.
	var cacheRepo *repository.CacheRepository
	if redisClient, redisErr := cache.NewRedis(cfg.Redis); redisErr != nil {
		logr.Warn("redis unavailable, snapshot cache disabled", zap.Error(redisErr))
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	roomRepo := repository.NewRoomRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	batchRepo := repository.NewBatchRepository(db)

	solverClient := solver.New(cfg.Solver, logr)

	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	batchSvc := service.NewBatchService(batchRepo, subjectRepo, validate, logr)
	timetableSvc := service.NewTimetableService(
		roomRepo, facultyRepo, subjectRepo, batchRepo,
		solverClient, cacheRepo, metricsSvc,
		cfg.Timetable, validate, logr,
	)

	roomHandler := handler.NewRoomHandler(roomSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	batchHandler := handler.NewBatchHandler(batchSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		rooms := api.Group("/rooms")
		rooms.GET("", roomHandler.List)
		rooms.POST("", roomHandler.Create)
		rooms.GET("/:id", roomHandler.Get)
		rooms.PUT("/:id", roomHandler.Update)
		rooms.DELETE("/:id", roomHandler.Delete)

		faculty := api.Group("/faculty")
		faculty.GET("", facultyHandler.List)
		faculty.POST("", facultyHandler.Create)
		faculty.GET("/:id", facultyHandler.Get)
		faculty.PUT("/:id", facultyHandler.Update)
		faculty.DELETE("/:id", facultyHandler.Delete)

		subjects := api.Group("/subjects")
		subjects.GET("", subjectHandler.List)
		subjects.POST("", subjectHandler.Create)
		subjects.GET("/:id", subjectHandler.Get)
		subjects.PUT("/:id", subjectHandler.Update)
		subjects.DELETE("/:id", subjectHandler.Delete)

		batches := api.Group("/batches")
		batches.GET("", batchHandler.List)
		batches.POST("", batchHandler.Create)
		batches.GET("/:id", batchHandler.Get)
		batches.PUT("/:id", batchHandler.Update)
		batches.DELETE("/:id", batchHandler.Delete)

		timetable := api.Group("/timetable")
		timetable.GET("", timetableHandler.Latest)
		timetable.POST("/generate", timetableHandler.Generate)
		timetable.GET("/export", timetableHandler.Export)
		timetable.GET("/solver/health", timetableHandler.SolverHealth)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "solver", cfg.Solver.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
