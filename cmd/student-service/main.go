package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schooldesk/school-services/api/swagger/studentsvc"
	"github.com/schooldesk/school-services/internal/handler"
	"github.com/schooldesk/school-services/internal/middleware"
	"github.com/schooldesk/school-services/internal/repository"
	"github.com/schooldesk/school-services/internal/service"
	"github.com/schooldesk/school-services/pkg/config"
	"github.com/schooldesk/school-services/pkg/database"
	"github.com/schooldesk/school-services/pkg/logger"
	corsmiddleware "github.com/schooldesk/school-services/pkg/middleware/cors"
	reqidmiddleware "github.com/schooldesk/school-services/pkg/middleware/requestid"
)

// @title Student Management Service
// @version 1.0.0
// @description CRUD API for student profiles and class enrollments
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := service.NewValidator()
	metricsSvc := service.NewMetricsService()
	studentRepo := repository.NewStudentRepository(db, metricsSvc)
	enrollmentRepo := repository.NewEnrollmentRepository(db, metricsSvc)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, logr)

	studentHandler := handler.NewStudentHandler(studentSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	students := api.Group("/students")
	{
		students.POST("", studentHandler.Create)
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.PUT("/:id", studentHandler.Update)
		students.DELETE("/:id", studentHandler.Delete)

		students.POST("/:id/enrollments", enrollmentHandler.Enroll)
		students.GET("/:id/enrollments", enrollmentHandler.ListByStudent)
		students.PUT("/enrollments/:enrollmentId/status", enrollmentHandler.UpdateStatus)
		students.DELETE("/enrollments/:enrollmentId", enrollmentHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("student service starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
