package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/whiteboard/enrollment-service/internal/adapters/export"
	"github.com/whiteboard/enrollment-service/internal/adapters/handler"
	"github.com/whiteboard/enrollment-service/internal/adapters/identity"
	"github.com/whiteboard/enrollment-service/internal/adapters/middleware"
	"github.com/whiteboard/enrollment-service/internal/adapters/repository"
	"github.com/whiteboard/enrollment-service/internal/config"
	"github.com/whiteboard/enrollment-service/internal/core/authz"
	"github.com/whiteboard/enrollment-service/internal/core/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.InitSchema(db); err != nil {
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	enrollmentRepo := repository.NewSQLEnrollmentRepository(db)
	identityProvider := identity.NewHTTPProvider(cfg.IdentityServiceURL)

	gate := authz.NewGate()
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, identityProvider)
	directoryService := services.NewDirectoryService(identityProvider)
	exporter := export.NewExcelExporter()

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, redisClient)

	courseHandler := handler.NewCourseHandler(gate, enrollmentService, exporter)
	userHandler := handler.NewUserHandler(gate, directoryService, exporter)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)

	mux.Handle("/metrics", promhttp.Handler())

	// Course endpoints
	mux.Handle("POST /api/courses/add", authMiddleware.Authenticate(http.HandlerFunc(courseHandler.AddCourse)))
	mux.Handle("POST /api/courses/registerCourse", authMiddleware.Authenticate(http.HandlerFunc(courseHandler.RegisterCourse)))
	mux.Handle("GET /api/courses/myCourses", authMiddleware.Authenticate(http.HandlerFunc(courseHandler.MyCourses)))
	mux.Handle("GET /api/courses/myCourseStudents", authMiddleware.Authenticate(http.HandlerFunc(courseHandler.MyCourseStudents)))
	mux.Handle("GET /api/courses/myCourseStudents/download", authMiddleware.Authenticate(http.HandlerFunc(courseHandler.DownloadMyCourseStudents)))

	// User endpoints
	mux.Handle("POST /api/user/register", authMiddleware.Authenticate(http.HandlerFunc(userHandler.RegisterUser)))
	mux.Handle("GET /api/user/liststudents", authMiddleware.Authenticate(http.HandlerFunc(userHandler.ListStudents)))
	mux.Handle("GET /api/user/liststudents/download", authMiddleware.Authenticate(http.HandlerFunc(userHandler.DownloadStudents)))
	mux.Handle("GET /api/user/listprofessors", authMiddleware.Authenticate(http.HandlerFunc(userHandler.ListProfessors)))
	mux.Handle("GET /api/user/listprofessors/download", authMiddleware.Authenticate(http.HandlerFunc(userHandler.DownloadProfessors)))
	mux.Handle("DELETE /api/user/{username}", authMiddleware.Authenticate(http.HandlerFunc(userHandler.DeleteStudent)))

	chain := middleware.RequestID(middleware.Metrics(middleware.CORS(cfg.AllowedOrigins)(mux)))

	slog.Info("starting enrollment service", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, chain); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
