package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/config"
	"github.com/ofistakip/ofistakip-engine/pkg/database"
	"github.com/ofistakip/ofistakip-engine/pkg/handlers"
	"github.com/ofistakip/ofistakip-engine/pkg/logging"
	"github.com/ofistakip/ofistakip-engine/pkg/middleware"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
	"github.com/ofistakip/ofistakip-engine/pkg/services"

	authpkg "github.com/ofistakip/ofistakip-engine/pkg/auth"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.Database.ConnectionString(), cfg.Database.MaxConnections)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.Migrate(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	helpRequestRepo := repositories.NewHelpRequestRepository(db)
	activityLogRepo := repositories.NewActivityLogRepository(db)

	tokenService := authpkg.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	activityService := services.NewActivityService(activityLogRepo, logger)
	progressService := services.NewProgressService(taskRepo, projectRepo, logger)
	authService := services.NewAuthService(userRepo, tokenService, activityService, logger)
	userService := services.NewUserService(userRepo, activityService, logger)
	projectService := services.NewProjectService(projectRepo, userRepo, activityService, logger)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, progressService, activityService, logger)
	helpRequestService := services.NewHelpRequestService(helpRequestRepo, taskRepo, activityService, logger)

	authMiddleware := authpkg.NewMiddleware(tokenService, userRepo, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(db, cfg.Version, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProjectHandler(projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTaskHandler(taskService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewHelpRequestHandler(helpRequestService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewActivityLogHandler(activityService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting ofistakip-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
