package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moviebrowser/internal/api"
	"moviebrowser/internal/api/middleware"
	"moviebrowser/internal/database"
	"moviebrowser/pkg/factory"
)

func main() {
	appFactory, err := factory.NewFactory()
	if err != nil {
		fmt.Printf("failed to build application: %v\n", err)
		os.Exit(1)
	}

	log := appFactory.GetLogger()
	cfg := appFactory.GetConfig()
	db := appFactory.GetDB()

	defer db.Close()

	log.Info("starting application", map[string]interface{}{"env": cfg.AppEnv})

	migrationService := database.NewMigrationService(db, log)
	if err := migrationService.RunMigrations(); err != nil {
		log.Fatal("failed to apply migrations", map[string]interface{}{"error": err.Error()})
	}

	if err := database.SeedAdmin(db, log); err != nil {
		log.Fatal("failed to seed administrator account", map[string]interface{}{"error": err.Error()})
	}

	sessions := api.NewSessionStore()

	authHandler := api.NewAuthHandler(appFactory.GetAuthService(), sessions, log)
	userHandler := api.NewUserHandler(sessions, log)
	movieHandler := api.NewMovieHandler(sessions, log)
	rentalHandler := api.NewRentalHandler(sessions, log)
	auditLogHandler := api.NewAuditLogHandler(appFactory.GetAuditLogService(), sessions, log)
	healthHandler := api.NewHealthHandler(db, appFactory.GetCache(), log)

	mux := http.NewServeMux()

	authHandler.RegisterRoutes(mux)
	userHandler.RegisterRoutes(mux)
	movieHandler.RegisterRoutes(mux)
	rentalHandler.RegisterRoutes(mux)
	auditLogHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: middleware.MetricsMiddleware(mux),
	}

	go func() {
		log.Info("starting HTTP server", map[string]interface{}{"port": cfg.Server.Port})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server", map[string]interface{}{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("server stopped", map[string]interface{}{})
}
