// main.go
//
// Hierarchical chapter reporting service for the Ladies of the Fellowship dashboard
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lofreports.
// lofreports is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lofreports is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lofreports.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/localnerve/lofreports/internal/config"
	"github.com/localnerve/lofreports/internal/database"
	"github.com/localnerve/lofreports/internal/handlers"
	"github.com/localnerve/lofreports/internal/logger"
	"github.com/localnerve/lofreports/internal/middleware"
	"github.com/localnerve/lofreports/internal/services"
	"github.com/localnerve/lofreports/internal/store"

	_ "github.com/localnerve/lofreports/docs/api" // Swagger docs
)

// @title LOF Reports API
// @version 1.0.0
// @description Hierarchical reporting dashboard: chapter and event reports rolled up by area, zone and district
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/lofreports
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name lof_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New("lofreports", logger.Options{}).WithError(err).Fatal("failed to load configuration")
	}

	log := logger.New("lofreports", logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Load the state document, seeding it on first run
	st, err := store.Open(context.Background(), store.Options{
		Persister: services.NewStateRepository(db, cfg.StateKey),
		Logger:    log.WithField("component", "store"),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to open state")
	}

	aggregator := services.NewAggregator(st, cfg.OrganizationName)
	narrator := &services.GeminiNarrator{
		BaseURL: cfg.NarrativeURL,
		Model:   cfg.NarrativeModel,
		APIKey:  cfg.NarrativeAPIKey,
		Timeout: time.Duration(cfg.NarrativeTimeoutSeconds) * time.Second,
		Log:     log.WithField("component", "narrative"),
	}
	auth := middleware.NewAuth(st, time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("lofreports")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	if cfg.SwaggerEnabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Health
	health := &handlers.HealthHandler{Config: cfg, DB: db, Log: log.WithField("component", "health")}
	app.Get("/health", health.Health)

	// API routes under /api, each response carries the state revision
	api := app.Group("/api", middleware.StateVersion(st))
	handlers.RegisterRoutes(api, auth, handlers.Handlers{
		Auth:    &handlers.AuthHandler{Store: st, Auth: auth},
		Org:     &handlers.OrgHandler{Store: st},
		Reports: &handlers.ReportHandler{Store: st},
		Dashboard: &handlers.DashboardHandler{
			Aggregator: aggregator,
			Dashboard:  services.NewDashboardService(st, aggregator),
			Narrator:   narrator,
		},
		Archive: &handlers.ArchiveHandler{
			Store:    st,
			Archives: services.NewArchiveService(db, st, cfg.StateKey, log.WithField("component", "archive")),
		},
	})

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	// Start server
	log.WithField("port", cfg.Port).Info("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}

	log.Info("server stopped")
}
