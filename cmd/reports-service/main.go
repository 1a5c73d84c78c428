package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nurpe/fleet-reports/internal/auth"
	"github.com/nurpe/fleet-reports/internal/config"
	"github.com/nurpe/fleet-reports/internal/db"
	"github.com/nurpe/fleet-reports/internal/excel"
	httphandler "github.com/nurpe/fleet-reports/internal/http"
	"github.com/nurpe/fleet-reports/internal/http/middleware"
	"github.com/nurpe/fleet-reports/internal/logger"
	"github.com/nurpe/fleet-reports/internal/pdf"
	"github.com/nurpe/fleet-reports/internal/repository"
	"github.com/nurpe/fleet-reports/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	reportRepo := repository.NewReportRepository(database, cfg.Reports.Location)
	scopeRepo := repository.NewScopeRepository(database)

	reportService := service.NewReportService(
		reportRepo,
		scopeRepo,
		excel.NewGenerator(),
		pdf.NewGenerator(),
		cfg.Reports,
		service.SystemClock{},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(reportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, httphandler.RouterOptions{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Registry:       registry,
		Log:            log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().
		Str("addr", addr).
		Str("timezone", cfg.Reports.Timezone).
		Msg("starting reports service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
