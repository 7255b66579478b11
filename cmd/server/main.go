package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/jlozanoc/xchange-service/internal/application/service"
	"github.com/jlozanoc/xchange-service/internal/config"
	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/api"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/cache"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/db"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/fallback"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/handler"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/metrics"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.GetDefaultLogger().Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	log.Info("Starting currency exchange service", map[string]interface{}{
		"port": cfg.Port,
	})

	// Setup BadgerDB for the conversion ledger
	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{
			"path":  cfg.DBPath,
			"error": err.Error(),
		})
	}

	badgerOpts := badger.DefaultOptions(cfg.DBPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{
			"path":  cfg.DBPath,
			"error": err.Error(),
		})
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Restore the ledger from previous runs
	historyRepo := db.NewBadgerHistoryRepository(badgerDB, log)
	restored, err := historyRepo.LoadLedger(context.Background())
	if err != nil {
		log.Warn("Could not restore conversion history", map[string]interface{}{
			"error": err.Error(),
		})
	}
	ledger := entity.NewLedger(restored)

	// Load the rate snapshot: live API first, embedded fallback second
	store := cache.NewSnapshotStore()
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	ratesClient := api.NewRatesAPIClient(cfg.RatesURL, httpClient, log)
	rateService := service.NewRateService(ratesClient, fallback.NewStaticSource(), store, log)

	snapshot, err := rateService.Load(context.Background())
	if err != nil {
		// Keep serving; conversion endpoints answer 503 until rates appear.
		log.Error("No rate snapshot available", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		m.RateFetchesTotal.WithLabelValues(string(snapshot.Source)).Inc()
	}

	// Initialize services
	conversionService := service.NewConversionService(store, historyRepo, ledger, log)
	frankfurterClient := api.NewFrankfurterClient(cfg.HistoryURL, httpClient, log)
	trendService := service.NewTrendService(frankfurterClient, store, nil, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware(m))

	handler.NewConversionHandler(conversionService, store, m, log).RegisterRoutes(router)
	handler.NewTrendHandler(trendService, m, log).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Warm up the chart for the default pair shortly after startup
	go func() {
		time.Sleep(cfg.TrendWarmupDelay)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()
		if _, _, _, err := trendService.Refresh(ctx, cfg.TrendFrom, cfg.TrendTo, 0, 0); err != nil {
			log.Warn("Trend warm-up failed", map[string]interface{}{
				"from":  cfg.TrendFrom,
				"to":    cfg.TrendTo,
				"error": err.Error(),
			})
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Info("Server listening", map[string]interface{}{
		"addr": srv.Addr,
	})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
