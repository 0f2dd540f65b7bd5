package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"geo-currency-converter/internal/adapter/geolocation"
	httpRouter "geo-currency-converter/internal/adapter/http"
	"geo-currency-converter/internal/adapter/repository"
	"geo-currency-converter/internal/config"
	"geo-currency-converter/internal/domain/model"
	"geo-currency-converter/internal/metrics"
	"geo-currency-converter/internal/service"
	"geo-currency-converter/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting geo currency converter")

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	locator := service.NewInstrumentedLocator(
		geolocation.NewCountryAPI(cfg.Geolocation.BaseURL, log),
		log,
		appMetrics,
	)
	rates := service.NewInstrumentedConverter(
		repository.NewExchangeAPI(cfg.ExchangeAPI.BaseURL, cfg.ExchangeAPI.APIKey, log),
		log,
		appMetrics,
	)

	converter := service.NewConverter(locator, rates, log,
		service.WithStateObserver(func(requestID string, from, to model.ConversionState) {
			log.Debug("Conversion state changed", "request_id", requestID, "from", from, "to", to)
		}),
	)

	handler := httpRouter.NewHandler(converter, log, appMetrics)
	router := httpRouter.NewRouter(handler, log, appMetrics, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
