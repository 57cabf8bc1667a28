package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"currency-calculator/internal/adapter/cache"
	httpRouter "currency-calculator/internal/adapter/http"
	"currency-calculator/internal/adapter/repository"
	"currency-calculator/internal/config"
	"currency-calculator/internal/domain/ports"
	"currency-calculator/internal/metrics"
	"currency-calculator/internal/service"
	"currency-calculator/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger(os.Getenv("LOG_LEVEL")).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info("Starting currency calculator service")

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	rateCache, closeCache, err := newRateCache(cfg.Cache, log)
	if err != nil {
		log.Error("Failed to set up rate cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	api := repository.NewCurrencyAPI(
		cfg.RateSource.RatesURL,
		cfg.RateSource.RatesField,
		cfg.RateSource.DateURL,
		cfg.RateSource.Timeout,
		log,
	)
	rates := repository.NewCachedRateSource(api, rateCache, cfg.RateSource.RatesURL, log, appMetrics)

	ctx, cancelBackground := context.WithCancel(context.Background())
	calculatorService := service.NewCalculatorService(ctx, rates, api, log, appMetrics, service.Options{
		SampleSize: cfg.Session.SampleSize,
		SessionTTL: cfg.Session.TTL,
	})

	handler := httpRouter.NewHandler(calculatorService, log)
	router := httpRouter.NewRouter(handler, log, appMetrics, prometheus.DefaultGatherer)
	routes := router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go sweep(ctx, calculatorService, rateCache, cfg.Session.SweepInterval, log)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// in-flight fetches observe the cancelled context and return
	cancelBackground()
	calculatorService.Wait()

	log.Info("Server exited")
}

func newRateCache(cfg config.CacheConfig, log *logger.Logger) (ports.RateCache, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("Using in-memory rate cache", "ttl", cfg.TTL)
		return cache.NewMemoryCache(cfg.TTL, log), func() {}, nil
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.KeyPrefix, cfg.TTL, log)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		redisCache.Close()
		return nil, nil, fmt.Errorf("redis unreachable: %w", err)
	}

	log.Info("Using Redis rate cache", "ttl", cfg.TTL, "prefix", cfg.KeyPrefix)
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}, nil
}

// sweep periodically drops idle sessions and expired cache entries
func sweep(ctx context.Context, svc *service.CalculatorService, rateCache ports.RateCache, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			svc.Sweep(ctx)
			if err := rateCache.ClearExpired(ctx); err != nil {
				log.Error("Failed to clear expired rates", "error", err)
			}
		case <-ctx.Done():
			log.Info("Stopping sweeper goroutine")
			return
		}
	}
}
