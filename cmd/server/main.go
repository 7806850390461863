// Package main is the entry point for the landed-cost API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"landedcost/internal/domain/costing"
	"landedcost/internal/domain/records"
	v1 "landedcost/internal/infrastructure/http/v1"
	"landedcost/internal/infrastructure/storage/postgres"
	"landedcost/internal/infrastructure/storage/postgres/record_repo"
	"landedcost/internal/infrastructure/storage/sqlite"
	"landedcost/pkg/logger"
)

const appVersion = "0.1.0"

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting landedcost server")

	// --- Exchange rates ---
	rates, err := buildRateTable()
	if err != nil {
		log.Fatalw("invalid exchange rate configuration", "error", err)
	}
	log.Infow("exchange rates configured", "report_currency", rates.Report)

	// --- Primary store (optional) ---
	// A missing or unreachable primary database is not fatal: the service
	// degrades to local persistence.
	var primary records.Store
	var pool *postgres.Pool
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err = postgres.NewPool(connectCtx, postgres.DefaultPoolConfig(dsn))
		cancel()
		if err != nil {
			log.Warnw("primary database unavailable, running in local mode", "error", err)
		} else {
			defer pool.Close()
			repo, err := record_repo.NewRecordRepo(pool)
			if err != nil {
				log.Fatalw("failed to create record repository", "error", err)
			}
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Fatalw("failed to prepare database schema", "error", err)
			}
			primary = repo
			log.Info("primary database connection established")
		}
	} else {
		log.Info("no DATABASE_URL configured, running in local mode")
	}

	// --- Local fallback store (required) ---
	fallback, err := sqlite.Open(getEnv("SQLITE_PATH", "landedcost.db"))
	if err != nil {
		log.Fatalw("failed to open local store", "error", err)
	}
	defer fallback.Close()
	log.Info("local store ready")

	// --- Services ---
	engine := costing.NewEngine()
	recordService := records.NewService(primary, fallback)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		Engine:        engine,
		Rates:         rates,
		RecordService: recordService,
		PrimaryStore:  primary,
		FallbackStore: fallback,
		AuthSecret:    getEnv("AUTH_SECRET", ""),
		Version:       appVersion,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// buildRateTable assembles the exchange rate table from the environment,
// falling back to the built-in defaults per currency.
func buildRateTable() (costing.RateTable, error) {
	report := costing.Currency(getEnv("REPORT_CURRENCY", string(costing.DefaultReportCurrency)))

	defaults := costing.DefaultRates()
	configured := map[costing.Currency]string{}
	for _, cur := range []struct {
		code costing.Currency
		env  string
	}{
		{costing.CurrencyCNY, "RATE_CNY"},
		{costing.CurrencyUSD, "RATE_USD"},
	} {
		if raw := getEnv(cur.env, ""); raw != "" {
			configured[cur.code] = raw
		}
	}

	table, err := costing.ParseRateTable(report, configured)
	if err != nil {
		return costing.RateTable{}, err
	}

	for cur, rate := range defaults.Rates {
		if _, ok := table.Rates[cur]; !ok && cur != table.Report {
			table.Rates[cur] = rate
		}
	}

	return table, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
