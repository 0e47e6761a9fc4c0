package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antennaproject/proximity/internal/config"
	"github.com/antennaproject/proximity/internal/geocoding"
	"github.com/antennaproject/proximity/internal/loader"
	"github.com/antennaproject/proximity/internal/metrics"
	"github.com/antennaproject/proximity/internal/models"
	"github.com/antennaproject/proximity/internal/proximity"
	"github.com/antennaproject/proximity/internal/repository"
	"github.com/antennaproject/proximity/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection.
	dtb, err := repository.NewDatabase(
		ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	// Create a new repository instance using the database connection.
	repo := repository.NewRepository(dtb, logger)

	// Load the antenna dataset and log coverage figures for the operators found.
	datasets := loader.NewLoader(logger)
	antennas, err := datasets.LoadAntennas(cfg.AntennasPath, cfg.SupportsPath)
	if err != nil {
		log.Fatalf("Failed to load antenna dataset: %v", err)
	}
	logCoverage(ctx, logger, antennas)

	// Import parcels from file when one is configured; parcels without
	// coordinates enter the geocoding queue.
	if cfg.ParcelsPath != "" {
		parcels, errLoad := datasets.LoadParcels(cfg.ParcelsPath)
		if errLoad != nil {
			log.Fatalf("Failed to load parcel dataset: %v", errLoad)
		}
		if errImport := repo.ImportParcels(ctx, parcels); errImport != nil {
			log.Fatalf("Failed to import parcels: %v", errImport)
		}
	}

	// Create geocoding provider using factory pattern based on configuration.
	// This allows runtime selection between different providers (Nominatim, Google).
	rateLimit := 50
	providerConfig := geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: rateLimit / cfg.Workers,
		Logger:    logger,
	}

	geoProvider, err := geocoding.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	defer stop()

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	// Init the evaluation service using the antenna set and the geo provider.
	evalService := service.NewEvaluationService(
		logger,
		repo,
		geoProvider,
		cfg.ProviderType, // Provider name for metrics
		appMetrics,
		antennas,
		cfg.ThresholdMeters,
		cfg.Operator,
		cfg.Workers,
		cfg.Interval,
		cfg.ReportDir,
	)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, dtb, cfg.Port)

	go evalService.Run(ctx)

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// logCoverage logs dataset-wide coverage statistics and the mean
// nearest-neighbor spacing per operator.
func logCoverage(ctx context.Context, logger *slog.Logger, antennas []models.Antenna) {
	stats, err := proximity.Stats(antennas)
	if err != nil {
		logger.WarnContext(ctx, "Could not compute coverage statistics", "error", err)
		return
	}

	logger.InfoContext(ctx, "Antenna coverage",
		"antennas", stats.Antennas,
		"unique_locations", stats.UniqueLocations,
		"operators", stats.Operators,
		"lat_range", fmt.Sprintf("%.2f..%.2f", stats.MinLatitude, stats.MaxLatitude),
		"lon_range", fmt.Sprintf("%.2f..%.2f", stats.MinLongitude, stats.MaxLongitude),
	)

	spacing, err := proximity.OperatorSpacing(antennas)
	if err != nil {
		logger.WarnContext(ctx, "Could not compute operator spacing", "error", err)
		return
	}
	for operator, meters := range spacing {
		logger.InfoContext(ctx, "Operator mean nearest-neighbor spacing",
			"operator", operator, "meters", fmt.Sprintf("%.0f", meters))
	}
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - dtb: A pgxpool connector for database methods (ping)
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	http.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := dtb.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", http.StatusOK)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
