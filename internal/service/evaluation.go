package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/antennaproject/proximity/internal/geocoding"
	"github.com/antennaproject/proximity/internal/metrics"
	"github.com/antennaproject/proximity/internal/models"
	"github.com/antennaproject/proximity/internal/proximity"
	"github.com/antennaproject/proximity/internal/report"
	"github.com/antennaproject/proximity/internal/repository"
	"github.com/google/uuid"
)

// EvaluationService drives the periodic proximity pipeline: parcels missing
// coordinates are geocoded through the provider with a worker pool, then
// every located parcel is evaluated against the antenna set and the run is
// persisted and optionally written out as a report file.
type EvaluationService struct {
	log             *slog.Logger         // Logger for logging service activities
	repo            repository.Interface // Interface for data repository access
	provider        geocoding.Provider   // Geocoding provider for parcel addresses
	providerName    string               // Name of the provider for metrics labeling
	metrics         *metrics.Metrics     // Metrics for tracking service performance
	antennas        []models.Antenna     // Antenna set loaded at startup
	thresholdMeters float64              // Inclusive proximity threshold, meters
	operator        string               // Optional operator filter, empty means all
	numWorkers      int                  // Number of concurrent geocoding workers
	pollInterval    time.Duration        // Interval between evaluation batches
	reportDir       string               // Report output directory, empty disables reports
}

// NewEvaluationService creates a new instance of EvaluationService.
func NewEvaluationService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	antennas []models.Antenna,
	thresholdMeters float64,
	operator string,
	numWorkers int,
	pollInterval time.Duration,
	reportDir string,
) *EvaluationService {
	return &EvaluationService{
		log:             log,
		repo:            repo,
		provider:        provider,
		providerName:    providerName,
		metrics:         metrics,
		antennas:        antennas,
		thresholdMeters: thresholdMeters,
		operator:        operator,
		numWorkers:      numWorkers,
		pollInterval:    pollInterval,
		reportDir:       reportDir,
	}
}

// Run starts the evaluation service, which periodically geocodes pending
// parcels and re-evaluates proximity. It listens for a cancellation signal
// from the context to gracefully stop the service.
func (es *EvaluationService) Run(ctx context.Context) {
	ticker := time.NewTicker(es.pollInterval)
	defer ticker.Stop()

	es.log.InfoContext(ctx, "Evaluation service started...")

	for {
		select {
		case <-ctx.Done():
			es.log.InfoContext(ctx, "Evaluation service stopped.")
			return
		case <-ticker.C:
			es.log.InfoContext(ctx, "Starting evaluation batch...")
			es.processBatch(ctx)
		}
	}
}

// processBatch runs one full pipeline pass: geocode parcels that still miss
// coordinates, then evaluate every located parcel.
func (es *EvaluationService) processBatch(ctx context.Context) {
	es.geocodePending(ctx)
	es.evaluateParcels(ctx)
}

// geocodePending fetches parcels without coordinates, starts a worker pool
// to geocode them, and waits for all workers to finish.
func (es *EvaluationService) geocodePending(ctx context.Context) {
	parcelLimit := 100
	parcels, err := es.repo.FetchParcelsForGeocoding(ctx, parcelLimit)
	if err != nil {
		es.log.ErrorContext(ctx, "Failed to fetch parcels for geocoding", "error", err)
		return
	}
	if len(parcels) == 0 {
		es.log.InfoContext(ctx, "No parcels to geocode.")
		return
	}

	es.log.InfoContext(
		ctx,
		"Found parcels to geocode. Starting worker pool.",
		"jobs",
		len(parcels),
		"num_workers",
		es.numWorkers,
	)

	jobs := make(chan models.Parcel, len(parcels))
	var wgr sync.WaitGroup

	for i := 1; i <= es.numWorkers; i++ {
		wgr.Add(1)
		go es.worker(ctx, i, &wgr, jobs)
	}

	for _, parcel := range parcels {
		jobs <- parcel
	}
	close(jobs)

	wgr.Wait()
	es.log.InfoContext(ctx, "Geocoding batch finished")
}

// worker processes parcels from the jobs channel. It increments the active
// worker count, measures the time taken per geocoding request, updates the
// failure count on errors, and stores the resolved coordinates on success.
func (es *EvaluationService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Parcel) {
	defer wg.Done()
	for parcel := range jobs {
		var err error

		es.metrics.ActiveWorkers.Inc()
		es.log.DebugContext(ctx, "Geocoding parcel", "worker", idx, "parcel", parcel.ID)

		startTime := time.Now()
		point, err := es.provider.Geocode(ctx, parcel.Address)
		duration := time.Since(startTime).Seconds()
		es.metrics.GeocodeSeconds.WithLabelValues(es.providerName).Observe(duration)

		if err != nil {
			es.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "parcel", parcel.ID, "error", err)
			es.metrics.ParcelsProcessed.WithLabelValues("failure").Inc()
			es.metrics.GeocodeAPIErrors.Inc()

			if err = es.repo.IncrementFailureCount(ctx, parcel.ID, err.Error()); err != nil {
				es.log.ErrorContext(
					ctx,
					"Could not update failure count for parcel",
					"worker", idx,
					"parcel", parcel.ID,
					"error", err,
				)
			}
			es.metrics.ActiveWorkers.Dec()
			continue
		}

		es.metrics.ParcelsProcessed.WithLabelValues("success").Inc()

		if err = es.repo.UpdateParcelCoordinates(ctx, parcel.ID, *point); err != nil {
			es.log.ErrorContext(
				ctx,
				"Failed to update coordinates for parcel",
				"worker", idx,
				"parcel", parcel.ID,
				"error", err,
			)
		} else {
			es.log.DebugContext(ctx, "Worker successfully geocoded the parcel", "worker", idx, "parcel", parcel.ID)
		}

		es.metrics.ActiveWorkers.Dec()
	}
}

// evaluateParcels evaluates every located parcel against the antenna set,
// persists the run, and writes a report file when configured.
func (es *EvaluationService) evaluateParcels(ctx context.Context) {
	parcels, err := es.repo.FetchLocatedParcels(ctx)
	if err != nil {
		es.log.ErrorContext(ctx, "Failed to fetch located parcels", "error", err)
		return
	}
	if len(parcels) == 0 {
		es.log.InfoContext(ctx, "No located parcels to evaluate.")
		return
	}

	startTime := time.Now()
	var results []models.ProximityResult
	if es.operator != "" {
		results, err = proximity.EvaluateOperator(parcels, es.antennas, es.operator, es.thresholdMeters)
	} else {
		results, err = proximity.Evaluate(parcels, es.antennas, es.thresholdMeters)
	}
	es.metrics.EvaluationSeconds.Observe(time.Since(startTime).Seconds())

	if err != nil {
		es.log.ErrorContext(ctx, "Proximity evaluation failed", "error", err)
		return
	}

	within := 0
	for _, result := range results {
		if result.WithinThreshold {
			within++
			es.metrics.ParcelsClassified.WithLabelValues("within").Inc()
		} else {
			es.metrics.ParcelsClassified.WithLabelValues("out_of_range").Inc()
		}
	}

	runID := uuid.New()
	if err = es.repo.SaveRun(ctx, runID, es.thresholdMeters, results); err != nil {
		es.log.ErrorContext(ctx, "Failed to save evaluation run", "run_id", runID, "error", err)
		return
	}

	es.log.InfoContext(ctx, "Evaluation run finished",
		"run_id", runID,
		"parcels", len(results),
		"within_threshold", within,
		"threshold_m", es.thresholdMeters,
	)

	if es.reportDir != "" {
		reportPath := filepath.Join(es.reportDir, fmt.Sprintf("proximity_%s.csv", runID))
		if err = report.WriteCSV(reportPath, results); err != nil {
			es.log.ErrorContext(ctx, "Failed to write report", "path", reportPath, "error", err)
			return
		}
		es.log.InfoContext(ctx, "Report written", "path", reportPath)
	}
}
