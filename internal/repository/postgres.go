package repository

import (
	"context"
	"fmt"

	"github.com/antennaproject/proximity/internal/models"
	"github.com/google/uuid"
)

// ImportParcels upserts the given parcels. Existing rows keep their
// geocoded coordinates unless the import carries its own location.
func (r *Repository) ImportParcels(ctx context.Context, parcels []models.Parcel) error {
	query := `
		INSERT INTO public.parcels (parcel_id, address, owner, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (parcel_id) DO UPDATE
		SET
			address = EXCLUDED.address,
			owner = EXCLUDED.owner,
			latitude = COALESCE(EXCLUDED.latitude, parcels.latitude),
			longitude = COALESCE(EXCLUDED.longitude, parcels.longitude);
	`

	for _, parcel := range parcels {
		var lat, lon any
		if parcel.Location != nil {
			lat, lon = parcel.Location.Latitude, parcel.Location.Longitude
		}

		if _, err := r.db.Exec(ctx, query, parcel.ID, parcel.Address, parcel.Owner, lat, lon); err != nil {
			return fmt.Errorf("failed to import parcel %q: %w", parcel.ID, err)
		}
	}

	r.log.DebugContext(ctx, "Parcels imported", "count", len(parcels))

	return nil
}

// FetchParcelsForGeocoding retrieves parcels that still need coordinates.
// It returns parcels with a NULL latitude, fewer than 5 geocoding attempts,
// and a non-empty address, ordered by creation date and
// limited to the specified count.
func (r *Repository) FetchParcelsForGeocoding(ctx context.Context, limit int) ([]models.Parcel, error) {
	var parcels []models.Parcel
	query := `
		SELECT parcel_id, address
		FROM public.parcels
		WHERE
			latitude IS NULL
			AND geocoding_attempts < 5
			AND address IS NOT NULL AND address <> ''
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels without coordinates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var parcel models.Parcel
		if errScan := rows.Scan(&parcel.ID, &parcel.Address); errScan != nil {
			return nil, fmt.Errorf("failed to scan parcel without coordinates: %w", errScan)
		}
		r.log.DebugContext(ctx, "A parcel without coordinates has been received.",
			"ID", parcel.ID, "Address", parcel.Address)
		parcels = append(parcels, parcel)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return parcels, nil
}

// UpdateParcelCoordinates updates the latitude and longitude of a parcel
// identified by parcelID. It sets the geocoding_error field to NULL.
// It returns an error if the update fails.
func (r *Repository) UpdateParcelCoordinates(ctx context.Context, parcelID string, point models.GeoPoint) error {
	query := `
		UPDATE parcels
		SET
			latitude = $1,
			longitude = $2,
			geocoding_error = NULL
		WHERE
			parcel_id = $3;
	`

	_, err := r.db.Exec(ctx, query, point.Latitude, point.Longitude, parcelID)
	if err != nil {
		return fmt.Errorf("failed to update parcel coordinates: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the geocoding attempt count for a
// specific parcel identified by parcelID and updates the associated error
// message. If the update operation fails, it returns an error with
// additional context.
func (r *Repository) IncrementFailureCount(ctx context.Context, parcelID string, errMsg string) error {
	query := `
		UPDATE parcels
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE parcel_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, parcelID)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}

// FetchLocatedParcels returns every parcel that has coordinates, ordered by
// parcel id for deterministic evaluation batches.
func (r *Repository) FetchLocatedParcels(ctx context.Context) ([]models.Parcel, error) {
	query := `
		SELECT parcel_id, COALESCE(address, ''), COALESCE(owner, ''), latitude, longitude
		FROM public.parcels
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY parcel_id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query located parcels: %w", err)
	}
	defer rows.Close()

	var parcels []models.Parcel
	for rows.Next() {
		var (
			parcel   models.Parcel
			lat, lon float64
		)
		if errScan := rows.Scan(&parcel.ID, &parcel.Address, &parcel.Owner, &lat, &lon); errScan != nil {
			return nil, fmt.Errorf("failed to scan located parcel: %w", errScan)
		}

		point, errPoint := models.NewGeoPoint(lat, lon, parcel.ID)
		if errPoint != nil {
			return nil, errPoint
		}
		parcel.Location = &point
		parcels = append(parcels, parcel)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return parcels, nil
}

// SaveRun persists one evaluation run: one row per proximity result, all
// keyed by the run id.
func (r *Repository) SaveRun(
	ctx context.Context,
	runID uuid.UUID,
	thresholdMeters float64,
	results []models.ProximityResult,
) error {
	query := `
		INSERT INTO public.proximity_results
			(run_id, parcel_id, antenna_support, antenna_operator, distance_m, within_threshold, threshold_m)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	for _, result := range results {
		_, err := r.db.Exec(ctx, query,
			runID,
			result.Parcel.ID,
			result.Antenna.SupportID,
			result.Antenna.Operator,
			result.DistanceMeters,
			result.WithinThreshold,
			thresholdMeters,
		)
		if err != nil {
			return fmt.Errorf("failed to save result for parcel %q: %w", result.Parcel.ID, err)
		}
	}

	r.log.DebugContext(ctx, "Evaluation run saved", "run_id", runID, "results", len(results))

	return nil
}
