package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/antennaproject/proximity/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of pgxpool.Pool the repository relies on.
// Narrowing the surface keeps the repository mockable in tests.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	ImportParcels(ctx context.Context, parcels []models.Parcel) error
	FetchParcelsForGeocoding(ctx context.Context, limit int) ([]models.Parcel, error)
	UpdateParcelCoordinates(ctx context.Context, parcelID string, point models.GeoPoint) error
	IncrementFailureCount(ctx context.Context, parcelID string, errMsg string) error
	FetchLocatedParcels(ctx context.Context) ([]models.Parcel, error)
	SaveRun(ctx context.Context, runID uuid.UUID, thresholdMeters float64, results []models.ProximityResult) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// NewDatabase opens a pgx connection pool for the given settings and
// verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
