package proximity_test

import (
	"testing"

	"github.com/antennaproject/proximity/internal/geo"
	"github.com/antennaproject/proximity/internal/models"
	"github.com/antennaproject/proximity/internal/proximity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func antenna(t *testing.T, supportID, operator string, lat, lon float64) models.Antenna {
	t.Helper()
	point, err := models.NewGeoPoint(lat, lon, supportID)
	require.NoError(t, err)
	return models.Antenna{SupportID: supportID, Operator: operator, Location: point}
}

func parcel(t *testing.T, id string, lat, lon float64) models.Parcel {
	t.Helper()
	point, err := models.NewGeoPoint(lat, lon, id)
	require.NoError(t, err)
	return models.Parcel{ID: id, Location: &point}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	antennas := []models.Antenna{
		antenna(t, "sup-1", "ORANGE", 48.90, 2.40),
		antenna(t, "sup-2", "ORANGE", 48.85, 2.35),
		antenna(t, "sup-3", "FREE MOBILE", 48.80, 2.30),
	}

	t.Run("single parcel gets the minimum pairwise distance", func(t *testing.T) {
		t.Parallel()
		target := parcel(t, "p-1", 48.8566, 2.3522)

		results, err := proximity.Evaluate([]models.Parcel{target}, antennas, 1000)

		require.NoError(t, err)
		require.Len(t, results, 1)

		// Independently compute the minimum over all candidates.
		minDist := -1.0
		for _, candidate := range antennas {
			dist, errDist := geo.Distance(*target.Location, candidate.Location)
			require.NoError(t, errDist)
			if minDist < 0 || dist < minDist {
				minDist = dist
			}
		}
		assert.InDelta(t, minDist, results[0].DistanceMeters, 1e-9)
		assert.Equal(t, "sup-2", results[0].Antenna.SupportID)
	})

	t.Run("empty antenna list fails", func(t *testing.T) {
		t.Parallel()
		_, err := proximity.Evaluate([]models.Parcel{parcel(t, "p-1", 48, 2)}, nil, 1000)

		require.ErrorIs(t, err, proximity.ErrNoAntennaData)
	})

	t.Run("parcel order is preserved", func(t *testing.T) {
		t.Parallel()
		parcels := []models.Parcel{
			parcel(t, "p-3", 48.70, 2.20),
			parcel(t, "p-1", 48.90, 2.41),
			parcel(t, "p-2", 48.80, 2.31),
		}

		results, err := proximity.Evaluate(parcels, antennas, 1000)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "p-3", results[0].Parcel.ID)
		assert.Equal(t, "p-1", results[1].Parcel.ID)
		assert.Equal(t, "p-2", results[2].Parcel.ID)
	})

	t.Run("threshold comparison is inclusive", func(t *testing.T) {
		t.Parallel()
		target := parcel(t, "p-1", 48.8566, 2.3522)
		single := []models.Antenna{antennas[1]}

		exact, err := geo.Distance(*target.Location, single[0].Location)
		require.NoError(t, err)

		results, err := proximity.Evaluate([]models.Parcel{target}, single, exact)
		require.NoError(t, err)
		assert.True(t, results[0].WithinThreshold)

		results, err = proximity.Evaluate([]models.Parcel{target}, single, exact-0.01)
		require.NoError(t, err)
		assert.False(t, results[0].WithinThreshold)
	})

	t.Run("equidistant antennas resolve to the first in input order", func(t *testing.T) {
		t.Parallel()
		target := parcel(t, "p-1", 0, 0)
		twins := []models.Antenna{
			antenna(t, "east", "ORANGE", 0, 0.5),
			antenna(t, "west", "ORANGE", 0, -0.5),
		}

		results, err := proximity.Evaluate([]models.Parcel{target}, twins, 1e6)

		require.NoError(t, err)
		assert.Equal(t, "east", results[0].Antenna.SupportID)
	})

	t.Run("parcel at an antenna location is within any threshold", func(t *testing.T) {
		t.Parallel()
		target := parcel(t, "p-1", 48.85, 2.35)

		results, err := proximity.Evaluate([]models.Parcel{target}, antennas, 0)

		require.NoError(t, err)
		assert.Zero(t, results[0].DistanceMeters)
		assert.True(t, results[0].WithinThreshold)
	})

	t.Run("parcel without coordinates fails with its identifier", func(t *testing.T) {
		t.Parallel()
		_, err := proximity.Evaluate([]models.Parcel{{ID: "unlocated"}}, antennas, 1000)

		require.ErrorIs(t, err, proximity.ErrParcelNotLocated)
		assert.Contains(t, err.Error(), "unlocated")
	})
}

func TestNormalizeOperator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "FREE MOBILE", proximity.NormalizeOperator("free"))
	assert.Equal(t, "ORANGE", proximity.NormalizeOperator("Orange France"))
	assert.Equal(t, "BOUYGUES TELECOM", proximity.NormalizeOperator(" bouygues "))
	assert.Equal(t, "SFR", proximity.NormalizeOperator("sfr"))
}

func TestEvaluateOperator(t *testing.T) {
	t.Parallel()

	antennas := []models.Antenna{
		antenna(t, "sup-1", "ORANGE", 48.90, 2.40),
		antenna(t, "sup-2", "FREE MOBILE", 48.85, 2.35),
	}
	target := parcel(t, "p-1", 48.8566, 2.3522)

	t.Run("restricts candidates to the operator", func(t *testing.T) {
		t.Parallel()
		results, err := proximity.EvaluateOperator([]models.Parcel{target}, antennas, "orange france", 1e6)

		require.NoError(t, err)
		// sup-2 is closer, but belongs to another operator.
		assert.Equal(t, "sup-1", results[0].Antenna.SupportID)
	})

	t.Run("unknown operator fails with its name", func(t *testing.T) {
		t.Parallel()
		_, err := proximity.EvaluateOperator([]models.Parcel{target}, antennas, "sfr", 1e6)

		require.ErrorIs(t, err, proximity.ErrNoAntennaData)
		assert.Contains(t, err.Error(), "SFR")
	})
}

func TestOperatorSpacing(t *testing.T) {
	t.Parallel()

	antennas := []models.Antenna{
		antenna(t, "a", "ORANGE", 0, 0),
		antenna(t, "b", "ORANGE", 0, 1),
		antenna(t, "c", "ORANGE", 0, 3),
		antenna(t, "d", "FREE MOBILE", 10, 10),
	}

	spacing, err := proximity.OperatorSpacing(antennas)

	require.NoError(t, err)
	// FREE MOBILE has a single antenna and is skipped.
	require.Len(t, spacing, 1)

	oneDegree, err := geo.Distance(
		models.GeoPoint{Latitude: 0, Longitude: 0},
		models.GeoPoint{Latitude: 0, Longitude: 1},
	)
	require.NoError(t, err)

	// Nearest neighbors: a->b (1 deg), b->a (1 deg), c->b (2 deg); mean is 4/3 deg.
	expected := oneDegree * 4 / 3
	assert.InDelta(t, expected, spacing["ORANGE"], 1)
}

func TestStats(t *testing.T) {
	t.Parallel()

	t.Run("empty set fails", func(t *testing.T) {
		t.Parallel()
		_, err := proximity.Stats(nil)
		require.ErrorIs(t, err, proximity.ErrNoAntennaData)
	})

	t.Run("bounds, unique locations and operators", func(t *testing.T) {
		t.Parallel()
		antennas := []models.Antenna{
			antenna(t, "a", "ORANGE", 42.5, -1.5),
			antenna(t, "b", "FREE MOBILE", 50.1, 7.2),
			antenna(t, "c", "ORANGE", 42.5, -1.5), // co-located with a
		}

		stats, err := proximity.Stats(antennas)

		require.NoError(t, err)
		assert.Equal(t, 3, stats.Antennas)
		assert.Equal(t, 2, stats.UniqueLocations)
		assert.Equal(t, []string{"FREE MOBILE", "ORANGE"}, stats.Operators)
		assert.InDelta(t, 42.5, stats.MinLatitude, 1e-12)
		assert.InDelta(t, 50.1, stats.MaxLatitude, 1e-12)
		assert.InDelta(t, -1.5, stats.MinLongitude, 1e-12)
		assert.InDelta(t, 7.2, stats.MaxLongitude, 1e-12)
	})
}
