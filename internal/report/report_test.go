package report_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/antennaproject/proximity/internal/models"
	"github.com/antennaproject/proximity/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResults(t *testing.T) []models.ProximityResult {
	t.Helper()

	parcelLoc, err := models.NewGeoPoint(48.8566, 2.3522, "P1")
	require.NoError(t, err)
	antennaLoc, err := models.NewGeoPoint(48.85, 2.35, "sup-1")
	require.NoError(t, err)

	return []models.ProximityResult{
		{
			Parcel:          models.Parcel{ID: "P1", Location: &parcelLoc},
			Antenna:         models.Antenna{SupportID: "sup-1", Operator: "ORANGE", Location: antennaLoc},
			DistanceMeters:  748.5,
			WithinThreshold: true,
		},
		{
			Parcel:          models.Parcel{ID: "P2", Location: &parcelLoc},
			Antenna:         models.Antenna{SupportID: "sup-1", Operator: "ORANGE", Location: antennaLoc},
			DistanceMeters:  12000.25,
			WithinThreshold: false,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, report.WriteCSV(path, sampleResults(t)))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "parcel_id", rows[0][0])
	assert.Equal(t, "distance_m", rows[0][7])
	assert.Equal(t, "within_threshold", rows[0][8])

	assert.Equal(t, []string{
		"P1", "48.8566", "2.3522", "sup-1", "ORANGE", "48.85", "2.35", "748.50", "true",
	}, rows[1])
	assert.Equal(t, "P2", rows[2][0])
	assert.Equal(t, "12000.25", rows[2][7])
	assert.Equal(t, "false", rows[2][8])
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, report.WriteXLSX(path, sampleResults(t)))

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Results")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "parcel_id", rows[0][0])
	assert.Equal(t, "P1", rows[1][0])
	assert.Equal(t, "sup-1", rows[1][3])
	assert.Equal(t, "ORANGE", rows[1][4])
	assert.Equal(t, "TRUE", rows[1][8])
	assert.Equal(t, "P2", rows[2][0])
}
