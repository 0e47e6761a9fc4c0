// Package loader reads antenna and parcel datasets from tabular files.
//
// Antenna data follows the ANFR export layout: two semicolon-delimited,
// latin1-encoded CSV files, one listing antennas per support structure and
// one listing support coordinates, joined on the support number. Rows with
// missing or non-numeric coordinates are dropped and counted.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antennaproject/proximity/internal/models"
	"github.com/antennaproject/proximity/internal/proximity"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Column names in the ANFR export files.
const (
	colSupportAntennas = "Numéro de support"
	colSupportLocation = "Numéro du support"
	colOperator        = "Exploitant"
	colLatitude        = "Latitude"
	colLongitude       = "Longitude"
)

// Parcel file column names. Address, owner, and coordinates are optional;
// a parcel without coordinates must carry an address so it can be geocoded.
const (
	colParcelID      = "id"
	colParcelAddress = "address"
	colParcelOwner   = "owner"
	colParcelLat     = "latitude"
	colParcelLon     = "longitude"
)

// Loader reads datasets from disk.
type Loader struct {
	log *slog.Logger
}

// NewLoader creates a new Loader with the provided logger.
func NewLoader(log *slog.Logger) *Loader {
	return &Loader{log: log}
}

// LoadAntennas reads the antennas and supports CSV files and merges them on
// the support number. Antennas whose support has no usable coordinates are
// skipped; the number of skipped rows is logged. Operator names are
// normalized at load so downstream filtering works on canonical values.
func (l *Loader) LoadAntennas(antennasPath, supportsPath string) ([]models.Antenna, error) {
	supportRows, err := readSemicolonCSV(supportsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read supports file: %w", err)
	}

	supportCols, err := columnIndex(supportRows, colSupportLocation, colLatitude, colLongitude)
	if err != nil {
		return nil, fmt.Errorf("supports file %s: %w", supportsPath, err)
	}

	locations := make(map[string]models.GeoPoint)
	dropped := 0
	for _, row := range supportRows[1:] {
		supportID := strings.TrimSpace(cell(row, supportCols[colSupportLocation]))
		lat, errLat := parseCoordinate(cell(row, supportCols[colLatitude]))
		lon, errLon := parseCoordinate(cell(row, supportCols[colLongitude]))
		if supportID == "" || errLat != nil || errLon != nil {
			dropped++
			continue
		}

		point, errPoint := models.NewGeoPoint(lat, lon, supportID)
		if errPoint != nil {
			l.log.Warn("Dropping support with out-of-range coordinates", "support", supportID, "error", errPoint)
			dropped++
			continue
		}
		locations[supportID] = point
	}

	antennaRows, err := readSemicolonCSV(antennasPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read antennas file: %w", err)
	}

	antennaCols, err := columnIndex(antennaRows, colSupportAntennas, colOperator)
	if err != nil {
		return nil, fmt.Errorf("antennas file %s: %w", antennasPath, err)
	}

	var antennas []models.Antenna
	unmatched := 0
	for _, row := range antennaRows[1:] {
		supportID := strings.TrimSpace(cell(row, antennaCols[colSupportAntennas]))
		location, ok := locations[supportID]
		if !ok {
			unmatched++
			continue
		}

		antennas = append(antennas, models.Antenna{
			SupportID: supportID,
			Operator:  proximity.NormalizeOperator(cell(row, antennaCols[colOperator])),
			Location:  location,
		})
	}

	l.log.Info("Antenna dataset loaded",
		"antennas", len(antennas),
		"supports", len(locations),
		"dropped_supports", dropped,
		"unmatched_antennas", unmatched,
	)

	return antennas, nil
}

// LoadParcels reads parcels from the given file, dispatching on extension:
// .xlsx via the Excel reader, anything else as semicolon CSV.
func (l *Loader) LoadParcels(path string) ([]models.Parcel, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return l.LoadParcelsXLSX(path, defaultParcelSheet)
	}

	return l.LoadParcelsCSV(path)
}

// LoadParcelsCSV reads parcels from a semicolon-delimited CSV file. Rows
// with coordinates get a validated location; rows without coordinates but
// with an address are kept for geocoding; rows with neither are dropped.
func (l *Loader) LoadParcelsCSV(path string) ([]models.Parcel, error) {
	rows, err := readSemicolonCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parcels file: %w", err)
	}

	cols, err := columnIndex(rows, colParcelID)
	if err != nil {
		return nil, fmt.Errorf("parcels file %s: %w", path, err)
	}
	optional, _ := columnIndex(rows, colParcelAddress, colParcelOwner, colParcelLat, colParcelLon)

	var parcels []models.Parcel
	dropped := 0
	for _, row := range rows[1:] {
		parcel, ok := l.buildParcel(
			cell(row, cols[colParcelID]),
			cell(row, optional[colParcelAddress]),
			cell(row, optional[colParcelOwner]),
			cell(row, optional[colParcelLat]),
			cell(row, optional[colParcelLon]),
		)
		if !ok {
			dropped++
			continue
		}
		parcels = append(parcels, parcel)
	}

	l.log.Info("Parcel dataset loaded", "path", path, "parcels", len(parcels), "dropped", dropped)

	return parcels, nil
}

// buildParcel assembles a parcel from raw cell values. It reports false for
// rows that can be neither located nor geocoded.
func (l *Loader) buildParcel(id, address, owner, latRaw, lonRaw string) (models.Parcel, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Parcel{}, false
	}

	parcel := models.Parcel{
		ID:      id,
		Address: strings.TrimSpace(address),
		Owner:   strings.TrimSpace(owner),
	}

	lat, errLat := parseCoordinate(latRaw)
	lon, errLon := parseCoordinate(lonRaw)
	if errLat == nil && errLon == nil {
		point, err := models.NewGeoPoint(lat, lon, id)
		if err != nil {
			l.log.Warn("Dropping parcel with out-of-range coordinates", "parcel", id, "error", err)
			return models.Parcel{}, false
		}
		parcel.Location = &point
		return parcel, true
	}

	if parcel.Address == "" {
		return models.Parcel{}, false
	}

	return parcel, true
}

// readSemicolonCSV reads a latin1-encoded, semicolon-delimited CSV file
// and returns all records including the header row.
func readSemicolonCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(transform.NewReader(file, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, errRead := reader.Read()
		if errRead == io.EOF {
			break
		}
		if errRead != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, errRead)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	return rows, nil
}

// columnIndex maps the requested header names to their positions in the
// first row. Matching is case-insensitive on trimmed names. Missing columns
// produce an error naming the first absent one; callers that treat columns
// as optional may ignore the error and check for the -1 marker via cell.
func columnIndex(rows [][]string, names ...string) (map[string]int, error) {
	index := make(map[string]int, len(names))
	for _, name := range names {
		index[name] = -1
	}

	for pos, header := range rows[0] {
		header = strings.TrimSpace(header)
		for _, name := range names {
			if strings.EqualFold(header, name) {
				index[name] = pos
			}
		}
	}

	var err error
	for _, name := range names {
		if index[name] == -1 {
			err = fmt.Errorf("missing required column %q", name)
			break
		}
	}

	return index, err
}

// cell returns the trimmed value at position pos, or "" when the position
// is out of range or marked absent.
func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// parseCoordinate parses a coordinate cell, accepting comma decimal
// separators found in some exports.
func parseCoordinate(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, fmt.Errorf("empty coordinate value")
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate value %q: %w", raw, err)
	}

	return value, nil
}
