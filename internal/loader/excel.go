package loader

import (
	"fmt"

	"github.com/antennaproject/proximity/internal/models"
	"github.com/xuri/excelize/v2"
)

// defaultParcelSheet is the sheet read when none is specified.
const defaultParcelSheet = "Parcels"

// LoadParcelsXLSX reads parcels from an Excel workbook sheet. The first row
// must be a header carrying the same column names as the CSV layout; row
// handling (optional coordinates, geocodable address fallback) is identical.
func (l *Loader) LoadParcelsXLSX(path, sheet string) ([]models.Parcel, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer file.Close()

	if sheet == "" {
		sheet = defaultParcelSheet
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q from %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q in %s is empty", sheet, path)
	}

	cols, err := columnIndex(rows, colParcelID)
	if err != nil {
		return nil, fmt.Errorf("sheet %q in %s: %w", sheet, path, err)
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

	l.log.Info("Parcel workbook loaded", "path", path, "sheet", sheet, "parcels", len(parcels), "dropped", dropped)

	return parcels, nil
}
