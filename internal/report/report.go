// Package report renders proximity evaluation results to CSV or Excel
// files. Distances are reported in meters.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/antennaproject/proximity/internal/models"
	"github.com/xuri/excelize/v2"
)

// resultSheet is the sheet name used in Excel output.
const resultSheet = "Results"

var header = []string{
	"parcel_id", "parcel_lat", "parcel_lon",
	"antenna_support", "antenna_operator", "antenna_lat", "antenna_lon",
	"distance_m", "within_threshold",
}

// WriteCSV writes one row per result to the given path, preserving result
// order. The file is created or truncated.
func WriteCSV(path string, results []models.ProximityResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	if err = writer.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, result := range results {
		if err = writer.Write(csvRow(result)); err != nil {
			return fmt.Errorf("failed to write report row for parcel %q: %w", result.Parcel.ID, err)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	return nil
}

func csvRow(result models.ProximityResult) []string {
	location := result.Parcel.Location

	return []string{
		result.Parcel.ID,
		formatCoord(location.Latitude),
		formatCoord(location.Longitude),
		result.Antenna.SupportID,
		result.Antenna.Operator,
		formatCoord(result.Antenna.Location.Latitude),
		formatCoord(result.Antenna.Location.Longitude),
		strconv.FormatFloat(result.DistanceMeters, 'f', 2, 64),
		strconv.FormatBool(result.WithinThreshold),
	}
}

func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// WriteXLSX writes results as an Excel workbook using a stream writer, one
// row per result on the Results sheet.
func WriteXLSX(path string, results []models.ProximityResult) error {
	file := excelize.NewFile()
	index, err := file.NewSheet(resultSheet)
	if err != nil {
		return fmt.Errorf("failed to create result sheet: %w", err)
	}

	stream, err := file.NewStreamWriter(resultSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headerRow := make([]interface{}, len(header))
	for i, name := range header {
		headerRow[i] = name
	}
	if err = stream.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, result := range results {
		location := result.Parcel.Location
		cellName, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			result.Parcel.ID,
			location.Latitude,
			location.Longitude,
			result.Antenna.SupportID,
			result.Antenna.Operator,
			result.Antenna.Location.Latitude,
			result.Antenna.Location.Longitude,
			result.DistanceMeters,
			result.WithinThreshold,
		}
		if err = stream.SetRow(cellName, row); err != nil {
			return fmt.Errorf("failed to write row for parcel %q: %w", result.Parcel.ID, err)
		}
	}

	if err = stream.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream writer: %w", err)
	}

	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	if err = file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
