package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"fleet-dispatch/internal/duty/domain"
)

var daywiseHeader = []string{
	"Date", "Passenger Name", "Driver", "Location", "Time",
	"Status", "Opening KM", "Closing KM", "Total KM", "Fuel (L)", "Fuel Amount",
}

// BuildDaywise renders the duty rows into a single-sheet workbook, one
// row per duty in the order given.
func BuildDaywise(duties []domain.Duty) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Daywise Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range daywiseHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, d := range duties {
		row := []interface{}{
			d.TourDate,
			d.Passenger.Name,
			d.DriverName,
			d.TourLocation,
			d.TourTime,
			string(d.Status),
			d.OpeningKm,
			d.ClosingKm,
			d.Kilometers,
			d.FuelQuantity,
			d.FuelAmount,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
