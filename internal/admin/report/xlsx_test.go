package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"fleet-dispatch/internal/duty/domain"
)

func TestBuildDaywise(t *testing.T) {
	duties := []domain.Duty{
		{
			DriverName:   "Sam Okafor",
			Passenger:    domain.Passenger{Name: "Priya Nair"},
			TourLocation: "Survey Camp 4",
			TourDate:     "2025-06-11",
			TourTime:     "07:30",
			Status:       domain.StatusCompleted,
			OpeningKm:    1200,
			ClosingKm:    1275,
			Kilometers:   75,
			FuelQuantity: 8.5,
			FuelAmount:   680,
		},
	}

	data, err := BuildDaywise(duties)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Daywise Report")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}

	if rows[0][0] != "Date" || rows[0][len(daywiseHeader)-1] != "Fuel Amount" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][1] != "Priya Nair" || rows[1][2] != "Sam Okafor" {
		t.Errorf("unexpected data row: %v", rows[1])
	}
}

func TestBuildDaywiseEmpty(t *testing.T) {
	data, err := BuildDaywise(nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Daywise Report")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
