package domain

import (
	"errors"
	"testing"
	"time"

	"fleet-dispatch/internal/shared/apperrors"
)

var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func validInput() DispatchInput {
	return DispatchInput{
		DriverID: "d1",
		Passenger: Passenger{
			Name:        "Jamie Rivera",
			Heads:       2,
			Designation: "Manager",
			Department:  "Operation",
			Contact:     "9876543210",
		},
		TourLocation: "Site B",
		TourDate:     "2025-06-11",
		TourTime:     "14:30",
	}
}

func TestValidateDispatchOK(t *testing.T) {
	if err := ValidateDispatch(validInput(), testNow); err != nil {
		t.Fatalf("expected valid input to pass, got %v", err)
	}
}

func TestValidateDispatchCollectsAllViolations(t *testing.T) {
	input := validInput()
	input.Passenger.Name = ""
	input.Passenger.Heads = 0
	input.Passenger.Contact = "12345"
	input.TourLocation = ""

	err := ValidateDispatch(input, testNow)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Fields) != 4 {
		t.Fatalf("expected all 4 violations reported, got %d: %v", len(ve.Fields), ve.Fields)
	}
}

func TestValidateDispatchFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DispatchInput)
	}{
		{"missing driver", func(in *DispatchInput) { in.DriverID = "" }},
		{"zero heads", func(in *DispatchInput) { in.Passenger.Heads = 0 }},
		{"unknown designation", func(in *DispatchInput) { in.Passenger.Designation = "Intern" }},
		{"unknown department", func(in *DispatchInput) { in.Passenger.Department = "Logistics" }},
		{"short contact", func(in *DispatchInput) { in.Passenger.Contact = "123" }},
		{"alpha contact", func(in *DispatchInput) { in.Passenger.Contact = "98765abc10" }},
		{"blank location", func(in *DispatchInput) { in.TourLocation = "   " }},
		{"missing date", func(in *DispatchInput) { in.TourDate = "" }},
		{"missing time", func(in *DispatchInput) { in.TourTime = "" }},
		{"malformed date", func(in *DispatchInput) { in.TourDate = "11-06-2025" }},
		{"past schedule", func(in *DispatchInput) { in.TourDate, in.TourTime = "2025-06-09", "08:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			err := ValidateDispatch(input, testNow)
			var ve *apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
		})
	}
}

func TestValidateDispatchScheduleBoundary(t *testing.T) {
	input := validInput()
	input.TourDate = "2025-06-10"
	input.TourTime = "09:00"

	// Exactly now is not in the past.
	if err := ValidateDispatch(input, testNow); err != nil {
		t.Fatalf("schedule equal to now should pass, got %v", err)
	}

	input.TourTime = "08:59"
	if err := ValidateDispatch(input, testNow); err == nil {
		t.Fatal("schedule one minute in the past should fail")
	}
}
