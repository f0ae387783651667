package domain

import (
	"strings"
	"time"

	"fleet-dispatch/internal/shared/apperrors"
	"fleet-dispatch/internal/shared/validation"
)

// ValidateDispatch checks every dispatch precondition and reports all
// violations together, not just the first encountered.
func ValidateDispatch(input DispatchInput, now time.Time) error {
	var fields []string

	if input.DriverID == "" {
		fields = append(fields, "driver")
	}
	if strings.TrimSpace(input.Passenger.Name) == "" {
		fields = append(fields, "passenger name")
	}
	if input.Passenger.Heads < 1 {
		fields = append(fields, "number of heads (>=1)")
	}
	if !validDesignation(input.Passenger.Designation) {
		fields = append(fields, "designation")
	}
	if !validDepartment(input.Passenger.Department) {
		fields = append(fields, "department")
	}
	if !validation.ValidContact(input.Passenger.Contact) {
		fields = append(fields, "contact (10 digits)")
	}
	if strings.TrimSpace(input.TourLocation) == "" {
		fields = append(fields, "tour location")
	}
	if input.TourDate == "" {
		fields = append(fields, "tour date")
	}
	if input.TourTime == "" {
		fields = append(fields, "tour time")
	}

	if input.TourDate != "" && input.TourTime != "" {
		schedule, err := time.ParseInLocation("2006-01-02 15:04", input.TourDate+" "+input.TourTime, now.Location())
		if err != nil {
			fields = append(fields, "schedule format")
		} else if schedule.Before(now) {
			fields = append(fields, "schedule must not be in the past")
		}
	}

	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}
