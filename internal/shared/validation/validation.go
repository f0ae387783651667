package validation

import (
	"errors"
	"regexp"
)

var (
	uuidRegex    = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)
	contactRegex = regexp.MustCompile(`^\d{10}$`)
)

// ValidateUUID validates that a string is a valid UUID.
func ValidateUUID(id string) error {
	if !uuidRegex.MatchString(id) {
		return errors.New("invalid UUID format")
	}
	return nil
}

// ValidContact reports whether s is a 10-digit contact number.
func ValidContact(s string) bool {
	return contactRegex.MatchString(s)
}

// ValidateCoordinates validates latitude and longitude values.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}
