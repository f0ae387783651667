package util

import (
	"encoding/json"
	"net/http"

	"fleet-dispatch/internal/shared/apperrors"
)

func ResponseInJson(w http.ResponseWriter, statusCode int, object interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(object)
}

func WriteJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ErrResponseInJson maps the shared error taxonomy to an HTTP status and
// writes the error body. Validation errors additionally carry the full
// violated-field list.
func ErrResponseInJson(w http.ResponseWriter, err error) {
	statusCode := apperrors.CheckError(err)

	body := map[string]interface{}{"error": err.Error()}
	if ve, ok := err.(*apperrors.ValidationError); ok {
		body["fields"] = ve.Fields
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
