package api

import "fleet-dispatch/internal/duty/domain"

type startDutyRequest struct {
	OpeningKm float64 `json:"opening_km"`
	Version   int64   `json:"version"`
}

type completeDutyRequest struct {
	ClosingKm    float64 `json:"closing_km"`
	FuelQuantity float64 `json:"fuel_quantity"`
	FuelAmount   float64 `json:"fuel_amount"`
	Version      int64   `json:"version"`
}

type dispatchResponse struct {
	TaskID   string        `json:"task_id"`
	DriverID string        `json:"driver_id"`
	Status   domain.Status `json:"status"`
	Message  string        `json:"message"`
}

type listDutiesResponse struct {
	Duties []domain.Duty `json:"duties"`
	Count  int           `json:"count"`
}
