package models

import "parkingsoft/internal/domain"

// ParkingSpace invariant: CurrentVehicleID != nil exactly when
// Status == occupied. Only entry/exit mutate those two fields.
type ParkingSpace struct {
	ID               int64              `json:"id"`
	Number           string             `json:"number"`
	Floor            string             `json:"floor"`
	Type             domain.SpaceType   `json:"type"`
	Status           domain.SpaceStatus `json:"status"`
	CurrentVehicleID *int64             `json:"currentVehicleId,omitempty"`
	HourlyRate       float64            `json:"hourlyRate"`
}
