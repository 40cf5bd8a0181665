package models

import "parkingsoft/internal/domain"

// Vehicle is identified by its normalized license plate. Rows are
// created on first sighting at the gate or explicitly by an owner.
type Vehicle struct {
	ID           int64              `json:"id"`
	LicensePlate string             `json:"licensePlate"`
	Type         domain.VehicleType `json:"type"`
	Brand        string             `json:"brand,omitempty"`
	Model        string             `json:"model,omitempty"`
	Color        string             `json:"color,omitempty"`
	OwnerID      *int64             `json:"ownerId,omitempty"`
}
