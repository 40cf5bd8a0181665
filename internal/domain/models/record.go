package models

import (
	"time"

	"parkingsoft/internal/domain"
)

// ParkingRecord is one vehicle's stay in one space. ExitTime is set
// exactly once; Duration (whole minutes) and Amount are written
// together with it and never recomputed. PaymentStatus may bounce
// between pending and paid (payment/void) without reopening the stay.
type ParkingRecord struct {
	ID            int64                `json:"id"`
	VehicleID     int64                `json:"vehicleId"`
	SpaceID       int64                `json:"parkingSpaceId"`
	EntryTime     time.Time            `json:"entryTime"`
	ExitTime      *time.Time           `json:"exitTime"`
	Duration      int                  `json:"duration"`
	Amount        float64              `json:"amount"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	ReceiptNumber *string              `json:"receiptNumber"`
}

// Open reports whether the vehicle is still parked.
func (r ParkingRecord) Open() bool { return r.ExitTime == nil }
