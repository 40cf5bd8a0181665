package domain

import "strings"

// Enumerations below are the canonical closed sets for every
// status/type field. Anything outside them is rejected at the model
// boundary with a ValidationError; free-form strings never reach
// storage.

type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleTruck      VehicleType = "truck"
)

// ParseVehicleType normalizes and validates a vehicle type. Empty input
// defaults to car, matching first-sighting registration at the gate.
func ParseVehicleType(s string) (VehicleType, error) {
	v := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case "":
		return VehicleCar, nil
	case VehicleCar, VehicleMotorcycle, VehicleTruck:
		return v, nil
	default:
		return "", ValidationError{Field: "vehicleType", Msg: "must be one of car, motorcycle, truck"}
	}
}

type SpaceType string

const (
	SpaceStandard    SpaceType = "standard"
	SpaceHandicapped SpaceType = "handicapped"
	SpaceReservedTyp SpaceType = "reserved"
	SpaceElectric    SpaceType = "electric"
)

func ParseSpaceType(s string) (SpaceType, error) {
	v := SpaceType(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case "":
		return SpaceStandard, nil
	case SpaceStandard, SpaceHandicapped, SpaceReservedTyp, SpaceElectric:
		return v, nil
	default:
		return "", ValidationError{Field: "type", Msg: "must be one of standard, handicapped, reserved, electric"}
	}
}

type SpaceStatus string

const (
	SpaceAvailable   SpaceStatus = "available"
	SpaceOccupied    SpaceStatus = "occupied"
	SpaceMaintenance SpaceStatus = "maintenance"
	SpaceReserved    SpaceStatus = "reserved"
)

func ParseSpaceStatus(s string) (SpaceStatus, error) {
	v := SpaceStatus(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case SpaceAvailable, SpaceOccupied, SpaceMaintenance, SpaceReserved:
		return v, nil
	default:
		return "", ValidationError{Field: "status", Msg: "must be one of available, occupied, maintenance, reserved"}
	}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentWaived  PaymentStatus = "waived"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodCard PaymentMethod = "card"
	MethodApp  PaymentMethod = "app"
	MethodNone PaymentMethod = "none"
)

// ParsePaymentMethod accepts only methods a payment can be made with;
// "none" is the record default and is not accepted from callers.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	v := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case MethodCash, MethodCard, MethodApp:
		return v, nil
	default:
		return "", ValidationError{Field: "paymentMethod", Msg: "must be one of cash, card, app"}
	}
}

// NormalizePlate is the single place license plates get canonicalized:
// trimmed, inner whitespace collapsed, uppercased.
func NormalizePlate(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// Role values carried in JWT claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
