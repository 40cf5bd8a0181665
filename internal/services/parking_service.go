package services

import (
	"database/sql"
	"fmt"
	"time"

	intconfig "parkingsoft/internal/config"
	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"
	"parkingsoft/internal/repositories"
	"parkingsoft/internal/utils"
)

// defaultHourlyRate applies when a space has no usable rate at exit.
const defaultHourlyRate = 5.00

// ParkingService owns the stay lifecycle: vehicle entry opens a record
// and occupies a space, vehicle exit closes the record, bills it and
// releases the space. Each direction is a single DB transaction.
type ParkingService struct {
	DB          *sql.DB
	SpaceRepo   repositories.SpaceRepository
	VehicleRepo repositories.VehicleRepository
	RecordRepo  repositories.RecordRepository
	RequestID   string
	Now         func() time.Time
}

func (s ParkingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ParkingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type EntryInput struct {
	SpaceID      int64
	LicensePlate string
	VehicleType  string
	Brand        string
	Model        string
	Color        string
	OwnerID      *int64
}

type EntryResult struct {
	Record  models.ParkingRecord `json:"parkingRecord"`
	Vehicle models.Vehicle       `json:"vehicle"`
	Space   models.ParkingSpace  `json:"parkingSpace"`
}

// StartSession registers a vehicle entering a space. The vehicle is
// resolved (or first-sighted) by plate; the space occupy CAS and the
// record insert commit together or not at all.
func (s ParkingService) StartSession(in EntryInput) (EntryResult, error) {
	plate := domain.NormalizePlate(in.LicensePlate)
	if plate == "" {
		return EntryResult{}, domain.ValidationError{Field: "licensePlate", Msg: "is required"}
	}
	vehicleType, err := domain.ParseVehicleType(in.VehicleType)
	if err != nil {
		return EntryResult{}, err
	}

	space, err := s.SpaceRepo.GetByID(in.SpaceID)
	if err != nil {
		return EntryResult{}, err
	}
	if space.Status != domain.SpaceAvailable {
		return EntryResult{}, domain.ConflictError{Resource: "parking space", Msg: "space is not available"}
	}

	vehicle, err := s.VehicleRepo.ResolveByPlate(models.Vehicle{
		LicensePlate: plate,
		Type:         vehicleType,
		Brand:        in.Brand,
		Model:        in.Model,
		Color:        in.Color,
		OwnerID:      in.OwnerID,
	})
	if err != nil {
		return EntryResult{}, err
	}

	tx, err := s.db().Begin()
	if err != nil {
		return EntryResult{}, domain.Internal("failed to begin entry transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	occupied, err := s.SpaceRepo.OccupyTx(tx, space.ID, vehicle.ID)
	if err != nil {
		return EntryResult{}, err
	}
	if !occupied {
		// lost the race against a concurrent entry
		return EntryResult{}, domain.ConflictError{Resource: "parking space", Msg: "space is not available"}
	}

	entryTime := s.now()
	recordID, err := s.RecordRepo.CreateTx(tx, vehicle.ID, space.ID, entryTime)
	if err != nil {
		return EntryResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return EntryResult{}, domain.Internal("failed to commit entry transaction", err)
	}

	utils.LogEvent(s.RequestID, "parking", "entry",
		fmt.Sprintf("record_id=%d space_id=%d plate=%s", recordID, space.ID, plate))

	space.Status = domain.SpaceOccupied
	space.CurrentVehicleID = &vehicle.ID
	return EntryResult{
		Record: models.ParkingRecord{
			ID:            recordID,
			VehicleID:     vehicle.ID,
			SpaceID:       space.ID,
			EntryTime:     entryTime,
			PaymentStatus: domain.PaymentPending,
			PaymentMethod: domain.MethodNone,
		},
		Vehicle: vehicle,
		Space:   space,
	}, nil
}

// EndSession closes an open record: sets the exit time, derives
// duration and fee, optionally settles inline, and releases the space.
// The close CAS and the release commit as one unit; a second exit for
// the same record is rejected with Conflict and changes nothing.
func (s ParkingService) EndSession(recordID int64, paymentMethod string) (models.ParkingRecord, error) {
	rec, err := s.RecordRepo.GetByID(recordID)
	if err != nil {
		return models.ParkingRecord{}, err
	}
	if !rec.Open() {
		return models.ParkingRecord{}, domain.ConflictError{Resource: "parking record", Msg: "vehicle has already exited"}
	}

	var method domain.PaymentMethod
	if paymentMethod != "" {
		if method, err = domain.ParsePaymentMethod(paymentMethod); err != nil {
			return models.ParkingRecord{}, err
		}
	}

	rate := 0.0
	space, err := s.SpaceRepo.GetByID(rec.SpaceID)
	switch {
	case err == nil:
		rate = space.HourlyRate
	case domain.IsNotFound(err):
		// space deleted under an open stay: fall through to default rate
	default:
		return models.ParkingRecord{}, err
	}

	exitTime := s.now()
	duration, amount := ComputeFee(rec.EntryTime, exitTime, rate)

	tx, err := s.db().Begin()
	if err != nil {
		return models.ParkingRecord{}, domain.Internal("failed to begin exit transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	closed, err := s.RecordRepo.CloseTx(tx, rec.ID, exitTime, duration, amount)
	if err != nil {
		return models.ParkingRecord{}, err
	}
	if !closed {
		return models.ParkingRecord{}, domain.ConflictError{Resource: "parking record", Msg: "vehicle has already exited"}
	}

	rec.ExitTime = &exitTime
	rec.Duration = duration
	rec.Amount = amount

	if method != "" {
		receipt := utils.NewReceiptNumber("R")
		if _, err := s.RecordRepo.MarkPaidTx(tx, rec.ID, method, receipt); err != nil {
			return models.ParkingRecord{}, err
		}
		rec.PaymentStatus = domain.PaymentPaid
		rec.PaymentMethod = method
		rec.ReceiptNumber = &receipt
	}

	if err := s.SpaceRepo.ReleaseTx(tx, rec.SpaceID); err != nil {
		return models.ParkingRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.ParkingRecord{}, domain.Internal("failed to commit exit transaction", err)
	}

	utils.LogEvent(s.RequestID, "parking", "exit",
		fmt.Sprintf("record_id=%d duration_min=%d amount=%s", rec.ID, duration, utils.FormatMoney(amount)))
	return rec, nil
}

// ComputeFee derives the billed duration and amount for a stay:
// duration is elapsed time in whole minutes rounded up, billed hours
// round the minutes up to the next hour, and the amount is billed
// hours times the hourly rate, to 2 decimals half-up. A zero or
// negative rate falls back to the default rate.
func ComputeFee(entry, exit time.Time, hourlyRate float64) (int, float64) {
	duration := utils.CeilMinutes(exit.Sub(entry))
	billedHours := (duration + 59) / 60
	if hourlyRate <= 0 {
		hourlyRate = defaultHourlyRate
	}
	return duration, utils.Round2(float64(billedHours) * hourlyRate)
}
