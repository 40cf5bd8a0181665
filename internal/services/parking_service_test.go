package services

import (
	"testing"
	"time"

	"parkingsoft/internal/domain"
	"parkingsoft/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestComputeFee(t *testing.T) {
	entry := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)

	cases := []struct {
		name         string
		elapsed      time.Duration
		rate         float64
		wantDuration int
		wantAmount   float64
	}{
		{"one second bills one hour", time.Second, 5.00, 1, 5.00},
		{"exactly one hour", time.Hour, 5.00, 60, 5.00},
		{"one minute past the hour", 61 * time.Minute, 5.00, 61, 10.00},
		{"two full hours", 2 * time.Hour, 2.50, 120, 5.00},
		{"zero elapsed bills nothing", 0, 5.00, 0, 0},
		{"clock skew bills nothing", -time.Minute, 5.00, 0, 0},
		{"zero rate falls back to default", time.Minute, 0, 1, 5.00},
		{"negative rate falls back to default", time.Minute, -3, 1, 5.00},
		{"fractional rate rounds to cents", 90 * time.Minute, 3.333, 90, 6.67},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			duration, amount := ComputeFee(entry, entry.Add(c.elapsed), c.rate)
			assert.Equal(t, c.wantDuration, duration)
			assert.Equal(t, c.wantAmount, amount)
		})
	}
}

func spaceRows(id int64, status string, rate float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "number", "floor", "type", "status", "current_vehicle_id", "hourly_rate"}).
		AddRow(id, "A-01", "1", "standard", status, nil, rate)
}

func vehicleRows(id int64, plate string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "license_plate", "type", "brand", "model", "color", "owner_id"}).
		AddRow(id, plate, "car", "", "", "", nil)
}

func recordRows(id int64, entry time.Time, exit any, duration int, amount float64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "vehicle_id", "space_id", "entry_time", "exit_time", "duration", "amount", "payment_status", "payment_method", "receipt_number"}).
		AddRow(id, 1, 2, entry, exit, duration, amount, status, "none", nil)
}

func newParkingService(t *testing.T) (ParkingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := ParkingService{
		DB:          db,
		SpaceRepo:   repositories.SpaceRepository{DB: db},
		VehicleRepo: repositories.VehicleRepository{DB: db},
		RecordRepo:  repositories.RecordRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func TestStartSessionRejectsUnavailableSpace(t *testing.T) {
	svc, mock, done := newParkingService(t)
	defer done()

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(int64(2)).
		WillReturnRows(spaceRows(2, "occupied", 5.00))

	_, err := svc.StartSession(EntryInput{SpaceID: 2, LicensePlate: "abc 123"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStartSessionLosesOccupyRace(t *testing.T) {
	svc, mock, done := newParkingService(t)
	defer done()

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(int64(2)).
		WillReturnRows(spaceRows(2, "available", 5.00))
	mock.ExpectQuery("FROM vehicles WHERE license_plate").WithArgs("ABC 123").
		WillReturnRows(vehicleRows(1, "ABC 123"))
	mock.ExpectBegin()
	mock.ExpectExec("SET status = 'occupied'").WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.StartSession(EntryInput{SpaceID: 2, LicensePlate: "abc 123"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStartSessionOpensRecordAndOccupiesSpace(t *testing.T) {
	svc, mock, done := newParkingService(t)
	defer done()

	entry := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	svc.Now = func() time.Time { return entry }

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(int64(2)).
		WillReturnRows(spaceRows(2, "available", 5.00))
	mock.ExpectQuery("FROM vehicles WHERE license_plate").WithArgs("ABC 123").
		WillReturnRows(vehicleRows(1, "ABC 123"))
	mock.ExpectBegin()
	mock.ExpectExec("SET status = 'occupied'").WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO parking_records").WithArgs(int64(1), int64(2), entry).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	res, err := svc.StartSession(EntryInput{SpaceID: 2, LicensePlate: " abc  123 "})
	if err != nil {
		t.Fatalf("StartSession error: %v", err)
	}
	if res.Record.ID != 42 || res.Record.VehicleID != 1 || res.Record.SpaceID != 2 {
		t.Fatalf("unexpected record: %+v", res.Record)
	}
	if res.Record.ExitTime != nil {
		t.Fatalf("new record must be open")
	}
	if res.Space.Status != domain.SpaceOccupied || res.Space.CurrentVehicleID == nil {
		t.Fatalf("space not reported occupied: %+v", res.Space)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEndSessionRejectsClosedRecord(t *testing.T) {
	svc, mock, done := newParkingService(t)
	defer done()

	entry := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	exit := entry.Add(time.Hour)
	mock.ExpectQuery("FROM parking_records WHERE id").WithArgs(int64(42)).
		WillReturnRows(recordRows(42, entry, exit, 60, 5.00, "pending"))

	_, err := svc.EndSession(42, "")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEndSessionClosesBillsAndReleases(t *testing.T) {
	svc, mock, done := newParkingService(t)
	defer done()

	entry := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	exit := entry.Add(61 * time.Minute)
	svc.Now = func() time.Time { return exit }

	mock.ExpectQuery("FROM parking_records WHERE id").WithArgs(int64(42)).
		WillReturnRows(recordRows(42, entry, nil, 0, 0, "pending"))
	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(int64(2)).
		WillReturnRows(spaceRows(2, "occupied", 5.00))
	mock.ExpectBegin()
	mock.ExpectExec("SET exit_time").WithArgs(exit, 61, 10.00, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SET status = 'available'").WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := svc.EndSession(42, "")
	if err != nil {
		t.Fatalf("EndSession error: %v", err)
	}
	assert.Equal(t, 61, rec.Duration)
	assert.Equal(t, 10.00, rec.Amount)
	assert.NotNil(t, rec.ExitTime)
	assert.Equal(t, domain.PaymentPending, rec.PaymentStatus)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEndSessionInlineSettlement(t *testing.T) {
	svc, mock, done := newParkingService(t)
	defer done()

	entry := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	exit := entry.Add(30 * time.Minute)
	svc.Now = func() time.Time { return exit }

	mock.ExpectQuery("FROM parking_records WHERE id").WithArgs(int64(42)).
		WillReturnRows(recordRows(42, entry, nil, 0, 0, "pending"))
	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(int64(2)).
		WillReturnRows(spaceRows(2, "occupied", 5.00))
	mock.ExpectBegin()
	mock.ExpectExec("SET exit_time").WithArgs(exit, 30, 5.00, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SET payment_status = 'paid'").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SET status = 'available'").WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := svc.EndSession(42, "cash")
	if err != nil {
		t.Fatalf("EndSession error: %v", err)
	}
	assert.Equal(t, domain.PaymentPaid, rec.PaymentStatus)
	assert.Equal(t, domain.MethodCash, rec.PaymentMethod)
	if rec.ReceiptNumber == nil || *rec.ReceiptNumber == "" {
		t.Fatalf("inline settlement must mint a receipt")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEndSessionDoubleExitLosesCloseRace(t *testing.T) {
	svc, mock, done := newParkingService(t)
	defer done()

	entry := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	mock.ExpectQuery("FROM parking_records WHERE id").WithArgs(int64(42)).
		WillReturnRows(recordRows(42, entry, nil, 0, 0, "pending"))
	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(int64(2)).
		WillReturnRows(spaceRows(2, "occupied", 5.00))
	mock.ExpectBegin()
	mock.ExpectExec("SET exit_time").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.EndSession(42, "")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
