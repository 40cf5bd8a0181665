package repositories

import (
	"testing"

	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func vehicleRow(id int64, plate string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "license_plate", "type", "brand", "model", "color", "owner_id"}).
		AddRow(id, plate, "car", "", "", "", nil)
}

func TestResolveByPlateReturnsExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM vehicles WHERE license_plate").WithArgs("ABC 123").
		WillReturnRows(vehicleRow(5, "ABC 123"))

	repo := VehicleRepository{DB: db}
	v, err := repo.ResolveByPlate(models.Vehicle{LicensePlate: "ABC 123", Type: domain.VehicleCar})
	if err != nil {
		t.Fatalf("ResolveByPlate error: %v", err)
	}
	if v.ID != 5 {
		t.Fatalf("got vehicle id %d, want 5", v.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResolveByPlateCreatesOnFirstSighting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM vehicles WHERE license_plate").WithArgs("NEW 1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "license_plate", "type", "brand", "model", "color", "owner_id"}))
	mock.ExpectExec("INSERT INTO vehicles").
		WillReturnResult(sqlmock.NewResult(9, 1))

	repo := VehicleRepository{DB: db}
	v, err := repo.ResolveByPlate(models.Vehicle{LicensePlate: "NEW 1", Type: domain.VehicleCar})
	if err != nil {
		t.Fatalf("ResolveByPlate error: %v", err)
	}
	if v.ID != 9 {
		t.Fatalf("got vehicle id %d, want 9", v.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResolveByPlateRetriesAfterDuplicateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// first lookup misses, insert hits the unique plate constraint,
	// retry lookup finds the row the concurrent writer won with
	mock.ExpectQuery("FROM vehicles WHERE license_plate").WithArgs("ABC 123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "license_plate", "type", "brand", "model", "color", "owner_id"}))
	mock.ExpectExec("INSERT INTO vehicles").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery("FROM vehicles WHERE license_plate").WithArgs("ABC 123").
		WillReturnRows(vehicleRow(5, "ABC 123"))

	repo := VehicleRepository{DB: db}
	v, err := repo.ResolveByPlate(models.Vehicle{LicensePlate: "ABC 123", Type: domain.VehicleCar})
	if err != nil {
		t.Fatalf("ResolveByPlate error: %v", err)
	}
	if v.ID != 5 {
		t.Fatalf("got vehicle id %d, want 5", v.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteVehicleWithHistoryIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM vehicles").WithArgs(int64(5)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "foreign key constraint fails"})

	repo := VehicleRepository{DB: db}
	if err := repo.Delete(5); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteVehicleNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM vehicles").WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := VehicleRepository{DB: db}
	if err := repo.Delete(99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
