package repositories

import (
	"database/sql"
	"errors"

	intconfig "parkingsoft/internal/config"
	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlErrDuplicate  = 1062
	mysqlErrRowIsRefed = 1451
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `
	id,
	license_plate,
	type,
	COALESCE(brand,''),
	COALESCE(model,''),
	COALESCE(color,''),
	owner_id`

func scanVehicle(row *sql.Row) (models.Vehicle, error) {
	var v models.Vehicle
	var owner sql.NullInt64
	err := row.Scan(&v.ID, &v.LicensePlate, &v.Type, &v.Brand, &v.Model, &v.Color, &owner)
	if err != nil {
		return models.Vehicle{}, err
	}
	if owner.Valid {
		v.OwnerID = &owner.Int64
	}
	return v, nil
}

func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	row := r.db().QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	if err != nil {
		return models.Vehicle{}, domain.Internal("failed to load vehicle", err)
	}
	return v, nil
}

func (r VehicleRepository) GetByPlate(plate string) (models.Vehicle, error) {
	row := r.db().QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE license_plate = ?`, plate)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	if err != nil {
		return models.Vehicle{}, domain.Internal("failed to load vehicle", err)
	}
	return v, nil
}

// Create inserts a vehicle; a duplicate plate surfaces as Conflict.
func (r VehicleRepository) Create(v *models.Vehicle) error {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (license_plate, type, brand, model, color, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.LicensePlate, v.Type, nullIfEmpty(v.Brand), nullIfEmpty(v.Model), nullIfEmpty(v.Color), v.OwnerID)
	if err != nil {
		if isMySQLError(err, mysqlErrDuplicate) {
			return domain.ConflictError{Resource: "vehicle", Msg: "license plate already registered"}
		}
		return domain.Internal("failed to create vehicle", err)
	}
	v.ID, _ = res.LastInsertId()
	return nil
}

// ResolveByPlate is lookup-or-create, atomic with respect to the unique
// plate constraint: a duplicate-key error on the create path means a
// concurrent request won the insert, so the lookup is retried once.
func (r VehicleRepository) ResolveByPlate(v models.Vehicle) (models.Vehicle, error) {
	existing, err := r.GetByPlate(v.LicensePlate)
	if err == nil {
		return existing, nil
	}
	if !domain.IsNotFound(err) {
		return models.Vehicle{}, err
	}

	if err := r.Create(&v); err != nil {
		if domain.IsConflict(err) {
			return r.GetByPlate(v.LicensePlate)
		}
		return models.Vehicle{}, err
	}
	return v, nil
}

// List returns all vehicles, or only those owned by ownerID when set.
func (r VehicleRepository) List(ownerID *int64) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []any{}
	if ownerID != nil {
		query += ` WHERE owner_id = ?`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY id`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, domain.Internal("failed to list vehicles", err)
	}
	defer rows.Close()
	return collectVehicles(rows)
}

// SearchByPlate matches plates partially, case-insensitive.
func (r VehicleRepository) SearchByPlate(fragment string) ([]models.Vehicle, error) {
	rows, err := r.db().Query(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE license_plate LIKE ?
		ORDER BY license_plate
	`, "%"+fragment+"%")
	if err != nil {
		return nil, domain.Internal("failed to search vehicles", err)
	}
	defer rows.Close()
	return collectVehicles(rows)
}

func (r VehicleRepository) Update(v models.Vehicle) error {
	res, err := r.db().Exec(`
		UPDATE vehicles
		SET license_plate = ?, type = ?, brand = ?, model = ?, color = ?
		WHERE id = ?
	`, v.LicensePlate, v.Type, nullIfEmpty(v.Brand), nullIfEmpty(v.Model), nullIfEmpty(v.Color), v.ID)
	if err != nil {
		if isMySQLError(err, mysqlErrDuplicate) {
			return domain.ConflictError{Resource: "vehicle", Msg: "license plate already registered"}
		}
		return domain.Internal("failed to update vehicle", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// zero rows can also mean an identical update; confirm existence
		if _, err := r.GetByID(v.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete refuses to remove a vehicle still referenced by parking
// records (FK restriction), surfacing it as Conflict.
func (r VehicleRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		if isMySQLError(err, mysqlErrRowIsRefed) {
			return domain.ConflictError{Resource: "vehicle", Msg: "vehicle has parking history and cannot be deleted"}
		}
		return domain.Internal("failed to delete vehicle", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func collectVehicles(rows *sql.Rows) ([]models.Vehicle, error) {
	list := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		var owner sql.NullInt64
		if err := rows.Scan(&v.ID, &v.LicensePlate, &v.Type, &v.Brand, &v.Model, &v.Color, &owner); err != nil {
			return nil, domain.Internal("failed to scan vehicle", err)
		}
		if owner.Valid {
			v.OwnerID = &owner.Int64
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("failed to iterate vehicles", err)
	}
	return list, nil
}

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
