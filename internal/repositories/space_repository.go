package repositories

import (
	"database/sql"
	"errors"

	intconfig "parkingsoft/internal/config"
	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"
)

type SpaceRepository struct {
	DB *sql.DB
}

func (r SpaceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const spaceColumns = `
	id,
	number,
	floor,
	type,
	status,
	current_vehicle_id,
	hourly_rate`

func (r SpaceRepository) GetByID(id int64) (models.ParkingSpace, error) {
	row := r.db().QueryRow(`SELECT `+spaceColumns+` FROM parking_spaces WHERE id = ?`, id)
	return scanSpaceRow(row)
}

func scanSpaceRow(row *sql.Row) (models.ParkingSpace, error) {
	var s models.ParkingSpace
	var current sql.NullInt64
	err := row.Scan(&s.ID, &s.Number, &s.Floor, &s.Type, &s.Status, &current, &s.HourlyRate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ParkingSpace{}, domain.NotFoundError{Resource: "parking space"}
	}
	if err != nil {
		return models.ParkingSpace{}, domain.Internal("failed to load parking space", err)
	}
	if current.Valid {
		s.CurrentVehicleID = &current.Int64
	}
	return s, nil
}

func (r SpaceRepository) List() ([]models.ParkingSpace, error) {
	rows, err := r.db().Query(`SELECT ` + spaceColumns + ` FROM parking_spaces ORDER BY number`)
	if err != nil {
		return nil, domain.Internal("failed to list parking spaces", err)
	}
	defer rows.Close()

	list := []models.ParkingSpace{}
	for rows.Next() {
		var s models.ParkingSpace
		var current sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Number, &s.Floor, &s.Type, &s.Status, &current, &s.HourlyRate); err != nil {
			return nil, domain.Internal("failed to scan parking space", err)
		}
		if current.Valid {
			s.CurrentVehicleID = &current.Int64
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("failed to iterate parking spaces", err)
	}
	return list, nil
}

// Create inserts a space; a duplicate number surfaces as Conflict.
func (r SpaceRepository) Create(s *models.ParkingSpace) error {
	res, err := r.db().Exec(`
		INSERT INTO parking_spaces (number, floor, type, status, hourly_rate)
		VALUES (?, ?, ?, ?, ?)
	`, s.Number, s.Floor, s.Type, s.Status, s.HourlyRate)
	if err != nil {
		if isMySQLError(err, mysqlErrDuplicate) {
			return domain.ConflictError{Resource: "parking space", Msg: "space number already exists"}
		}
		return domain.Internal("failed to create parking space", err)
	}
	s.ID, _ = res.LastInsertId()
	return nil
}

// UpdateSettings changes the maintenance-level attributes of a space.
// The WHERE guard refuses to touch an occupied space so manual edits
// can never race an active stay.
func (r SpaceRepository) UpdateSettings(id int64, spaceType domain.SpaceType, status domain.SpaceStatus, hourlyRate float64) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE parking_spaces
		SET type = ?, status = ?, hourly_rate = ?
		WHERE id = ? AND status <> 'occupied'
	`, spaceType, status, hourlyRate, id)
	if err != nil {
		return false, domain.Internal("failed to update parking space", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// OccupyTx is the entry-side compare-and-swap: the space transitions
// available -> occupied only if it is still available at write time.
// Exactly one of two concurrent entries can see rows affected.
func (r SpaceRepository) OccupyTx(tx *sql.Tx, spaceID, vehicleID int64) (bool, error) {
	res, err := tx.Exec(`
		UPDATE parking_spaces
		SET status = 'occupied', current_vehicle_id = ?
		WHERE id = ? AND status = 'available'
	`, vehicleID, spaceID)
	if err != nil {
		return false, domain.Internal("failed to occupy parking space", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ReleaseTx frees the space on exit, inside the same transaction that
// closes the parking record.
func (r SpaceRepository) ReleaseTx(tx *sql.Tx, spaceID int64) error {
	_, err := tx.Exec(`
		UPDATE parking_spaces
		SET status = 'available', current_vehicle_id = NULL
		WHERE id = ?
	`, spaceID)
	if err != nil {
		return domain.Internal("failed to release parking space", err)
	}
	return nil
}
