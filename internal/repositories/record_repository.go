package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "parkingsoft/internal/config"
	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"
)

type RecordRepository struct {
	DB *sql.DB
}

func (r RecordRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const recordColumns = `
	id,
	vehicle_id,
	space_id,
	entry_time,
	exit_time,
	duration,
	amount,
	payment_status,
	payment_method,
	receipt_number`

func (r RecordRepository) GetByID(id int64) (models.ParkingRecord, error) {
	row := r.db().QueryRow(`SELECT `+recordColumns+` FROM parking_records WHERE id = ?`, id)

	var rec models.ParkingRecord
	var exit sql.NullTime
	var receipt sql.NullString
	err := row.Scan(
		&rec.ID,
		&rec.VehicleID,
		&rec.SpaceID,
		&rec.EntryTime,
		&exit,
		&rec.Duration,
		&rec.Amount,
		&rec.PaymentStatus,
		&rec.PaymentMethod,
		&receipt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ParkingRecord{}, domain.NotFoundError{Resource: "parking record"}
	}
	if err != nil {
		return models.ParkingRecord{}, domain.Internal("failed to load parking record", err)
	}
	if exit.Valid {
		rec.ExitTime = &exit.Time
	}
	if receipt.Valid {
		rec.ReceiptNumber = &receipt.String
	}
	return rec, nil
}

// CreateTx opens a record inside the entry transaction, paired with the
// space occupy CAS so a crash cannot leave one without the other.
func (r RecordRepository) CreateTx(tx *sql.Tx, vehicleID, spaceID int64, entry time.Time) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO parking_records
			(vehicle_id, space_id, entry_time, exit_time, duration, amount, payment_status, payment_method, receipt_number)
		VALUES (?, ?, ?, NULL, 0, 0, 'pending', 'none', NULL)
	`, vehicleID, spaceID, entry)
	if err != nil {
		return 0, domain.Internal("failed to create parking record", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// CloseTx writes exit time, duration and amount exactly once. The
// exit_time IS NULL guard makes a double exit lose the race instead of
// overwriting the first close.
func (r RecordRepository) CloseTx(tx *sql.Tx, id int64, exit time.Time, duration int, amount float64) (bool, error) {
	res, err := tx.Exec(`
		UPDATE parking_records
		SET exit_time = ?, duration = ?, amount = ?
		WHERE id = ? AND exit_time IS NULL
	`, exit, duration, amount, id)
	if err != nil {
		return false, domain.Internal("failed to close parking record", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkPaidTx flips pending -> paid; the guard keeps a second payment
// from racing the first.
func (r RecordRepository) MarkPaidTx(tx *sql.Tx, id int64, method domain.PaymentMethod, receipt string) (bool, error) {
	res, err := tx.Exec(`
		UPDATE parking_records
		SET payment_status = 'paid', payment_method = ?, receipt_number = ?
		WHERE id = ? AND payment_status = 'pending'
	`, method, receipt, id)
	if err != nil {
		return false, domain.Internal("failed to mark parking record paid", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ReopenTx reverts a record to pending after its payment is voided.
// Exit time, duration and amount are deliberately untouched.
func (r RecordRepository) ReopenTx(tx *sql.Tx, id int64) (bool, error) {
	res, err := tx.Exec(`
		UPDATE parking_records
		SET payment_status = 'pending', payment_method = 'none', receipt_number = NULL
		WHERE id = ?
	`, id)
	if err != nil {
		return false, domain.Internal("failed to reopen parking record", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
