package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "parkingsoft/internal/config"
	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const paymentColumns = `
	id,
	record_id,
	amount,
	payment_method,
	payment_date,
	transaction_id,
	receipt_number,
	processed_by,
	COALESCE(notes,''),
	void_status,
	void_date,
	void_reason,
	void_by`

func (r PaymentRepository) GetByID(id int64) (models.Payment, error) {
	row := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	if err != nil {
		return models.Payment{}, domain.Internal("failed to load payment", err)
	}
	return p, nil
}

// CreateTx inserts the payment row inside the same transaction that
// marks its parking record paid. A receipt number collision surfaces
// as Conflict so the caller can mint a fresh one and retry.
func (r PaymentRepository) CreateTx(tx *sql.Tx, p *models.Payment) error {
	res, err := tx.Exec(`
		INSERT INTO payments
			(record_id, amount, payment_method, payment_date, transaction_id, receipt_number, processed_by, notes, void_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	`, p.RecordID, p.Amount, p.Method, p.PaymentDate, p.TransactionID, p.ReceiptNumber, p.ProcessedBy, p.Notes)
	if err != nil {
		if isMySQLError(err, mysqlErrDuplicate) {
			return domain.ConflictError{Resource: "receipt", Msg: "receipt number already used"}
		}
		return domain.Internal("failed to create payment", err)
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

// List returns payments, optionally bounded by payment date.
func (r PaymentRepository) List(start, end *time.Time) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	where := ""
	args := []any{}
	if start != nil {
		where = ` WHERE payment_date >= ?`
		args = append(args, *start)
	}
	if end != nil {
		if where == "" {
			where = ` WHERE payment_date <= ?`
		} else {
			where += ` AND payment_date <= ?`
		}
		args = append(args, *end)
	}
	query += where + ` ORDER BY payment_date DESC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, domain.Internal("failed to list payments", err)
	}
	defer rows.Close()

	list := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, domain.Internal("failed to scan payment", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("failed to iterate payments", err)
	}
	return list, nil
}

// VoidTx flips the void flag exactly once; a second void loses the
// void_status = 0 guard and reports Conflict upstream.
func (r PaymentRepository) VoidTx(tx *sql.Tx, id int64, reason string, voidBy int64, when time.Time) (bool, error) {
	res, err := tx.Exec(`
		UPDATE payments
		SET void_status = 1, void_date = ?, void_reason = ?, void_by = ?
		WHERE id = ? AND void_status = 0
	`, when, reason, voidBy, id)
	if err != nil {
		return false, domain.Internal("failed to void payment", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MethodAggregate is one payment method's slice of a report window.
type MethodAggregate struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// AggregateByMethod sums non-voided payments inside [start, end] per
// payment method. Missing methods simply do not appear in the map.
func (r PaymentRepository) AggregateByMethod(start, end time.Time) (map[domain.PaymentMethod]MethodAggregate, error) {
	rows, err := r.db().Query(`
		SELECT payment_method, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE void_status = 0 AND payment_date BETWEEN ? AND ?
		GROUP BY payment_method
	`, start, end)
	if err != nil {
		return nil, domain.Internal("failed to aggregate payments", err)
	}
	defer rows.Close()

	out := map[domain.PaymentMethod]MethodAggregate{}
	for rows.Next() {
		var method domain.PaymentMethod
		var agg MethodAggregate
		if err := rows.Scan(&method, &agg.Count, &agg.Amount); err != nil {
			return nil, domain.Internal("failed to scan aggregate", err)
		}
		out[method] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("failed to iterate aggregates", err)
	}
	return out, nil
}

func scanPayment(scan func(...any) error) (models.Payment, error) {
	var p models.Payment
	var txn, voidReason sql.NullString
	var voidDate sql.NullTime
	var voidBy sql.NullInt64
	err := scan(
		&p.ID,
		&p.RecordID,
		&p.Amount,
		&p.Method,
		&p.PaymentDate,
		&txn,
		&p.ReceiptNumber,
		&p.ProcessedBy,
		&p.Notes,
		&p.VoidStatus,
		&voidDate,
		&voidReason,
		&voidBy,
	)
	if err != nil {
		return models.Payment{}, err
	}
	if txn.Valid {
		p.TransactionID = &txn.String
	}
	if voidDate.Valid {
		p.VoidDate = &voidDate.Time
	}
	if voidReason.Valid {
		p.VoidReason = &voidReason.String
	}
	if voidBy.Valid {
		p.VoidBy = &voidBy.Int64
	}
	return p, nil
}
