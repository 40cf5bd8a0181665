package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "parkingsoft/internal/config"
	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"
	"parkingsoft/internal/repositories"
	"parkingsoft/internal/utils"
)

// PaymentService settles closed-but-unpaid parking records and voids
// settled payments. Payment row and record status always move in the
// same transaction so the pair can never diverge.
type PaymentService struct {
	DB          *sql.DB
	PaymentRepo repositories.PaymentRepository
	RecordRepo  repositories.RecordRepository
	RequestID   string
	Now         func() time.Time
}

func (s PaymentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreatePaymentInput struct {
	RecordID      int64
	Amount        float64
	Method        string
	TransactionID *string
	Notes         string
	ProcessedBy   int64
}

// CreatePayment records a payment against a closed, pending record.
// The amount must equal the stored computed fee exactly (no partial
// payments, no rounding tolerance beyond 2 decimals).
func (s PaymentService) CreatePayment(in CreatePaymentInput) (models.Payment, error) {
	method, err := domain.ParsePaymentMethod(in.Method)
	if err != nil {
		return models.Payment{}, err
	}

	rec, err := s.RecordRepo.GetByID(in.RecordID)
	if err != nil {
		return models.Payment{}, err
	}
	if rec.Open() {
		return models.Payment{}, domain.ConflictError{Resource: "parking record", Msg: "vehicle has not exited yet"}
	}
	if rec.PaymentStatus == domain.PaymentPaid {
		return models.Payment{}, domain.ConflictError{Resource: "parking record", Msg: "record is already paid"}
	}
	if rec.PaymentStatus != domain.PaymentPending {
		return models.Payment{}, domain.ConflictError{Resource: "parking record", Msg: "record fee is waived"}
	}
	if utils.Cents(in.Amount) != utils.Cents(rec.Amount) {
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "does not match the computed fee"}
	}

	payment := models.Payment{
		RecordID:      rec.ID,
		Amount:        rec.Amount,
		Method:        method,
		PaymentDate:   s.now(),
		TransactionID: in.TransactionID,
		ReceiptNumber: utils.NewReceiptNumber("PAY"),
		ProcessedBy:   in.ProcessedBy,
		Notes:         in.Notes,
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Payment{}, domain.Internal("failed to begin payment transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.PaymentRepo.CreateTx(tx, &payment); err != nil {
		return models.Payment{}, err
	}

	marked, err := s.RecordRepo.MarkPaidTx(tx, rec.ID, method, payment.ReceiptNumber)
	if err != nil {
		return models.Payment{}, err
	}
	if !marked {
		// a concurrent payment settled the record first
		return models.Payment{}, domain.ConflictError{Resource: "parking record", Msg: "record is already paid"}
	}

	if err := tx.Commit(); err != nil {
		return models.Payment{}, domain.Internal("failed to commit payment transaction", err)
	}

	utils.LogEvent(s.RequestID, "payment", "create",
		fmt.Sprintf("payment_id=%d record_id=%d receipt=%s", payment.ID, rec.ID, payment.ReceiptNumber))
	return payment, nil
}

// VoidPayment reverses a payment's effect while keeping its audit row.
// The parking record goes back to pending so a new payment can follow.
// A record that no longer exists does not fail the void, only logs.
func (s PaymentService) VoidPayment(paymentID int64, reason string, voidBy int64) (models.Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Payment{}, domain.ValidationError{Field: "reason", Msg: "is required to void a payment"}
	}

	payment, err := s.PaymentRepo.GetByID(paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	if payment.VoidStatus {
		return models.Payment{}, domain.ConflictError{Resource: "payment", Msg: "payment is already voided"}
	}

	when := s.now()

	tx, err := s.db().Begin()
	if err != nil {
		return models.Payment{}, domain.Internal("failed to begin void transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	voided, err := s.PaymentRepo.VoidTx(tx, payment.ID, reason, voidBy, when)
	if err != nil {
		return models.Payment{}, err
	}
	if !voided {
		return models.Payment{}, domain.ConflictError{Resource: "payment", Msg: "payment is already voided"}
	}

	reopened, err := s.RecordRepo.ReopenTx(tx, payment.RecordID)
	if err != nil {
		return models.Payment{}, err
	}
	if !reopened {
		utils.LogEvent(s.RequestID, "payment", "void",
			fmt.Sprintf("payment_id=%d record_id=%d missing, void kept", payment.ID, payment.RecordID))
	}

	if err := tx.Commit(); err != nil {
		return models.Payment{}, domain.Internal("failed to commit void transaction", err)
	}

	payment.VoidStatus = true
	payment.VoidDate = &when
	payment.VoidReason = &reason
	payment.VoidBy = &voidBy

	utils.LogEvent(s.RequestID, "payment", "void",
		fmt.Sprintf("payment_id=%d record_id=%d", payment.ID, payment.RecordID))
	return payment, nil
}
