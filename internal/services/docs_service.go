package services

import (
	"bytes"
	"fmt"
	"time"

	"parkingsoft/internal/domain"
	"parkingsoft/internal/repositories"
	"parkingsoft/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders a printable PDF receipt for a payment.
type DocsService struct {
	PaymentRepo repositories.PaymentRepository
	RecordRepo  repositories.RecordRepository
	VehicleRepo repositories.VehicleRepository
	SpaceRepo   repositories.SpaceRepository
	RequestID   string
	Loader      func(int64) (receiptDocData, error)
}

type receiptDocData struct {
	ReceiptNumber string
	PaymentDate   time.Time
	Amount        float64
	Method        domain.PaymentMethod
	Voided        bool
	LicensePlate  string
	SpaceNumber   string
	Floor         string
	EntryTime     time.Time
	ExitTime      *time.Time
	Duration      int
}

func (s DocsService) GenerateReceipt(paymentID int64) ([]byte, string, error) {
	data, err := s.loadReceiptData(paymentID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("payment_id=%d", paymentID))
	return buildReceiptPDF(data)
}

func (s DocsService) loadReceiptData(paymentID int64) (receiptDocData, error) {
	if s.Loader != nil {
		return s.Loader(paymentID)
	}

	payment, err := s.PaymentRepo.GetByID(paymentID)
	if err != nil {
		return receiptDocData{}, err
	}

	out := receiptDocData{
		ReceiptNumber: payment.ReceiptNumber,
		PaymentDate:   payment.PaymentDate,
		Amount:        payment.Amount,
		Method:        payment.Method,
		Voided:        payment.VoidStatus,
	}

	rec, err := s.RecordRepo.GetByID(payment.RecordID)
	if err != nil {
		// receipt still renders without the stay details
		return out, nil
	}
	out.EntryTime = rec.EntryTime
	out.ExitTime = rec.ExitTime
	out.Duration = rec.Duration

	if v, err := s.VehicleRepo.GetByID(rec.VehicleID); err == nil {
		out.LicensePlate = v.LicensePlate
	}
	if sp, err := s.SpaceRepo.GetByID(rec.SpaceID); err == nil {
		out.SpaceNumber = sp.Number
		out.Floor = sp.Floor
	}
	return out, nil
}

func buildReceiptPDF(d receiptDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Parking Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PARKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No     : %s", safe(d.ReceiptNumber, "-")),
		fmt.Sprintf("Payment Date   : %s", d.PaymentDate.Format("2006-01-02 15:04")),
		fmt.Sprintf("Amount         : %s", utils.FormatMoney(d.Amount)),
		fmt.Sprintf("Method         : %s", safe(string(d.Method), "-")),
		fmt.Sprintf("License Plate  : %s", safe(d.LicensePlate, "-")),
		fmt.Sprintf("Space / Floor  : %s / %s", safe(d.SpaceNumber, "-"), safe(d.Floor, "-")),
		fmt.Sprintf("Entry          : %s", formatMaybeTime(d.EntryTime)),
		fmt.Sprintf("Exit           : %s", formatExit(d.ExitTime)),
		fmt.Sprintf("Duration (min) : %d", d.Duration),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	if d.Voided {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(200, 0, 0)
		pdf.Cell(0, 10, "*** VOIDED ***")
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render receipt PDF", Err: err}
	}
	filename := fmt.Sprintf("receipt-%s.pdf", safe(d.ReceiptNumber, "unknown"))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func formatMaybeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatExit(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatMaybeTime(*t)
}
