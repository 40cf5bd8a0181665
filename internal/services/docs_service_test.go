package services

import (
	"bytes"
	"testing"
	"time"

	"parkingsoft/internal/domain"
)

func TestGenerateReceiptRendersPDF(t *testing.T) {
	exit := time.Date(2025, 3, 14, 11, 5, 0, 0, time.Local)
	svc := DocsService{
		Loader: func(paymentID int64) (receiptDocData, error) {
			if paymentID != 7 {
				t.Fatalf("unexpected payment id %d", paymentID)
			}
			return receiptDocData{
				ReceiptNumber: "PAY-123-0001abcd",
				PaymentDate:   exit,
				Amount:        10.00,
				Method:        domain.MethodCard,
				LicensePlate:  "ABC 123",
				SpaceNumber:   "A-01",
				Floor:         "1",
				EntryTime:     exit.Add(-65 * time.Minute),
				ExitTime:      &exit,
				Duration:      65,
			}, nil
		},
	}

	pdf, filename, err := svc.GenerateReceipt(7)
	if err != nil {
		t.Fatalf("GenerateReceipt error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (first bytes %q)", pdf[:min(8, len(pdf))])
	}
	if filename != "receipt-PAY-123-0001abcd.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestGenerateReceiptVoidedStillRenders(t *testing.T) {
	svc := DocsService{
		Loader: func(int64) (receiptDocData, error) {
			return receiptDocData{
				ReceiptNumber: "PAY-void",
				PaymentDate:   time.Now(),
				Amount:        5.00,
				Method:        domain.MethodCash,
				Voided:        true,
			}, nil
		},
	}

	pdf, _, err := svc.GenerateReceipt(1)
	if err != nil {
		t.Fatalf("GenerateReceipt error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected PDF bytes for voided payment")
	}
}

func TestGenerateReceiptPropagatesLoadError(t *testing.T) {
	svc := DocsService{
		Loader: func(int64) (receiptDocData, error) {
			return receiptDocData{}, domain.NotFoundError{Resource: "payment"}
		},
	}

	_, _, err := svc.GenerateReceipt(999)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
