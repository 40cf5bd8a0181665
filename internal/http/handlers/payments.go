package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"parkingsoft/internal/domain"
	"parkingsoft/internal/http/middleware"
	"parkingsoft/internal/repositories"
	"parkingsoft/internal/services"
	"parkingsoft/internal/utils"

	"github.com/gin-gonic/gin"
)

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		PaymentRepo: repositories.PaymentRepository{},
		RecordRepo:  repositories.RecordRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
}

// GET /api/payments?startDate=&endDate=
func GetPayments(c *gin.Context) {
	var start, end *time.Time

	if raw := strings.TrimSpace(c.Query("startDate")); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD"})
			return
		}
		from, _ := utils.DayWindow(t)
		start = &from
	}
	if raw := strings.TrimSpace(c.Query("endDate")); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD"})
			return
		}
		_, to := utils.DayWindow(t)
		end = &to
	}

	repo := repositories.PaymentRepository{}
	payments, err := repo.List(start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GET /api/payments/:id
func GetPaymentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payment id", err)
		return
	}

	repo := repositories.PaymentRepository{}
	payment, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

type createPaymentRequest struct {
	ParkingRecordID int64   `json:"parkingRecordId"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	TransactionID   *string `json:"transactionId"`
	Notes           string  `json:"notes"`
}

// POST /api/payments
func CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.ParkingRecordID <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: "parkingRecordId", Msg: "is required"})
		return
	}

	svc := paymentService(c)
	payment, err := svc.CreatePayment(services.CreatePaymentInput{
		RecordID:      req.ParkingRecordID,
		Amount:        req.Amount,
		Method:        req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         strings.TrimSpace(req.Notes),
		ProcessedBy:   middleware.GetUserID(c),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "payment registered successfully",
		"payment": payment,
	})
}

type voidPaymentRequest struct {
	Reason string `json:"reason"`
}

// POST /api/payments/:id/void
func VoidPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payment id", err)
		return
	}

	var req voidPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := paymentService(c)
	payment, err := svc.VoidPayment(id, strings.TrimSpace(req.Reason), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "payment voided successfully",
		"payment": payment,
	})
}

// GET /api/payments/reports/daily?date=
// Missing date defaults to today.
func GetDailyPaymentsReport(c *gin.Context) {
	day := time.Now()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"})
			return
		}
		day = t
	}

	svc := services.ReportsService{PaymentRepo: repositories.PaymentRepository{}}
	report, err := svc.GetDailyReport(day)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/payments/:id/receipt
func GetPaymentReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payment id", err)
		return
	}

	svc := services.DocsService{
		PaymentRepo: repositories.PaymentRepository{},
		RecordRepo:  repositories.RecordRepository{},
		VehicleRepo: repositories.VehicleRepository{},
		SpaceRepo:   repositories.SpaceRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateReceipt(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
