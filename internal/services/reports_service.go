package services

import (
	"time"

	"parkingsoft/internal/domain"
	"parkingsoft/internal/repositories"
	"parkingsoft/internal/utils"
)

type ReportsService struct {
	PaymentRepo repositories.PaymentRepository
}

type MethodBreakdown struct {
	Cash repositories.MethodAggregate `json:"cash"`
	Card repositories.MethodAggregate `json:"card"`
	App  repositories.MethodAggregate `json:"app"`
}

type DailyReport struct {
	Date              string          `json:"date"`
	TotalTransactions int             `json:"totalTransactions"`
	TotalAmount       float64         `json:"totalAmount"`
	PaymentMethods    MethodBreakdown `json:"paymentMethods"`
}

// GetDailyReport aggregates non-voided payments whose payment date
// falls inside the given day, server-local time. A day without
// payments yields a zero-filled report, never an error.
func (s ReportsService) GetDailyReport(date time.Time) (DailyReport, error) {
	start, end := utils.DayWindow(date)

	byMethod, err := s.PaymentRepo.AggregateByMethod(start, end)
	if err != nil {
		return DailyReport{}, err
	}

	report := DailyReport{
		Date: utils.FormatDate(date),
		PaymentMethods: MethodBreakdown{
			Cash: byMethod[domain.MethodCash],
			Card: byMethod[domain.MethodCard],
			App:  byMethod[domain.MethodApp],
		},
	}
	for _, agg := range byMethod {
		report.TotalTransactions += agg.Count
		report.TotalAmount += agg.Amount
	}
	report.TotalAmount = utils.Round2(report.TotalAmount)
	return report, nil
}
