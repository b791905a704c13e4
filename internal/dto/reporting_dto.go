package dto

import (
	"time"

	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// FinancialSummaryParams bounds the summary by vehicle creation date (YYYY-MM-DD).
type FinancialSummaryParams struct {
	FromDate string `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
}

// Window parses the params into a domain.ReportWindow. ToDate is inclusive.
func (p FinancialSummaryParams) Window() (domain.ReportWindow, error) {
	var w domain.ReportWindow
	if p.FromDate != "" {
		from, err := time.Parse(time.DateOnly, p.FromDate)
		if err != nil {
			return w, err
		}
		w.From = from
	}
	if p.ToDate != "" {
		to, err := time.Parse(time.DateOnly, p.ToDate)
		if err != nil {
			return w, err
		}
		w.To = to.AddDate(0, 0, 1)
	}
	return w, nil
}

// FinancialSummaryResponse is the dashboard fold of vehicle amounts.
type FinancialSummaryResponse struct {
	FromDate string                  `json:"fromDate,omitempty"`
	ToDate   string                  `json:"toDate,omitempty"`
	Summary  domain.FinancialSummary `json:"summary"`
}

// StatusCountsResponse lists vehicle counts per status.
type StatusCountsResponse struct {
	Counts []domain.StatusCount `json:"counts"`
}
