package entity

import "time"

// MonthlyAllocation is one row of a revenue allocation: the share of a
// completed order's revenue and cost booked to a calendar month.
type MonthlyAllocation struct {
	Month      int     `json:"month"` // 1-12
	Year       int     `json:"year"`
	Percentage float64 `json:"percentage"` // 0-100
	Revenue    float64 `json:"revenue"`
	Cost       float64 `json:"cost"`
	Profit     float64 `json:"profit"`
}

// AllocationRecord is the committed allocation persisted on the order when
// it reaches its done status. The original pre-allocation figures and the
// date range used are kept for audit.
type AllocationRecord struct {
	Entries      []MonthlyAllocation `json:"entries"`
	TotalRevenue float64             `json:"total_revenue"`
	TotalCost    float64             `json:"total_cost"`
	TotalProfit  float64             `json:"total_profit"`
	StartDate    string              `json:"start_date"`
	EndDate      string              `json:"end_date"`
	CommittedAt  time.Time           `json:"committed_at"`
}
