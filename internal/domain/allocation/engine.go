package allocation

import (
	"math"
	"time"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// SumTolerance is how far the percentage sum may drift from 100 and still
// commit. The business wants an explicit, auditable 100% allocation, so
// there is no automatic normalization beyond this float slack.
const SumTolerance = 0.01

// Engine validates and finalizes revenue allocations. It is pure aside
// from the clock, which is injectable for tests; persisting the record it
// produces, atomically with the status change, is the caller's job.
type Engine struct {
	now func() time.Time
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an allocation engine.
func NewEngine(opts ...EngineOption) Engine {
	e := Engine{now: time.Now}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// ValidateSum checks the commit precondition: percentages must sum to 100
// within SumTolerance. Returns nil when the rows may commit.
func ValidateSum(rows []entity.MonthlyAllocation) *SumError {
	sum := 0.0
	for _, row := range rows {
		sum += row.Percentage
	}

	if math.Abs(sum-100) <= SumTolerance {
		return nil
	}

	direction := SumUnder
	if sum > 100 {
		direction = SumOver
	}
	return &SumError{Sum: sum, Direction: direction}
}

// CommitResult is the engine's answer to a commit attempt. Exactly one of
// Record and SumError is set.
type CommitResult struct {
	Record   *entity.AllocationRecord `json:"record,omitempty"`
	SumError *SumError                `json:"sum_error,omitempty"`
}

// Committed reports whether the commit was accepted.
func (r CommitResult) Committed() bool {
	return r.Record != nil
}

// Commit finalizes an allocation for an order: refuses rows that do not
// sum to 100%, otherwise recomputes every row from its percentage and
// returns the record to persist, stamped with the original figures and
// date range for audit.
func (e Engine) Commit(order *entity.Order, rows []entity.MonthlyAllocation, totalRevenue, totalCost float64) CommitResult {
	if sumErr := ValidateSum(rows); sumErr != nil {
		return CommitResult{SumError: sumErr}
	}

	entries := make([]entity.MonthlyAllocation, len(rows))
	copy(entries, rows)
	Recompute(entries, totalRevenue, totalCost)

	return CommitResult{
		Record: &entity.AllocationRecord{
			Entries:      entries,
			TotalRevenue: totalRevenue,
			TotalCost:    totalCost,
			TotalProfit:  totalRevenue - totalCost,
			StartDate:    order.OrderDetails.StartDate,
			EndDate:      order.OrderDetails.EndDate,
			CommittedAt:  e.now(),
		},
	}
}
