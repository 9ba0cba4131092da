package allocation

import "errors"

var (
	// ErrMissingDateRange is returned when an order has neither a start nor
	// an end date. The engine refuses to fabricate a range.
	ErrMissingDateRange = errors.New("order has no start or end date")

	// ErrInvalidDate is returned when a date field is present but cannot be
	// parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// Sum directions for a refused commit.
const (
	SumOver  = "over"
	SumUnder = "under"
)

// SumError describes why an allocation cannot be committed: the
// percentages do not add up to 100 within tolerance. It carries the actual
// sum so the UI can show how far off the clerk is.
type SumError struct {
	Sum       float64 `json:"sum"`
	Direction string  `json:"direction"` // "over" or "under"
}

func (e *SumError) Error() string {
	return "allocation percentages sum to " + e.Direction + " 100%"
}
