package allocation

import (
	"fmt"
	"strings"
	"time"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// DateLayout is the date format the order documents store.
const DateLayout = "2006-01-02"

// ParseDateRange parses the order's start/end date strings. A single
// missing date borrows the other, yielding a one-day span; when both are
// missing the caller gets ErrMissingDateRange rather than a fabricated
// range. An inverted range is normalized by swapping.
func ParseDateRange(startStr, endStr string) (start, end time.Time, err error) {
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if startStr == "" && endStr == "" {
		return start, end, ErrMissingDateRange
	}
	if startStr == "" {
		startStr = endStr
	}
	if endStr == "" {
		endStr = startStr
	}

	start, err = time.Parse(DateLayout, startStr)
	if err != nil {
		return start, end, fmt.Errorf("%w: start %q", ErrInvalidDate, startStr)
	}
	end, err = time.Parse(DateLayout, endStr)
	if err != nil {
		return start, end, fmt.Errorf("%w: end %q", ErrInvalidDate, endStr)
	}

	if end.Before(start) {
		start, end = end, start
	}
	return start, end, nil
}

// BuildDefaultSchedule produces the day-weighted allocation for a date
// range: one row per calendar month touched, each month's percentage being
// its share of the inclusive day count. Same-month ranges get a single
// 100% row. Percentages sum to 100 by construction; revenue, cost and
// profit are zero until Recompute runs.
func BuildDefaultSchedule(startStr, endStr string) ([]entity.MonthlyAllocation, error) {
	start, end, err := ParseDateRange(startStr, endStr)
	if err != nil {
		return nil, err
	}

	if start.Year() == end.Year() && start.Month() == end.Month() {
		return []entity.MonthlyAllocation{{
			Month:      int(start.Month()),
			Year:       start.Year(),
			Percentage: 100,
		}}, nil
	}

	totalDays := inclusiveDays(start, end)

	var rows []entity.MonthlyAllocation
	cursor := start
	for !cursor.After(end) {
		monthEnd := endOfMonth(cursor)
		segmentEnd := monthEnd
		if end.Before(monthEnd) {
			segmentEnd = end
		}

		days := inclusiveDays(cursor, segmentEnd)
		rows = append(rows, entity.MonthlyAllocation{
			Month:      int(cursor.Month()),
			Year:       cursor.Year(),
			Percentage: float64(days) / float64(totalDays) * 100,
		})

		cursor = monthEnd.AddDate(0, 0, 1)
	}

	return rows, nil
}

// Recompute fills every row's revenue, cost and profit from its current
// percentage. Runs on every edit so overridden percentages stay consistent
// with the money columns.
func Recompute(rows []entity.MonthlyAllocation, totalRevenue, totalCost float64) {
	for i := range rows {
		share := rows[i].Percentage / 100
		rows[i].Revenue = totalRevenue * share
		rows[i].Cost = totalCost * share
		rows[i].Profit = rows[i].Revenue - rows[i].Cost
	}
}

func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func endOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
