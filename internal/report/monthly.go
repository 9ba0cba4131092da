package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// AllocatedOrderSource is what the report needs from persistence.
type AllocatedOrderSource interface {
	ListAllocated() ([]*entity.Order, error)
}

// MonthRow is one month of booked figures in a yearly report. Figures are
// decimals rounded to cents; the raw allocation floats never leave the
// engine unrounded.
type MonthRow struct {
	Month   time.Month      `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Orders  int             `json:"orders"`
}

// Service aggregates committed allocations into month-end figures and
// exports them as an Excel workbook for the bookkeeper.
type Service struct {
	orders    AllocatedOrderSource
	outputDir string
	logger    *zap.Logger
}

// NewService creates a new report service
func NewService(orders AllocatedOrderSource, outputDir string, logger *zap.Logger) *Service {
	return &Service{
		orders:    orders,
		outputDir: outputDir,
		logger:    logger,
	}
}

// BuildYear aggregates every committed allocation row that falls in the
// given year into twelve month rows.
func (s *Service) BuildYear(year int) ([]MonthRow, error) {
	orders, err := s.orders.ListAllocated()
	if err != nil {
		return nil, err
	}

	rows := make([]MonthRow, 12)
	for i := range rows {
		rows[i].Month = time.Month(i + 1)
		rows[i].Revenue = decimal.Zero
		rows[i].Cost = decimal.Zero
		rows[i].Profit = decimal.Zero
	}

	for _, order := range orders {
		if order.Allocation == nil {
			continue
		}
		counted := false
		for _, entry := range order.Allocation.Entries {
			if entry.Year != year || entry.Month < 1 || entry.Month > 12 {
				continue
			}
			row := &rows[entry.Month-1]
			row.Revenue = row.Revenue.Add(decimal.NewFromFloat(entry.Revenue).Round(2))
			row.Cost = row.Cost.Add(decimal.NewFromFloat(entry.Cost).Round(2))
			row.Profit = row.Profit.Add(decimal.NewFromFloat(entry.Profit).Round(2))
			counted = true
		}
		if counted {
			// An order spanning a year boundary counts once per year it
			// touches.
			for _, entry := range order.Allocation.Entries {
				if entry.Year == year {
					rows[entry.Month-1].Orders++
				}
			}
		}
	}

	return rows, nil
}

// BuildWorkbook renders a year's rows into an Excel workbook.
func (s *Service) BuildWorkbook(year int) (*excelize.File, error) {
	rows, err := s.BuildYear(year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	title := fmt.Sprintf("Monthly Revenue %d", year)
	if err := f.SetSheetName(sheet, title); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	sheet = title

	headers := []string{"Month", "Revenue", "Cost", "Profit", "Orders"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	totalRevenue, totalCost := decimal.Zero, decimal.Zero
	for i, row := range rows {
		line := i + 2
		s.setCell(f, sheet, 1, line, row.Month.String())
		s.setCell(f, sheet, 2, line, row.Revenue.InexactFloat64())
		s.setCell(f, sheet, 3, line, row.Cost.InexactFloat64())
		s.setCell(f, sheet, 4, line, row.Profit.InexactFloat64())
		s.setCell(f, sheet, 5, line, row.Orders)
		totalRevenue = totalRevenue.Add(row.Revenue)
		totalCost = totalCost.Add(row.Cost)
	}

	totalLine := len(rows) + 2
	s.setCell(f, sheet, 1, totalLine, "Total")
	s.setCell(f, sheet, 2, totalLine, totalRevenue.InexactFloat64())
	s.setCell(f, sheet, 3, totalLine, totalCost.InexactFloat64())
	s.setCell(f, sheet, 4, totalLine, totalRevenue.Sub(totalCost).InexactFloat64())

	return f, nil
}

// ExportYear writes the year's workbook into the configured output
// directory and returns the file path.
func (s *Service) ExportYear(year int) (string, error) {
	f, err := s.BuildWorkbook(year)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(s.outputDir, fmt.Sprintf("monthly_revenue_%d.xlsx", year))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Info("Monthly report exported",
		zap.Int("year", year),
		zap.String("path", path))
	return path, nil
}

func (s *Service) setCell(f *excelize.File, sheet string, col, row int, value any) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.logger.Warn("Bad cell coordinates", zap.Int("col", col), zap.Int("row", row))
		return
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		s.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}
