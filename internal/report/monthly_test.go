package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

type sliceSource []*entity.Order

func (s sliceSource) ListAllocated() ([]*entity.Order, error) {
	return s, nil
}

func allocatedOrder(id string, entries ...entity.MonthlyAllocation) *entity.Order {
	return &entity.Order{
		ID:            id,
		InvoiceStatus: "done",
		Allocation:    &entity.AllocationRecord{Entries: entries},
	}
}

func TestBuildYear_AggregatesByMonth(t *testing.T) {
	source := sliceSource{
		allocatedOrder("a",
			entity.MonthlyAllocation{Month: 3, Year: 2025, Revenue: 150.504, Cost: 60, Profit: 90.504},
			entity.MonthlyAllocation{Month: 4, Year: 2025, Revenue: 125.42, Cost: 50, Profit: 75.42},
		),
		allocatedOrder("b",
			entity.MonthlyAllocation{Month: 4, Year: 2025, Revenue: 300, Cost: 120, Profit: 180},
		),
		// Different year, must not leak in.
		allocatedOrder("c",
			entity.MonthlyAllocation{Month: 4, Year: 2024, Revenue: 999, Cost: 500, Profit: 499},
		),
	}

	svc := NewService(source, t.TempDir(), zap.NewNop())
	rows, err := svc.BuildYear(2025)
	require.NoError(t, err)
	require.Len(t, rows, 12)

	march := rows[2]
	assert.Equal(t, time.March, march.Month)
	assert.True(t, march.Revenue.Equal(decimal.NewFromFloat(150.50)), "march revenue = %s", march.Revenue)
	assert.Equal(t, 1, march.Orders)

	april := rows[3]
	assert.True(t, april.Revenue.Equal(decimal.NewFromFloat(425.42)), "april revenue = %s", april.Revenue)
	assert.True(t, april.Cost.Equal(decimal.NewFromInt(170)), "april cost = %s", april.Cost)
	assert.Equal(t, 2, april.Orders)

	for i, row := range rows {
		if i == 2 || i == 3 {
			continue
		}
		assert.True(t, row.Revenue.IsZero(), "month %d revenue = %s", i+1, row.Revenue)
		assert.Zero(t, row.Orders)
	}
}

func TestBuildYear_SkipsUnallocated(t *testing.T) {
	source := sliceSource{
		{ID: "open", InvoiceStatus: "in_workshop"},
	}

	svc := NewService(source, t.TempDir(), zap.NewNop())
	rows, err := svc.BuildYear(2025)
	require.NoError(t, err)

	for _, row := range rows {
		assert.True(t, row.Revenue.IsZero())
	}
}

func TestBuildWorkbook(t *testing.T) {
	source := sliceSource{
		allocatedOrder("a",
			entity.MonthlyAllocation{Month: 1, Year: 2025, Revenue: 1000, Cost: 400, Profit: 600},
		),
	}

	svc := NewService(source, t.TempDir(), zap.NewNop())
	f, err := svc.BuildWorkbook(2025)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Monthly Revenue 2025"
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Month", header)

	january, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "January", january)

	revenue, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1000", revenue)

	totalLabel, err := f.GetCellValue(sheet, "A14")
	require.NoError(t, err)
	assert.Equal(t, "Total", totalLabel)

	totalRevenue, err := f.GetCellValue(sheet, "B14")
	require.NoError(t, err)
	assert.Equal(t, "1000", totalRevenue)
}

func TestExportYear(t *testing.T) {
	dir := t.TempDir()
	source := sliceSource{
		allocatedOrder("a",
			entity.MonthlyAllocation{Month: 6, Year: 2025, Revenue: 500, Cost: 200, Profit: 300},
		),
	}

	svc := NewService(source, filepath.Join(dir, "reports"), zap.NewNop())
	path, err := svc.ExportYear(2025)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "reports", "monthly_revenue_2025.xlsx"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
