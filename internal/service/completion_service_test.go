package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/allocation"
	"github.com/jlupholstery/workshop-admin/internal/domain/billing"
	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
	"github.com/jlupholstery/workshop-admin/internal/domain/workflow"
)

func newCompletionService(orders OrderStore) *CompletionService {
	return NewCompletionService(
		orders,
		workshopStatuses(),
		staticRates{},
		fakeTx{},
		allocation.NewEngine(),
		billing.DefaultTotalsConfig(),
		billing.DefaultInternalTaxRate,
		zap.NewNop(),
	)
}

// paidOrder is pricedOrder with the 276 grand total fully paid and a
// two-month March 20 to April 10 date range.
func paidOrder(id string) *entity.Order {
	order := pricedOrder(id)
	order.OrderDetails.StartDate = "2025-03-20"
	order.OrderDetails.EndDate = "2025-04-10"
	order.PaymentData.History = []entity.PaymentRecord{{ID: "p1", Amount: 276}}
	order.PaymentData.AmountPaid = entity.Flex(276)
	return order
}

func TestRequestTransition_NonTerminalApplies(t *testing.T) {
	store := map[string]*entity.Order{"order-1": pricedOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	resp, err := svc.RequestTransition("order-1", "intake")
	require.NoError(t, err)

	assert.Equal(t, workflow.OutcomeApplied, resp.Result.Outcome)
	assert.Equal(t, "intake", store["order-1"].InvoiceStatus)
}

func TestRequestTransition_DoneNeedsAllocation(t *testing.T) {
	store := map[string]*entity.Order{"order-1": paidOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	resp, err := svc.RequestTransition("order-1", "done")
	require.NoError(t, err)

	assert.Equal(t, workflow.OutcomeRequiresAllocation, resp.Result.Outcome)
	assert.Equal(t, "in_workshop", store["order-1"].InvoiceStatus, "status must not change yet")

	require.NotNil(t, resp.Totals)
	assert.InDelta(t, 276.0, resp.Totals.GrandTotal, 1e-9)

	require.Len(t, resp.Schedule, 2)
	assert.InDelta(t, 12.0/22*100, resp.Schedule[0].Percentage, 1e-9)
	assert.InDelta(t, 10.0/22*100, resp.Schedule[1].Percentage, 1e-9)
	assert.InDelta(t, 12.0/22*276, resp.Schedule[0].Revenue, 1e-9)
}

func TestRequestTransition_DoneUnderpaidRejected(t *testing.T) {
	order := paidOrder("order-1")
	order.PaymentData.History = []entity.PaymentRecord{{ID: "p1", Amount: 200}}
	order.PaymentData.AmountPaid = entity.Flex(200)
	store := map[string]*entity.Order{"order-1": order}

	svc := newCompletionService(memOrders(store))

	resp, err := svc.RequestTransition("order-1", "done")
	require.NoError(t, err)

	assert.Equal(t, workflow.OutcomeRejected, resp.Result.Outcome)
	assert.Equal(t, workflow.ReasonPaymentShortfall, resp.Result.Reason)
	assert.InDelta(t, 76.0, resp.Result.Shortfall, 1e-9)
	assert.Equal(t, "in_workshop", store["order-1"].InvoiceStatus)
}

func TestRequestTransition_CancelledWithPaymentRejected(t *testing.T) {
	store := map[string]*entity.Order{"order-1": paidOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	resp, err := svc.RequestTransition("order-1", "cancelled")
	require.NoError(t, err)

	assert.Equal(t, workflow.OutcomeRejected, resp.Result.Outcome)
	assert.Equal(t, workflow.ReasonPaymentOnCancel, resp.Result.Reason)
}

func TestRequestTransition_DoneWithoutDates(t *testing.T) {
	order := paidOrder("order-1")
	order.OrderDetails.StartDate = ""
	order.OrderDetails.EndDate = ""
	store := map[string]*entity.Order{"order-1": order}

	svc := newCompletionService(memOrders(store))

	_, err := svc.RequestTransition("order-1", "done")
	assert.ErrorIs(t, err, allocation.ErrMissingDateRange)
}

func TestRequestTransition_UnknownStatus(t *testing.T) {
	store := map[string]*entity.Order{"order-1": pricedOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	_, err := svc.RequestTransition("order-1", "archived")
	assert.ErrorIs(t, err, ErrStatusNotFound)
}

func TestPreviewAllocation(t *testing.T) {
	store := map[string]*entity.Order{"order-1": paidOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	resp, err := svc.PreviewAllocation("order-1")
	require.NoError(t, err)

	require.NotNil(t, resp.Totals)
	require.Len(t, resp.Schedule, 2)
	sum := resp.Schedule[0].Percentage + resp.Schedule[1].Percentage
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.Equal(t, "in_workshop", store["order-1"].InvoiceStatus)
}

func TestCommitCompletion_HappyPath(t *testing.T) {
	store := map[string]*entity.Order{"order-1": paidOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	preview, err := svc.PreviewAllocation("order-1")
	require.NoError(t, err)

	result, err := svc.CommitCompletion("order-1", "done", preview.Schedule)
	require.NoError(t, err)
	require.True(t, result.Committed())

	saved := store["order-1"]
	assert.Equal(t, "done", saved.InvoiceStatus)
	require.NotNil(t, saved.Allocation)
	assert.Len(t, saved.Allocation.Entries, 2)
	assert.InDelta(t, 276.0, saved.Allocation.TotalRevenue, 1e-9)
	assert.Equal(t, "2025-03-20", saved.Allocation.StartDate)
	assert.False(t, saved.Allocation.CommittedAt.IsZero())
}

func TestCommitCompletion_BadSumRefused(t *testing.T) {
	store := map[string]*entity.Order{"order-1": paidOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	rows := []entity.MonthlyAllocation{
		{Month: 3, Year: 2025, Percentage: 50},
		{Month: 4, Year: 2025, Percentage: 30},
	}
	result, err := svc.CommitCompletion("order-1", "done", rows)
	require.NoError(t, err)

	assert.False(t, result.Committed())
	require.NotNil(t, result.SumError)
	assert.Equal(t, allocation.SumUnder, result.SumError.Direction)
	assert.Equal(t, "in_workshop", store["order-1"].InvoiceStatus)
	assert.Nil(t, store["order-1"].Allocation)
}

func TestCommitCompletion_GateRefusesInsideTx(t *testing.T) {
	// The payment drops between preview and commit; the in-transaction gate
	// re-run has to catch it.
	order := paidOrder("order-1")
	store := map[string]*entity.Order{"order-1": order}
	svc := newCompletionService(memOrders(store))

	preview, err := svc.PreviewAllocation("order-1")
	require.NoError(t, err)

	order.PaymentData.History = []entity.PaymentRecord{{ID: "p1", Amount: 100}}
	order.PaymentData.AmountPaid = entity.Flex(100)

	result, err := svc.CommitCompletion("order-1", "done", preview.Schedule)
	require.NoError(t, err)

	assert.False(t, result.Committed())
	assert.Equal(t, workflow.OutcomeRejected, result.Transition.Outcome)
	assert.Equal(t, "in_workshop", store["order-1"].InvoiceStatus)
}

func TestCommitCompletion_NotDoneTarget(t *testing.T) {
	store := map[string]*entity.Order{"order-1": paidOrder("order-1")}
	svc := newCompletionService(memOrders(store))

	_, err := svc.CommitCompletion("order-1", "cancelled", nil)
	assert.ErrorIs(t, err, ErrNotDoneStatus)

	_, err = svc.CommitCompletion("order-1", "intake", nil)
	assert.ErrorIs(t, err, ErrNotDoneStatus)
}

func TestCommitCompletion_AlreadyTerminal(t *testing.T) {
	order := paidOrder("order-1")
	order.InvoiceStatus = "done"
	store := map[string]*entity.Order{"order-1": order}
	svc := newCompletionService(memOrders(store))

	rows := []entity.MonthlyAllocation{{Month: 3, Year: 2025, Percentage: 100}}
	_, err := svc.CommitCompletion("order-1", "done", rows)
	assert.ErrorIs(t, err, ErrOrderTerminal)
}

func TestCommitCompletion_OrderNotFound(t *testing.T) {
	svc := newCompletionService(memOrders(map[string]*entity.Order{}))

	_, err := svc.CommitCompletion("missing", "done", nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
