package service

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/jlupholstery/workshop-admin/internal/domain/allocation"
	"github.com/jlupholstery/workshop-admin/internal/domain/billing"
	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
	"github.com/jlupholstery/workshop-admin/internal/domain/workflow"
)

// CompletionService drives the terminal-status flow: it runs the gate on
// transition requests, applies the cheap outcomes, and owns the atomic
// allocation-plus-status commit that finishes a done transition.
type CompletionService struct {
	orders    OrderStore
	status    StatusStore
	rates     RateSource
	tx        Transactor
	engine    allocation.Engine
	totalsCfg billing.TotalsConfig
	defRate   float64
	logger    *zap.Logger
}

// NewCompletionService creates a new completion service
func NewCompletionService(
	orders OrderStore,
	status StatusStore,
	rates RateSource,
	tx Transactor,
	engine allocation.Engine,
	totalsCfg billing.TotalsConfig,
	defaultInternalRate float64,
	logger *zap.Logger,
) *CompletionService {
	return &CompletionService{
		orders:    orders,
		status:    status,
		rates:     rates,
		tx:        tx,
		engine:    engine,
		totalsCfg: totalsCfg,
		defRate:   defaultInternalRate,
		logger:    logger,
	}
}

// TransitionResponse is what a transition request returns to the UI. On
// REQUIRES_ALLOCATION it carries the totals plus the default day-weighted
// schedule for the allocation editor.
type TransitionResponse struct {
	Result   workflow.TransitionResult  `json:"result"`
	Order    *entity.Order              `json:"order,omitempty"`
	Totals   *billing.Totals            `json:"totals,omitempty"`
	Schedule []entity.MonthlyAllocation `json:"schedule,omitempty"`
}

// RequestTransition runs the gate for a target status and applies the
// outcome where the gate allows direct application. Done transitions come
// back as REQUIRES_ALLOCATION and finish through CommitCompletion.
func (s *CompletionService) RequestTransition(orderID, targetCode string) (*TransitionResponse, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	target, err := s.getStatus(targetCode)
	if err != nil {
		return nil, err
	}

	table, err := s.rateTable()
	if err != nil {
		return nil, err
	}

	gate := workflow.NewGate(table, s.totalsCfg)
	result := gate.RequestTransition(order, *target)

	resp := &TransitionResponse{Result: result, Order: order}

	switch result.Outcome {
	case workflow.OutcomeApplied:
		order.InvoiceStatus = target.Code
		if err := s.tx.WithTransaction(func(tx *sql.Tx) error {
			return s.orders.Update(tx, order)
		}); err != nil {
			return nil, err
		}
		s.logger.Info("Status transition applied",
			zap.String("order_id", orderID),
			zap.String("status", target.Code))

	case workflow.OutcomeRequiresAllocation:
		totals := billing.ComputeTotals(order, table, s.totalsCfg)
		resp.Totals = &totals

		schedule, err := allocation.BuildDefaultSchedule(order.OrderDetails.StartDate, order.OrderDetails.EndDate)
		if err != nil {
			// The gate passed but the order has no usable date range; the
			// clerk has to fix the dates before completing.
			return nil, fmt.Errorf("cannot build allocation for order %s: %w", orderID, err)
		}
		allocation.Recompute(schedule, totals.GrandTotal, totals.JLGrandTotal)
		resp.Schedule = schedule

	case workflow.OutcomeRejected:
		s.logger.Info("Status transition rejected",
			zap.String("order_id", orderID),
			zap.String("status", target.Code),
			zap.String("reason", string(result.Reason)))
	}

	return resp, nil
}

// PreviewAllocation returns the current default schedule and totals for an
// order without touching its status, for the allocation editor.
func (s *CompletionService) PreviewAllocation(orderID string) (*TransitionResponse, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	table, err := s.rateTable()
	if err != nil {
		return nil, err
	}

	totals := billing.ComputeTotals(order, table, s.totalsCfg)
	schedule, err := allocation.BuildDefaultSchedule(order.OrderDetails.StartDate, order.OrderDetails.EndDate)
	if err != nil {
		return nil, err
	}
	allocation.Recompute(schedule, totals.GrandTotal, totals.JLGrandTotal)

	return &TransitionResponse{
		Order:    order,
		Totals:   &totals,
		Schedule: schedule,
	}, nil
}

// CompletionResult is the outcome of a completion commit. When either the
// gate or the sum check refuses, the refusal is in the payload and nothing
// was written.
type CompletionResult struct {
	Transition workflow.TransitionResult `json:"transition"`
	SumError   *allocation.SumError      `json:"sum_error,omitempty"`
	Order      *entity.Order             `json:"order,omitempty"`
}

// Committed reports whether the order was completed.
func (r CompletionResult) Committed() bool {
	return r.Transition.Outcome == workflow.OutcomeRequiresAllocation && r.SumError == nil
}

// CommitCompletion finishes a done transition: inside one transaction it
// re-reads the order, re-runs the gate against the fresh document, checks
// the allocation sums to 100%, and persists the allocation record together
// with the status change. The re-read is the optimistic check that keeps
// two concurrent completion attempts from both writing.
func (s *CompletionService) CommitCompletion(orderID, targetCode string, rows []entity.MonthlyAllocation) (*CompletionResult, error) {
	target, err := s.getStatus(targetCode)
	if err != nil {
		return nil, err
	}
	if !target.IsTerminal() || target.EndStateType != entity.EndStateDone {
		return nil, fmt.Errorf("%w: %s", ErrNotDoneStatus, targetCode)
	}

	table, err := s.rateTable()
	if err != nil {
		return nil, err
	}
	gate := workflow.NewGate(table, s.totalsCfg)

	var result *CompletionResult
	err = s.tx.WithTransaction(func(tx *sql.Tx) error {
		order, err := s.orders.GetByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}

		current, err := s.status.GetByCode(order.InvoiceStatus)
		if err != nil {
			return err
		}
		if current != nil && current.IsTerminal() {
			return fmt.Errorf("%w: %s", ErrOrderTerminal, orderID)
		}

		transition := gate.RequestTransition(order, *target)
		if transition.Outcome != workflow.OutcomeRequiresAllocation {
			result = &CompletionResult{Transition: transition}
			return nil
		}

		totals := billing.ComputeTotals(order, table, s.totalsCfg)
		commit := s.engine.Commit(order, rows, totals.GrandTotal, totals.JLGrandTotal)
		if !commit.Committed() {
			result = &CompletionResult{Transition: transition, SumError: commit.SumError}
			return nil
		}

		order.Allocation = commit.Record
		order.InvoiceStatus = target.Code
		if err := s.orders.Update(tx, order); err != nil {
			return err
		}

		result = &CompletionResult{Transition: transition, Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Committed() {
		s.logger.Info("Order completed",
			zap.String("order_id", orderID),
			zap.String("status", targetCode),
			zap.Int("allocation_months", len(result.Order.Allocation.Entries)))
	}
	return result, nil
}

func (s *CompletionService) getOrder(id string) (*entity.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return order, nil
}

func (s *CompletionService) getStatus(code string) (*entity.InvoiceStatusDefinition, error) {
	def, err := s.status.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrStatusNotFound, code)
	}
	return def, nil
}

func (s *CompletionService) rateTable() (billing.RateTable, error) {
	rates, err := s.rates.LoadRates()
	if err != nil {
		return billing.RateTable{}, err
	}
	return billing.NewRateTable(rates, s.defRate), nil
}
