package workflow

import (
	"github.com/jlupholstery/workshop-admin/internal/domain/billing"
	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

// Gate validates status transitions against the order's payment state.
// Status codes themselves are reference data, so every non-terminal status
// is one "active" superstate here: the gate only cares whether the target
// is terminal and of which type.
//
// The gate is pure. It never mutates the order; applying an accepted
// transition is the application layer's job.
type Gate struct {
	rates     billing.RateTable
	totalsCfg billing.TotalsConfig
}

// NewGate builds a gate with the injected tax-rate table and customer
// rates. Both are plain values; the gate holds no other state.
func NewGate(rates billing.RateTable, cfg billing.TotalsConfig) Gate {
	return Gate{rates: rates, totalsCfg: cfg}
}

// RequestTransition decides whether the order may move to the target
// status.
//
// Non-terminal targets always pass. A done target requires the invoice to
// be fully paid and then still defers to the allocation commit. A
// cancelled target requires zero recorded payment. A pending target passes
// unconditionally; it parks the order for later resumption.
func (g Gate) RequestTransition(order *entity.Order, target entity.InvoiceStatusDefinition) TransitionResult {
	if !target.IsTerminal() {
		return TransitionResult{Outcome: OutcomeApplied}
	}

	switch target.EndStateType {
	case entity.EndStateDone:
		return g.checkDone(order)
	case entity.EndStateCancelled:
		return g.checkCancelled(order)
	case entity.EndStatePending:
		return TransitionResult{Outcome: OutcomeApplied}
	default:
		return TransitionResult{
			Outcome: OutcomeRejected,
			Reason:  ReasonUnknownEndState,
		}
	}
}

func (g Gate) checkDone(order *entity.Order) TransitionResult {
	totals := billing.ComputeTotals(order, g.rates, g.totalsCfg)
	required := totals.GrandTotal
	paid := totals.AmountPaid

	if paid < required {
		return TransitionResult{
			Outcome:   OutcomeRejected,
			Reason:    ReasonPaymentShortfall,
			Required:  required,
			Paid:      paid,
			Shortfall: required - paid,
		}
	}

	return TransitionResult{
		Outcome:  OutcomeRequiresAllocation,
		Required: required,
		Paid:     paid,
	}
}

func (g Gate) checkCancelled(order *entity.Order) TransitionResult {
	paid := order.PaymentData.AmountPaid.Or(0)
	if paid > 0 {
		return TransitionResult{
			Outcome: OutcomeRejected,
			Reason:  ReasonPaymentOnCancel,
			Paid:    paid,
		}
	}
	return TransitionResult{Outcome: OutcomeApplied}
}
