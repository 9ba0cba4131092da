package workflow

// Outcome is the gate's decision on a requested status transition.
type Outcome string

const (
	// OutcomeApplied means the transition is valid and the caller should
	// write the new status.
	OutcomeApplied Outcome = "APPLIED"

	// OutcomeRejected means the transition violates a payment rule. The
	// result carries the amounts the remediation UI needs; the order is
	// unchanged.
	OutcomeRejected Outcome = "REJECTED"

	// OutcomeRequiresAllocation means the payment checks passed but a done
	// transition cannot be applied on its own: completion commits a revenue
	// allocation atomically with the status change.
	OutcomeRequiresAllocation Outcome = "REQUIRES_ALLOCATION"
)

// RejectionReason identifies which rule blocked a transition.
type RejectionReason string

const (
	// ReasonPaymentShortfall blocks a done transition while the customer
	// still owes money.
	ReasonPaymentShortfall RejectionReason = "PAYMENT_SHORTFALL"

	// ReasonPaymentOnCancel blocks a cancelled transition while any payment
	// is still recorded; refunds must be entered first so a cancelled order
	// always shows zero received.
	ReasonPaymentOnCancel RejectionReason = "PAYMENT_ON_CANCEL"

	// ReasonUnknownEndState blocks a transition to a terminal status whose
	// end-state type is not recognized, which means the reference data is
	// broken.
	ReasonUnknownEndState RejectionReason = "UNKNOWN_END_STATE"
)

// TransitionResult is the structured answer to a transition request.
// Rejections are values, not errors: the caller drives a remediation flow
// from the amounts, it does not unwind.
type TransitionResult struct {
	Outcome Outcome         `json:"outcome"`
	Reason  RejectionReason `json:"reason,omitempty"`

	// Required and Paid are set for done transitions; Shortfall is
	// Required - Paid on a shortfall rejection.
	Required  float64 `json:"required,omitempty"`
	Paid      float64 `json:"paid,omitempty"`
	Shortfall float64 `json:"shortfall,omitempty"`
}

// Accepted reports whether the transition may proceed in some form.
func (r TransitionResult) Accepted() bool {
	return r.Outcome != OutcomeRejected
}
