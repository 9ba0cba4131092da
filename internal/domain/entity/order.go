package entity

import "time"

// Order is the unit of work: one reupholstery job from intake to a terminal
// status. It is stored as a single JSON document, so every nested shape here
// has to tolerate what the UI actually writes (see FlexFloat).
type Order struct {
	ID                   string              `json:"id"`
	FurnitureGroups      []FurnitureGroup    `json:"furniture_groups"`
	PaymentData          PaymentData         `json:"payment_data"`
	OrderDetails         OrderDetails        `json:"order_details"`
	InvoiceStatus        string              `json:"invoice_status"`
	ExtraExpenses        []ExtraExpense      `json:"extra_expenses,omitempty"`
	Allocation           *AllocationRecord   `json:"allocation,omitempty"`
	CorporateItems       []CorporateLineItem `json:"corporate_items,omitempty"`
	CardSurchargeEnabled bool                `json:"card_surcharge_enabled,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// IsCorporate reports whether the order carries the corporate line-item
// shape. Corporate orders use a different totals model; the presence of the
// items is the discriminator, not a flag the caller has to remember.
func (o *Order) IsCorporate() bool {
	return len(o.CorporateItems) > 0
}

// OrderDetails holds the intake-level facts about the job. Dates are kept
// as the "2006-01-02" strings the documents store; the allocation engine
// parses and validates them.
type OrderDetails struct {
	InvoiceNumber string `json:"invoice_number"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Platform      string `json:"platform,omitempty"`
}

// Delivery service types.
const (
	DeliveryTypePickup   = "pickup"
	DeliveryTypeDelivery = "delivery"
	DeliveryTypeBoth     = "both"
)

// PaymentData tracks everything money-related on an order. AmountPaid is
// the authoritative running total and is always recomputed as the sum of
// History when a record is appended.
type PaymentData struct {
	Deposit         FlexFloat       `json:"deposit"`
	AmountPaid      FlexFloat       `json:"amount_paid"`
	History         []PaymentRecord `json:"history,omitempty"`
	DeliveryEnabled bool            `json:"delivery_enabled"`
	DeliveryCost    FlexFloat       `json:"delivery_cost"`
	DeliveryType    string          `json:"delivery_type,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// PaymentRecord is one entry in the append-only payment history. Refunds
// are recorded as negative amounts.
type PaymentRecord struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Note   string    `json:"note,omitempty"`
}

// HistoryTotal sums the payment history.
func (p *PaymentData) HistoryTotal() float64 {
	total := 0.0
	for _, rec := range p.History {
		total += rec.Amount
	}
	return total
}

// ExtraExpense is an ad-hoc order-level cost entered by the workshop.
type ExtraExpense struct {
	Label string    `json:"label"`
	Total FlexFloat `json:"total"`
}

// CorporateLineItem is the line-item shape corporate customers are billed
// with: free-form description plus price and quantity.
type CorporateLineItem struct {
	Description string    `json:"description"`
	Price       FlexFloat `json:"price"`
	Quantity    FlexFloat `json:"quantity"`
}
