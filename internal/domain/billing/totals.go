package billing

import "github.com/jlupholstery/workshop-admin/internal/domain/entity"

// Customer-facing rates. The invoice tax rate is flat and deliberately
// independent of the per-company internal rates: cost accounting follows
// what suppliers charge, the customer always sees 13%.
const (
	CustomerTaxRate   = 0.13
	CardSurchargeRate = 0.025
)

// TotalsConfig carries the customer-facing rates so deployments in other
// provinces can override them.
type TotalsConfig struct {
	CustomerTaxRate   float64
	CardSurchargeRate float64
}

// DefaultTotalsConfig returns the rates the workshop bills with.
func DefaultTotalsConfig() TotalsConfig {
	return TotalsConfig{
		CustomerTaxRate:   CustomerTaxRate,
		CardSurchargeRate: CardSurchargeRate,
	}
}

// Totals is the full financial picture of an order: the invoice the
// customer sees plus the workshop's internal cost figures. The JL-prefixed
// fields are the internal totals and keep the names the old invoices used.
type Totals struct {
	ItemsSubtotal      float64 `json:"items_subtotal"`
	TaxAmount          float64 `json:"tax_amount"`
	PickupDeliveryCost float64 `json:"pickup_delivery_cost"`
	CardSurcharge      float64 `json:"card_surcharge,omitempty"`
	GrandTotal         float64 `json:"grand_total"`
	AmountPaid         float64 `json:"amount_paid"`
	BalanceDue         float64 `json:"balance_due"`

	JLGrandTotal        float64 `json:"jl_grand_total"`
	JLSubtotalBeforeTax float64 `json:"jl_subtotal_before_tax"`
}

// orderKind selects the totals strategy.
type orderKind int

const (
	kindRegular orderKind = iota
	kindCorporate
)

func kindOf(order *entity.Order) orderKind {
	if order.IsCorporate() {
		return kindCorporate
	}
	return kindRegular
}

// ComputeTotals produces the invoice totals for an order. The strategy is
// dispatched once on the order's shape: regular retail orders price by
// furniture-group categories, corporate orders by their own line items with
// an optional card surcharge. Both share the delivery rule and the internal
// cost pass.
func ComputeTotals(order *entity.Order, rates RateTable, cfg TotalsConfig) Totals {
	var t Totals

	switch kindOf(order) {
	case kindCorporate:
		t = corporateTotals(order, cfg)
	default:
		t = regularTotals(order, cfg)
	}

	internal := ComputeInternalCost(order, rates)
	t.JLGrandTotal = internal.Total
	t.JLSubtotalBeforeTax = internal.SubtotalBeforeTax

	t.AmountPaid = order.PaymentData.AmountPaid.Or(0)
	// Not clamped: an overpaid order shows a negative balance.
	t.BalanceDue = t.GrandTotal - t.AmountPaid

	return t
}

func regularTotals(order *entity.Order, cfg TotalsConfig) Totals {
	breakdown := ComputeBreakdown(order)

	t := Totals{
		ItemsSubtotal:      breakdown.ItemsSubtotal(),
		TaxAmount:          breakdown.TaxableSubtotal() * cfg.CustomerTaxRate,
		PickupDeliveryCost: pickupDeliveryCost(&order.PaymentData),
	}
	t.GrandTotal = t.ItemsSubtotal + t.TaxAmount + t.PickupDeliveryCost
	return t
}

func corporateTotals(order *entity.Order, cfg TotalsConfig) Totals {
	subtotal := 0.0
	for _, item := range order.CorporateItems {
		if item.Price.Positive() {
			subtotal += item.Price.Value * item.Quantity.Or(1)
		}
	}

	t := Totals{
		ItemsSubtotal:      subtotal,
		TaxAmount:          subtotal * cfg.CustomerTaxRate,
		PickupDeliveryCost: pickupDeliveryCost(&order.PaymentData),
	}

	if order.CardSurchargeEnabled {
		t.CardSurcharge = (t.ItemsSubtotal + t.PickupDeliveryCost + t.TaxAmount) * cfg.CardSurchargeRate
	}

	t.GrandTotal = t.ItemsSubtotal + t.TaxAmount + t.PickupDeliveryCost + t.CardSurcharge
	return t
}

// pickupDeliveryCost is zero unless delivery is enabled; the configured
// cost counts twice when the truck goes both ways.
func pickupDeliveryCost(p *entity.PaymentData) float64 {
	if !p.DeliveryEnabled {
		return 0
	}
	cost := p.DeliveryCost.Or(0)
	if p.DeliveryType == entity.DeliveryTypeBoth {
		return cost * 2
	}
	return cost
}
