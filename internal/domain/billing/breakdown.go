package billing

import "github.com/jlupholstery/workshop-admin/internal/domain/entity"

// Breakdown is the customer-facing subtotal of an order split by work
// category. All fields are non-negative sums of price × quantity across
// furniture groups.
type Breakdown struct {
	Material float64 `json:"material"`
	Labour   float64 `json:"labour"`
	Foam     float64 `json:"foam"`
	Painting float64 `json:"painting"`
}

// ItemsSubtotal is the sum of all four categories.
func (b Breakdown) ItemsSubtotal() float64 {
	return b.Material + b.Labour + b.Foam + b.Painting
}

// TaxableSubtotal is the portion the customer pays tax on. Only material
// and foam are taxed; labour and painting never are.
func (b Breakdown) TaxableSubtotal() float64 {
	return b.Material + b.Foam
}

// ComputeBreakdown reduces an order's furniture groups into categorized
// subtotals. A category contributes only when its price is a positive
// number and its enable flag, if it has one, is set. Quantity defaults to
// 1 when absent, except material quantity which defaults to 0: material
// without yardage entered is a quote placeholder, not a sale.
func ComputeBreakdown(order *entity.Order) Breakdown {
	var b Breakdown
	for _, group := range order.FurnitureGroups {
		if group.Material.Price.Positive() {
			b.Material += group.Material.Price.Value * group.Material.Quantity.Or(0)
		}
		if group.Labour.Price.Positive() {
			b.Labour += group.Labour.Price.Value * group.Labour.Quantity.Or(1)
		}
		if group.FoamEnabled && group.Foam.Price.Positive() {
			b.Foam += group.Foam.Price.Value * group.Foam.Quantity.Or(1)
		}
		if group.PaintingEnabled && group.Painting.Price.Positive() {
			b.Painting += group.Painting.Price.Value * group.Painting.Quantity.Or(1)
		}
	}
	return b
}

// InternalCost is what the job costs the workshop, as opposed to what the
// customer is invoiced. Material is taxed at the supplier's rate; foam is
// bought tax-exempt.
type InternalCost struct {
	SubtotalBeforeTax float64 `json:"subtotal_before_tax"`
	Total             float64 `json:"total"`
}

// ComputeInternalCost runs the internal-cost pass over an order: supplier
// material cost taxed per company, foam cost untaxed, group-level other
// expenses and shipping, plus all order-level extra expenses.
func ComputeInternalCost(order *entity.Order, rates RateTable) InternalCost {
	var cost InternalCost

	for _, group := range order.FurnitureGroups {
		materialCost := group.InternalMaterialQuantity.Or(0) * group.InternalMaterialPrice.Or(0)
		foamCost := group.Foam.Quantity.Or(1) * group.InternalFoamPrice.Or(0)
		extras := group.OtherExpenses.Or(0) + group.Shipping.Or(0)

		cost.SubtotalBeforeTax += materialCost + foamCost + extras
		cost.Total += materialCost*(1+rates.RateFor(group.MaterialCompany)) + foamCost + extras
	}

	for _, expense := range order.ExtraExpenses {
		total := expense.Total.Or(0)
		cost.SubtotalBeforeTax += total
		cost.Total += total
	}

	return cost
}
