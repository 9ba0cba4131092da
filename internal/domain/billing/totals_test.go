package billing

import (
	"testing"

	"github.com/jlupholstery/workshop-admin/internal/domain/entity"
)

func emptyRates() RateTable {
	return NewRateTable(nil, 0.13)
}

// The worked example from the invoice screen: material 100 x 2, labour
// 50 x 1, foam disabled, no delivery.
func TestComputeTotals_Example(t *testing.T) {
	order := &entity.Order{
		FurnitureGroups: []entity.FurnitureGroup{
			{
				Material: entity.CategoryLine{Price: entity.Flex(100), Quantity: entity.Flex(2)},
				Labour:   entity.CategoryLine{Price: entity.Flex(50), Quantity: entity.Flex(1)},
				Foam:     entity.CategoryLine{Price: entity.Flex(30)},
			},
		},
	}

	totals := ComputeTotals(order, emptyRates(), DefaultTotalsConfig())

	if !almostEqual(totals.ItemsSubtotal, 250) {
		t.Errorf("ItemsSubtotal = %v, want 250", totals.ItemsSubtotal)
	}
	if !almostEqual(totals.TaxAmount, 26) {
		t.Errorf("TaxAmount = %v, want 26 (13%% of material only)", totals.TaxAmount)
	}
	if totals.PickupDeliveryCost != 0 {
		t.Errorf("PickupDeliveryCost = %v, want 0", totals.PickupDeliveryCost)
	}
	if !almostEqual(totals.GrandTotal, 276) {
		t.Errorf("GrandTotal = %v, want 276", totals.GrandTotal)
	}
}

func TestComputeTotals_TaxOnlyOnMaterialAndFoam(t *testing.T) {
	order := &entity.Order{
		FurnitureGroups: []entity.FurnitureGroup{
			{
				Material:        entity.CategoryLine{Price: entity.Flex(100), Quantity: entity.Flex(1)},
				Labour:          entity.CategoryLine{Price: entity.Flex(10000)},
				Foam:            entity.CategoryLine{Price: entity.Flex(50)},
				FoamEnabled:     true,
				Painting:        entity.CategoryLine{Price: entity.Flex(5000)},
				PaintingEnabled: true,
			},
		},
	}

	totals := ComputeTotals(order, emptyRates(), DefaultTotalsConfig())

	if !almostEqual(totals.TaxAmount, (100+50)*0.13) {
		t.Errorf("TaxAmount = %v, want %v; labour and painting must not be taxed",
			totals.TaxAmount, (100+50)*0.13)
	}
}

func TestComputeTotals_Delivery(t *testing.T) {
	tests := []struct {
		name    string
		payment entity.PaymentData
		want    float64
	}{
		{"disabled", entity.PaymentData{DeliveryCost: entity.Flex(60)}, 0},
		{"pickup", entity.PaymentData{DeliveryEnabled: true, DeliveryCost: entity.Flex(60), DeliveryType: entity.DeliveryTypePickup}, 60},
		{"delivery", entity.PaymentData{DeliveryEnabled: true, DeliveryCost: entity.Flex(60), DeliveryType: entity.DeliveryTypeDelivery}, 60},
		{"both ways", entity.PaymentData{DeliveryEnabled: true, DeliveryCost: entity.Flex(60), DeliveryType: entity.DeliveryTypeBoth}, 120},
		{"enabled without cost", entity.PaymentData{DeliveryEnabled: true, DeliveryType: entity.DeliveryTypeBoth}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &entity.Order{PaymentData: tt.payment}
			totals := ComputeTotals(order, emptyRates(), DefaultTotalsConfig())
			if totals.PickupDeliveryCost != tt.want {
				t.Errorf("PickupDeliveryCost = %v, want %v", totals.PickupDeliveryCost, tt.want)
			}
			if totals.GrandTotal != tt.want {
				t.Errorf("GrandTotal = %v, want %v for an empty order", totals.GrandTotal, tt.want)
			}
		})
	}
}

func TestComputeTotals_BalanceDueNotClamped(t *testing.T) {
	order := &entity.Order{
		FurnitureGroups: []entity.FurnitureGroup{
			{Labour: entity.CategoryLine{Price: entity.Flex(100)}},
		},
		PaymentData: entity.PaymentData{AmountPaid: entity.Flex(150)},
	}

	totals := ComputeTotals(order, emptyRates(), DefaultTotalsConfig())

	if !almostEqual(totals.BalanceDue, -50) {
		t.Errorf("BalanceDue = %v, want -50 (overpayment stays visible)", totals.BalanceDue)
	}
}

func TestComputeTotals_AmountPaidDefaultsToZero(t *testing.T) {
	order := &entity.Order{}
	totals := ComputeTotals(order, emptyRates(), DefaultTotalsConfig())
	if totals.AmountPaid != 0 || totals.BalanceDue != 0 {
		t.Errorf("AmountPaid = %v, BalanceDue = %v, want 0, 0", totals.AmountPaid, totals.BalanceDue)
	}
}

func TestComputeTotals_InternalTotals(t *testing.T) {
	rates := NewRateTable(map[string]float64{"marcatex": 0.10}, 0.13)
	order := &entity.Order{
		FurnitureGroups: []entity.FurnitureGroup{
			{
				MaterialCompany:          "marcatex",
				InternalMaterialPrice:    entity.Flex(50),
				InternalMaterialQuantity: entity.Flex(2),
			},
		},
	}

	totals := ComputeTotals(order, rates, DefaultTotalsConfig())

	if !almostEqual(totals.JLSubtotalBeforeTax, 100) {
		t.Errorf("JLSubtotalBeforeTax = %v, want 100", totals.JLSubtotalBeforeTax)
	}
	if !almostEqual(totals.JLGrandTotal, 110) {
		t.Errorf("JLGrandTotal = %v, want 110", totals.JLGrandTotal)
	}
}

func TestComputeTotals_CorporateOrder(t *testing.T) {
	order := &entity.Order{
		CorporateItems: []entity.CorporateLineItem{
			{Description: "lobby benches", Price: entity.Flex(200), Quantity: entity.Flex(4)},
			{Description: "misc", Price: entity.Flex(100)}, // quantity defaults to 1
		},
		PaymentData: entity.PaymentData{
			DeliveryEnabled: true,
			DeliveryCost:    entity.Flex(50),
			DeliveryType:    entity.DeliveryTypeBoth,
		},
		// A priced furniture group must be ignored in corporate mode.
		FurnitureGroups: []entity.FurnitureGroup{
			{Labour: entity.CategoryLine{Price: entity.Flex(9999)}},
		},
	}

	totals := ComputeTotals(order, emptyRates(), DefaultTotalsConfig())

	if !almostEqual(totals.ItemsSubtotal, 900) {
		t.Errorf("ItemsSubtotal = %v, want 900", totals.ItemsSubtotal)
	}
	if !almostEqual(totals.TaxAmount, 900*0.13) {
		t.Errorf("TaxAmount = %v, want %v", totals.TaxAmount, 900*0.13)
	}
	if !almostEqual(totals.PickupDeliveryCost, 100) {
		t.Errorf("PickupDeliveryCost = %v, want 100", totals.PickupDeliveryCost)
	}
	if totals.CardSurcharge != 0 {
		t.Errorf("CardSurcharge = %v, want 0 when not enabled", totals.CardSurcharge)
	}
	if !almostEqual(totals.GrandTotal, 900+117+100) {
		t.Errorf("GrandTotal = %v, want %v", totals.GrandTotal, 900+117+100.0)
	}
}

func TestComputeTotals_CorporateCardSurcharge(t *testing.T) {
	order := &entity.Order{
		CorporateItems: []entity.CorporateLineItem{
			{Description: "chairs", Price: entity.Flex(1000), Quantity: entity.Flex(1)},
		},
		CardSurchargeEnabled: true,
	}

	totals := ComputeTotals(order, emptyRates(), DefaultTotalsConfig())

	base := 1000 + 1000*0.13
	if !almostEqual(totals.CardSurcharge, base*0.025) {
		t.Errorf("CardSurcharge = %v, want %v", totals.CardSurcharge, base*0.025)
	}
	if !almostEqual(totals.GrandTotal, base+base*0.025) {
		t.Errorf("GrandTotal = %v, want %v", totals.GrandTotal, base+base*0.025)
	}
}
