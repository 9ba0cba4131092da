package entity

// CategoryLine is one priced category (material, labour, foam, painting)
// on a furniture group.
type CategoryLine struct {
	Price    FlexFloat `json:"price"`
	Quantity FlexFloat `json:"quantity"`
	Note     string    `json:"note,omitempty"`
}

// FurnitureGroup is one piece of furniture within an order. The customer
// sees the category prices; the internal material/foam pair is what the
// job actually costs the workshop and never appears on an invoice.
type FurnitureGroup struct {
	TypeLabel string `json:"type_label"`

	Material CategoryLine `json:"material"`
	Labour   CategoryLine `json:"labour"`
	Foam     CategoryLine `json:"foam"`
	Painting CategoryLine `json:"painting"`

	// Foam and painting are optional work; their lines count only when
	// enabled.
	FoamEnabled     bool `json:"foam_enabled"`
	PaintingEnabled bool `json:"painting_enabled"`

	// MaterialCompany selects the internal tax rate for the material cost.
	MaterialCompany string `json:"material_company,omitempty"`

	InternalMaterialPrice    FlexFloat `json:"internal_material_price"`
	InternalMaterialQuantity FlexFloat `json:"internal_material_quantity"`
	InternalFoamPrice        FlexFloat `json:"internal_foam_price"`

	OtherExpenses FlexFloat `json:"other_expenses"`
	Shipping      FlexFloat `json:"shipping"`
}
