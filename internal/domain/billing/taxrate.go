package billing

import "strings"

// DefaultInternalTaxRate applies when a material company has no configured
// rate.
const DefaultInternalTaxRate = 0.13

// RateTable maps material-company names to the tax rate the workshop pays
// on their invoices. Lookups are case-insensitive and tolerate partial
// names in either direction, because the UI stores whatever the clerk
// typed ("Marcatex" vs "Marcatex Fabrics Inc").
type RateTable struct {
	rates       map[string]float64
	defaultRate float64
}

// NewRateTable builds a rate table. Keys are lowercased on the way in.
// A defaultRate of zero falls back to DefaultInternalTaxRate.
func NewRateTable(rates map[string]float64, defaultRate float64) RateTable {
	if defaultRate == 0 {
		defaultRate = DefaultInternalTaxRate
	}
	normalized := make(map[string]float64, len(rates))
	for name, rate := range rates {
		normalized[strings.ToLower(strings.TrimSpace(name))] = rate
	}
	return RateTable{rates: normalized, defaultRate: defaultRate}
}

// DefaultRate returns the fallback rate for unknown companies.
func (t RateTable) DefaultRate() float64 {
	return t.defaultRate
}

// RateFor resolves the internal tax rate for a company. Exact match first,
// then substring match in either direction, then the default.
func (t RateTable) RateFor(company string) float64 {
	name := strings.ToLower(strings.TrimSpace(company))
	if name == "" {
		return t.defaultRate
	}

	if rate, ok := t.rates[name]; ok {
		return rate
	}

	for known, rate := range t.rates {
		if strings.Contains(known, name) || strings.Contains(name, known) {
			return rate
		}
	}

	return t.defaultRate
}
