// Package costing implements the landed-cost calculation engine: currency
// conversion, warehouse amortization, incoterm-dependent cost assembly and
// margin/markup algebra. Everything here is pure computation; persistence and
// HTTP live in infrastructure.
package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO-style alphabetic currency code.
type Currency string

const (
	CurrencyCNY Currency = "CNY"
	CurrencyUSD Currency = "USD"
	CurrencyNZD Currency = "NZD"
)

// DefaultReportCurrency is the report currency when none is configured.
const DefaultReportCurrency = CurrencyNZD

// Default exchange rates, used when no table is configured.
const (
	defaultRateCNY = 0.2250
	defaultRateUSD = 1.6500
)

// RateTable maps source currencies to multipliers into the report currency.
type RateTable struct {
	Report Currency
	Rates  map[Currency]float64
}

// DefaultRates returns the built-in rate table (CNY and USD into NZD).
func DefaultRates() RateTable {
	return RateTable{
		Report: DefaultReportCurrency,
		Rates: map[Currency]float64{
			CurrencyCNY: defaultRateCNY,
			CurrencyUSD: defaultRateUSD,
		},
	}
}

// ParseRateTable builds a RateTable from configured decimal strings.
// Rates are validated as positive decimals before being used as multipliers.
func ParseRateTable(report Currency, rates map[Currency]string) (RateTable, error) {
	if report == "" {
		report = DefaultReportCurrency
	}

	table := RateTable{Report: report, Rates: make(map[Currency]float64, len(rates))}
	for cur, raw := range rates {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return RateTable{}, fmt.Errorf("parse rate %s: %w", cur, err)
		}
		if !d.IsPositive() {
			return RateTable{}, fmt.Errorf("rate %s must be positive, got %s", cur, d)
		}
		table.Rates[cur] = d.InexactFloat64()
	}
	return table, nil
}

// Rate returns the multiplier from the given currency into the report
// currency. The report currency and unknown codes map to 1.
func (t RateTable) Rate(from Currency) float64 {
	if from == t.Report {
		return 1
	}
	if r, ok := t.Rates[from]; ok {
		return r
	}
	return 1
}

// Convert converts an amount into the report currency.
//
// Unknown currency codes pass through unchanged rather than failing; callers
// that want strictness must validate codes before converting.
func (t RateTable) Convert(amount float64, from Currency) float64 {
	if amount == 0 {
		return 0
	}
	return amount * t.Rate(from)
}
