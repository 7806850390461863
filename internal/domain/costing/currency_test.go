package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateTable_Convert(t *testing.T) {
	rates := DefaultRates()

	tests := []struct {
		name   string
		amount float64
		from   Currency
		want   float64
	}{
		{"zero amount short-circuits", 0, CurrencyCNY, 0},
		{"cny to report", 100, CurrencyCNY, 22.50},
		{"usd to report", 100, CurrencyUSD, 165},
		{"report currency is identity", 42.5, CurrencyNZD, 42.5},
		{"unknown code passes through", 99, Currency("EUR"), 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, rates.Convert(tt.amount, tt.from), 1e-9)
		})
	}
}

func TestParseRateTable(t *testing.T) {
	table, err := ParseRateTable(CurrencyNZD, map[Currency]string{
		CurrencyCNY: "0.2250",
		CurrencyUSD: "1.6500",
	})
	require.NoError(t, err)

	assert.Equal(t, CurrencyNZD, table.Report)
	assert.InDelta(t, 0.225, table.Rate(CurrencyCNY), 1e-12)
	assert.InDelta(t, 1.65, table.Rate(CurrencyUSD), 1e-12)
}

func TestParseRateTable_Invalid(t *testing.T) {
	_, err := ParseRateTable(CurrencyNZD, map[Currency]string{CurrencyCNY: "abc"})
	require.Error(t, err)

	_, err = ParseRateTable(CurrencyNZD, map[Currency]string{CurrencyCNY: "-0.5"})
	require.Error(t, err)

	_, err = ParseRateTable(CurrencyNZD, map[Currency]string{CurrencyUSD: "0"})
	require.Error(t, err)
}

func TestParseRateTable_DefaultReport(t *testing.T) {
	table, err := ParseRateTable("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultReportCurrency, table.Report)
}
