package costing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landedcost/internal/core/apperror"
)

func testInput() CalculationInput {
	return CalculationInput{
		ProductName:         "Yunnan YNH-W-C5-001",
		Category:            "Coffee Green Beans",
		UnitPrice:           61,
		Currency:            CurrencyCNY,
		UnitsPerContainer:   19200,
		ContainerType:       Container20ft,
		ShippingCost:        2400,
		ShippingCurrency:    CurrencyUSD,
		LocalTransport:      0,
		NZTransport:         3500,
		DutyRate:            0.1,
		GSTRate:             15,
		GSTRegistered:       true,
		WeeklyWarehouseCost: 150,
		WeeksToSellStock:    6,
		OtherFees:           2240,
		Incoterms:           IncotermsFOB,
	}
}

// Reproduces a saved production calculation end to end.
func TestEngine_Compute_HistoricalScenario(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Compute(context.Background(), testInput(), DefaultRates())
	require.NoError(t, err)

	assert.InDelta(t, 274135.48, result.TotalCost, 0.005)
	assert.InDelta(t, 14.277889583333332, result.CostPerUnit, 1e-9)
	assert.InDelta(t, 63.45728703703703, result.CostPerUnitOriginal, 1e-9)

	// Line items
	assert.InDelta(t, 263520, result.Breakdown.ProductCost, 1e-6)   // 61 * 0.2250 * 19200
	assert.InDelta(t, 3960, result.Breakdown.ShippingCost, 1e-6)    // 2400 * 1.65
	assert.InDelta(t, 267480, result.CIFValue, 1e-6)                // product + freight
	assert.InDelta(t, 267.48, result.Breakdown.Duty, 1e-6)          // 0.1% of CIF
	assert.InDelta(t, 40162.122, result.Breakdown.GST, 1e-6)        // 15% of CIF+duty
	assert.InDelta(t, 648, result.Breakdown.WarehouseCost, 1e-9)    // 150/week over 6 weeks
	assert.Equal(t, IncotermsFOB, result.Breakdown.Incoterms)

	// Registered buyer: GST excluded from cost, included in cash flow.
	assert.InDelta(t, result.TotalCost+result.Breakdown.GST, result.TotalCashFlow, 1e-6)
}

func TestEngine_Compute_GSTTotals(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	registered := testInput()
	registered.GSTRegistered = true

	unregistered := testInput()
	unregistered.GSTRegistered = false

	rr, err := engine.Compute(ctx, registered, DefaultRates())
	require.NoError(t, err)
	ru, err := engine.Compute(ctx, unregistered, DefaultRates())
	require.NoError(t, err)

	// Registration changes only which total the GST lands in.
	assert.Greater(t, rr.TotalCashFlow, rr.TotalCost)
	assert.InDelta(t, ru.TotalCost, ru.TotalCashFlow, 1e-9)
	assert.InDelta(t, rr.TotalCashFlow, ru.TotalCost, 1e-9)
}

// The incoterm decides where freight and insurance land: FOB keeps freight as
// a visible line, CIF folds it (plus embedded insurance) into product cost.
func TestEngine_Compute_FOBvsCIF(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	fobInput := testInput()
	fobInput.Incoterms = IncotermsFOB

	cifInput := testInput()
	cifInput.Incoterms = IncotermsCIF

	fob, err := engine.Compute(ctx, fobInput, DefaultRates())
	require.NoError(t, err)
	cif, err := engine.Compute(ctx, cifInput, DefaultRates())
	require.NoError(t, err)

	freight := DefaultRates().Convert(fobInput.ShippingCost, fobInput.ShippingCurrency)

	assert.InDelta(t, freight, fob.Breakdown.ShippingCost, 1e-9)
	assert.Zero(t, cif.Breakdown.ShippingCost)
	assert.InDelta(t, freight, cif.Breakdown.OriginalShippingCost, 1e-9)

	// With zero insurance the CIF product cost exceeds FOB by exactly the freight.
	assert.InDelta(t, fob.Breakdown.ProductCost+freight, cif.Breakdown.ProductCost, 1e-9)
}

func TestEngine_Compute_CIFInsuranceEmbedding(t *testing.T) {
	engine := NewEngine()

	in := testInput()
	in.Incoterms = IncotermsCIF
	in.InsuranceRate = 2

	result, err := engine.Compute(context.Background(), in, DefaultRates())
	require.NoError(t, err)

	freight := DefaultRates().Convert(in.ShippingCost, in.ShippingCurrency)
	preCIF := 263520.0 + freight // product value + freight, local transport is zero
	embedded := preCIF * 0.02

	assert.InDelta(t, 263520+freight+embedded, result.Breakdown.ProductCost, 1e-6)
	// Valuation is rebuilt on the inflated product value.
	assert.InDelta(t, result.Breakdown.ProductCost, result.CIFValue, 1e-9)
	// Display insurance is quoted on the final valuation, not the embedded amount.
	assert.InDelta(t, result.CIFValue*0.02, result.Breakdown.Insurance, 1e-9)
}

func TestEngine_Compute_ExchangeMargin(t *testing.T) {
	engine := NewEngine()

	in := testInput()
	in.ExchangeMargin = 2.5

	result, err := engine.Compute(context.Background(), in, DefaultRates())
	require.NoError(t, err)

	// Margin applies once, to the full container product value.
	assert.InDelta(t, 263520*1.025, result.Breakdown.ProductCost, 1e-6)
}

func TestEngine_Compute_InvalidInput(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CalculationInput)
	}{
		{"zero unit price", func(in *CalculationInput) { in.UnitPrice = 0 }},
		{"negative unit price", func(in *CalculationInput) { in.UnitPrice = -5 }},
		{"zero units", func(in *CalculationInput) { in.UnitsPerContainer = 0 }},
		{"negative units", func(in *CalculationInput) { in.UnitsPerContainer = -100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput()
			tt.mutate(&in)

			result, err := engine.Compute(ctx, in, DefaultRates())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperror.IsInvalidInput(err))
		})
	}
}

func TestEngine_Compute_IdentityDefaults(t *testing.T) {
	engine := NewEngine()

	in := testInput()
	in.ProductName = ""
	in.Category = ""

	result, err := engine.Compute(context.Background(), in, DefaultRates())
	require.NoError(t, err)

	assert.Equal(t, DefaultProductName, result.Input.ProductName)
	assert.Equal(t, DefaultCategory, result.Input.Category)
}
