package dto

import (
	"github.com/shopspring/decimal"

	"landedcost/internal/domain/costing"
)

// CalculateRequest is the full input for one landed-cost calculation. Rate
// fields are pointers where "omitted" must stay distinguishable from an
// explicit zero.
type CalculateRequest struct {
	ProductName string `json:"productName"`
	Category    string `json:"category"`

	UnitPrice         float64 `json:"unitPrice"`
	Currency          string  `json:"currency"`
	UnitsPerContainer int     `json:"unitsPerContainer"`

	ContainerType    string  `json:"containerType"`
	ShippingCost     float64 `json:"shippingCost"`
	ShippingCurrency string  `json:"shippingCurrency"`
	LocalTransport   float64 `json:"localTransport"`
	NZTransport      float64 `json:"nzTransport"`

	DutyRate         float64  `json:"dutyRate"`
	GSTRate          *float64 `json:"gstRate"`
	GSTRegistered    bool     `json:"gstRegistered"`
	CustomsBrokerage float64  `json:"customsBrokerage"`
	DocumentFees     float64  `json:"documentFees"`

	WeeklyWarehouseCost float64 `json:"weeklyWarehouseCost"`
	WeeksToSellStock    float64 `json:"weeksToSellStock"`

	InsuranceRate  float64 `json:"insuranceRate"`
	BankFees       float64 `json:"bankFees"`
	InspectionFees float64 `json:"inspectionFees"`
	OtherFees      float64 `json:"otherFees"`

	ExchangeMargin float64 `json:"exchangeMargin"`
	Incoterms      string  `json:"incoterms"`

	// ExchangeRates optionally overrides the configured table for this
	// request, as decimal strings keyed by currency code.
	ExchangeRates map[string]string `json:"exchangeRates,omitempty"`
}

// ToInput converts the request into a domain input, resolving the GST rate
// default.
func (r *CalculateRequest) ToInput() costing.CalculationInput {
	gstRate := costing.DefaultGSTRate
	if r.GSTRate != nil {
		gstRate = *r.GSTRate
	}

	return costing.CalculationInput{
		ProductName:         r.ProductName,
		Category:            r.Category,
		UnitPrice:           r.UnitPrice,
		Currency:            costing.Currency(r.Currency),
		UnitsPerContainer:   r.UnitsPerContainer,
		ContainerType:       costing.ContainerType(r.ContainerType),
		ShippingCost:        r.ShippingCost,
		ShippingCurrency:    costing.Currency(r.ShippingCurrency),
		LocalTransport:      r.LocalTransport,
		NZTransport:         r.NZTransport,
		DutyRate:            r.DutyRate,
		GSTRate:             gstRate,
		GSTRegistered:       r.GSTRegistered,
		CustomsBrokerage:    r.CustomsBrokerage,
		DocumentFees:        r.DocumentFees,
		WeeklyWarehouseCost: r.WeeklyWarehouseCost,
		WeeksToSellStock:    r.WeeksToSellStock,
		InsuranceRate:       r.InsuranceRate,
		BankFees:            r.BankFees,
		InspectionFees:      r.InspectionFees,
		OtherFees:           r.OtherFees,
		ExchangeMargin:      r.ExchangeMargin,
		Incoterms:           costing.Incoterms(r.Incoterms),
	}
}

// RateOverrides converts the optional per-request exchange rates into the
// domain map, or nil when none were sent.
func (r *CalculateRequest) RateOverrides() map[costing.Currency]string {
	if len(r.ExchangeRates) == 0 {
		return nil
	}
	rates := make(map[costing.Currency]string, len(r.ExchangeRates))
	for cur, raw := range r.ExchangeRates {
		rates[costing.Currency(cur)] = raw
	}
	return rates
}

// DisplaySummary carries totals pre-formatted for direct rendering.
type DisplaySummary struct {
	TotalCost           string `json:"totalCost"`
	TotalCashFlow       string `json:"totalCashFlow"`
	CostPerUnit         string `json:"costPerUnit"`
	CostPerUnitOriginal string `json:"costPerUnitOriginal"`
	ReportCurrency      string `json:"reportCurrency"`
	OriginalCurrency    string `json:"originalCurrency"`
}

// CalculateResponse returns the raw result plus display-rounded totals.
type CalculateResponse struct {
	Input     costing.CalculationInput `json:"input"`
	Breakdown costing.CostBreakdown    `json:"breakdown"`

	TotalCost           float64 `json:"totalCost"`
	TotalCashFlow       float64 `json:"totalCashFlow"`
	CostPerUnit         float64 `json:"costPerUnit"`
	CostPerUnitOriginal float64 `json:"costPerUnitOriginal"`
	CIFValue            float64 `json:"cifValue"`

	Display DisplaySummary `json:"display"`
}

// NewCalculateResponse builds the response for a calculation result.
func NewCalculateResponse(result *costing.CalculationResult) CalculateResponse {
	return CalculateResponse{
		Input:               result.Input,
		Breakdown:           result.Breakdown,
		TotalCost:           result.TotalCost,
		TotalCashFlow:       result.TotalCashFlow,
		CostPerUnit:         result.CostPerUnit,
		CostPerUnitOriginal: result.CostPerUnitOriginal,
		CIFValue:            result.CIFValue,
		Display: DisplaySummary{
			TotalCost:           money(result.TotalCost),
			TotalCashFlow:       money(result.TotalCashFlow),
			CostPerUnit:         money(result.CostPerUnit),
			CostPerUnitOriginal: money(result.CostPerUnitOriginal),
			ReportCurrency:      string(result.Rates.Report),
			OriginalCurrency:    string(result.Input.Currency),
		},
	}
}

// money rounds for display with two decimal places.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// PriceFromMarginRequest derives a selling price from a target margin.
type PriceFromMarginRequest struct {
	MarginPct   float64 `json:"marginPct"`
	CostPerUnit float64 `json:"costPerUnit"`
}

// MarginFromPriceRequest derives margin figures from a selling price.
type MarginFromPriceRequest struct {
	SellingPrice float64 `json:"sellingPrice"`
	CostPerUnit  float64 `json:"costPerUnit"`
}

// PriceQuoteResponse mirrors costing.PriceQuote with display rounding.
type PriceQuoteResponse struct {
	SellingPrice float64 `json:"sellingPrice"`
	Profit       float64 `json:"profit"`
	MarkupPct    float64 `json:"markupPct"`

	Display struct {
		SellingPrice string `json:"sellingPrice"`
		Profit       string `json:"profit"`
		MarkupPct    string `json:"markupPct"`
	} `json:"display"`
}

// NewPriceQuoteResponse builds the response for a price quote.
func NewPriceQuoteResponse(q costing.PriceQuote) PriceQuoteResponse {
	resp := PriceQuoteResponse{
		SellingPrice: q.SellingPrice,
		Profit:       q.Profit,
		MarkupPct:    q.MarkupPct,
	}
	resp.Display.SellingPrice = money(q.SellingPrice)
	resp.Display.Profit = money(q.Profit)
	resp.Display.MarkupPct = money(q.MarkupPct)
	return resp
}

// MarginQuoteResponse mirrors costing.MarginQuote with display rounding.
type MarginQuoteResponse struct {
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"marginPct"`
	MarkupPct float64 `json:"markupPct"`

	Display struct {
		Profit    string `json:"profit"`
		MarginPct string `json:"marginPct"`
		MarkupPct string `json:"markupPct"`
	} `json:"display"`
}

// NewMarginQuoteResponse builds the response for a margin quote.
func NewMarginQuoteResponse(q costing.MarginQuote) MarginQuoteResponse {
	resp := MarginQuoteResponse{
		Profit:    q.Profit,
		MarginPct: q.MarginPct,
		MarkupPct: q.MarkupPct,
	}
	resp.Display.Profit = money(q.Profit)
	resp.Display.MarginPct = money(q.MarginPct)
	resp.Display.MarkupPct = money(q.MarkupPct)
	return resp
}
