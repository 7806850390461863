package costing

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// CalculatorVersion is stamped into every export document.
const CalculatorVersion = "1.0"

// ExportDocument is the file-export shape of a calculation. Summary field
// names are part of the file format and must stay stable across versions.
type ExportDocument struct {
	ProductInfo   ExportProductInfo    `json:"productInfo"`
	Costs         ExportCosts          `json:"costs"`
	Summary       ExportSummary        `json:"summary"`
	ExchangeRates map[Currency]float64 `json:"exchangeRates"`
	ExportDate    time.Time            `json:"exportDate"`
	Version       string               `json:"calculatorVersion"`
}

type ExportProductInfo struct {
	Name              string        `json:"name"`
	Category          string        `json:"category"`
	UnitPrice         float64       `json:"unitPrice"`
	Currency          Currency      `json:"currency"`
	UnitsPerContainer int           `json:"unitsPerContainer"`
	ContainerType     ContainerType `json:"containerType"`
}

type ExportCosts struct {
	ProductCost      float64 `json:"productCost"`
	ShippingCost     float64 `json:"shippingCost"`
	LocalTransport   float64 `json:"localTransport"`
	NZTransport      float64 `json:"nzTransport"`
	Duty             float64 `json:"duty"`
	GST              float64 `json:"gst"`
	Insurance        float64 `json:"insurance"`
	WarehouseCost    float64 `json:"warehouseCost"`
	CustomsBrokerage float64 `json:"customsBrokerage"`
	DocumentFees     float64 `json:"documentFees"`
	BankFees         float64 `json:"bankFees"`
	InspectionFees   float64 `json:"inspectionFees"`
	OtherFees        float64 `json:"otherFees"`
}

type ExportSummary struct {
	TotalCost           float64   `json:"totalCostNZD"`
	CostPerUnit         float64   `json:"costPerUnitNZD"`
	CostPerUnitOriginal float64   `json:"costPerUnitOriginal"`
	Incoterms           Incoterms `json:"incoterms"`
	ReportCurrency      Currency  `json:"reportCurrency"`
}

// Export builds the export document for a calculation result.
func Export(result *CalculationResult, now time.Time) ExportDocument {
	in := result.Input
	b := result.Breakdown

	return ExportDocument{
		ProductInfo: ExportProductInfo{
			Name:              in.ProductName,
			Category:          in.Category,
			UnitPrice:         in.UnitPrice,
			Currency:          in.Currency,
			UnitsPerContainer: in.UnitsPerContainer,
			ContainerType:     in.ContainerType,
		},
		Costs: ExportCosts{
			ProductCost:      b.ProductCost,
			ShippingCost:     b.ShippingCost,
			LocalTransport:   b.LocalTransport,
			NZTransport:      b.NZTransport,
			Duty:             b.Duty,
			GST:              b.GST,
			Insurance:        b.Insurance,
			WarehouseCost:    b.WarehouseCost,
			CustomsBrokerage: b.CustomsBrokerage,
			DocumentFees:     b.DocumentFees,
			BankFees:         b.BankFees,
			InspectionFees:   b.InspectionFees,
			OtherFees:        b.OtherFees,
		},
		Summary: ExportSummary{
			TotalCost:           result.TotalCost,
			CostPerUnit:         result.CostPerUnit,
			CostPerUnitOriginal: result.CostPerUnitOriginal,
			Incoterms:           in.Incoterms,
			ReportCurrency:      result.Rates.Report,
		},
		ExchangeRates: result.Rates.Rates,
		ExportDate:    now.UTC(),
		Version:       CalculatorVersion,
	}
}

// ExportFileName suggests a download name derived from the product name and
// export date, safe for any filesystem.
func ExportFileName(productName string, date time.Time) string {
	slug := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, productName)

	return fmt.Sprintf("export-cost-calculation-%s-%s.json", slug, date.UTC().Format("2006-01-02"))
}
