package dto

import (
	"time"

	"landedcost/internal/domain/records"
)

// RecordSummary is the browse-list view of a saved calculation.
type RecordSummary struct {
	ID                  string    `json:"id"`
	ProductName         string    `json:"productName"`
	Category            string    `json:"category"`
	UnitPrice           float64   `json:"unitPrice"`
	Currency            string    `json:"currency"`
	UnitsPerContainer   int       `json:"unitsPerContainer"`
	ContainerType       string    `json:"containerType"`
	TotalCost           float64   `json:"totalCost"`
	CostPerUnit         float64   `json:"costPerUnit"`
	CostPerUnitOriginal float64   `json:"costPerUnitOriginal"`
	CreatedAt           time.Time `json:"createdAt"`
	LastModified        time.Time `json:"lastModified"`
}

// NewRecordSummary flattens a record for the browse list.
func NewRecordSummary(rec *records.SavedCalculation) RecordSummary {
	return RecordSummary{
		ID:                  rec.ID.String(),
		ProductName:         rec.ProductName,
		Category:            rec.Category,
		UnitPrice:           rec.UnitPrice,
		Currency:            string(rec.Currency),
		UnitsPerContainer:   rec.UnitsPerContainer,
		ContainerType:       string(rec.ContainerType),
		TotalCost:           rec.TotalCost,
		CostPerUnit:         rec.CostPerUnit,
		CostPerUnitOriginal: rec.CostPerUnitOriginal,
		CreatedAt:           rec.CreatedAt,
		LastModified:        rec.LastModified,
	}
}

// RecordResponse is the full record view, input snapshot included, so the
// client can reload the calculation exactly as it was saved.
type RecordResponse struct {
	RecordSummary
	Input     CalculateRequest `json:"input"`
	StoreMode string           `json:"storeMode,omitempty"`
}

// NewRecordResponse builds the full record view.
func NewRecordResponse(rec *records.SavedCalculation, storeMode string) RecordResponse {
	in := rec.Input
	gstRate := in.GSTRate

	return RecordResponse{
		RecordSummary: NewRecordSummary(rec),
		Input: CalculateRequest{
			ProductName:         in.ProductName,
			Category:            in.Category,
			UnitPrice:           in.UnitPrice,
			Currency:            string(in.Currency),
			UnitsPerContainer:   in.UnitsPerContainer,
			ContainerType:       string(in.ContainerType),
			ShippingCost:        in.ShippingCost,
			ShippingCurrency:    string(in.ShippingCurrency),
			LocalTransport:      in.LocalTransport,
			NZTransport:         in.NZTransport,
			DutyRate:            in.DutyRate,
			GSTRate:             &gstRate,
			GSTRegistered:       in.GSTRegistered,
			CustomsBrokerage:    in.CustomsBrokerage,
			DocumentFees:        in.DocumentFees,
			WeeklyWarehouseCost: in.WeeklyWarehouseCost,
			WeeksToSellStock:    in.WeeksToSellStock,
			InsuranceRate:       in.InsuranceRate,
			BankFees:            in.BankFees,
			InspectionFees:      in.InspectionFees,
			OtherFees:           in.OtherFees,
			ExchangeMargin:      in.ExchangeMargin,
			Incoterms:           string(in.Incoterms),
		},
		StoreMode: storeMode,
	}
}

// CategoriesResponse lists the distinct categories across saved records.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	StoreMode  string   `json:"storeMode,omitempty"`
}
