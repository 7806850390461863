package costing

import (
	"context"

	"landedcost/internal/core/apperror"
)

// Incoterms determine whether freight and insurance are borne separately by
// the buyer (FOB) or pre-bundled into the unit price by the seller (CIF).
type Incoterms string

const (
	IncotermsFOB Incoterms = "FOB"
	IncotermsCIF Incoterms = "CIF"
)

// ContainerType is informational; it does not enter the arithmetic.
type ContainerType string

const (
	Container20ft   ContainerType = "20ft"
	Container40ft   ContainerType = "40ft"
	Container40ftHC ContainerType = "40ft-hc"
	ContainerLCL    ContainerType = "lcl"
)

// Default identity values applied when the caller leaves them blank.
const (
	DefaultProductName = "Unnamed Product"
	DefaultCategory    = "Uncategorized"
)

// DefaultGSTRate is the GST percentage assumed when the input omits it.
const DefaultGSTRate = 15.0

// CalculationInput is the full parameter set for one engine run. It is a
// value object: the engine never mutates it, and a saved record snapshots it
// verbatim so a reload reproduces the calculation exactly.
type CalculationInput struct {
	// Identity
	ProductName string `json:"productName"`
	Category    string `json:"category"`

	// Unit economics
	UnitPrice         float64  `json:"unitPrice"`
	Currency          Currency `json:"currency"`
	UnitsPerContainer int      `json:"unitsPerContainer"`

	// Logistics
	ContainerType    ContainerType `json:"containerType"`
	ShippingCost     float64       `json:"shippingCost"`
	ShippingCurrency Currency      `json:"shippingCurrency"`
	LocalTransport   float64       `json:"localTransport"`
	NZTransport      float64       `json:"nzTransport"`

	// Customs
	DutyRate         float64 `json:"dutyRate"`
	GSTRate          float64 `json:"gstRate"`
	GSTRegistered    bool    `json:"gstRegistered"`
	CustomsBrokerage float64 `json:"customsBrokerage"`
	DocumentFees     float64 `json:"documentFees"`

	// Storage
	WeeklyWarehouseCost float64 `json:"weeklyWarehouseCost"`
	WeeksToSellStock    float64 `json:"weeksToSellStock"`

	// Insurance and other costs
	InsuranceRate  float64 `json:"insuranceRate"`
	BankFees       float64 `json:"bankFees"`
	InspectionFees float64 `json:"inspectionFees"`
	OtherFees      float64 `json:"otherFees"`

	// Exchange margin, percent applied once to the converted product value
	ExchangeMargin float64 `json:"exchangeMargin"`

	Incoterms Incoterms `json:"incoterms"`
}

// ApplyDefaults fills blank identity fields. Rate defaults are handled at the
// API boundary where "omitted" is distinguishable from an explicit zero.
func (in *CalculationInput) ApplyDefaults() {
	if in.ProductName == "" {
		in.ProductName = DefaultProductName
	}
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	if in.Incoterms == "" {
		in.Incoterms = IncotermsFOB
	}
}

// Validate checks the preconditions for a calculation to proceed. Any failure
// must block computation; the engine never produces a partial breakdown.
func (in *CalculationInput) Validate(ctx context.Context) error {
	if in.UnitPrice <= 0 {
		return apperror.NewInvalidInput("unit price must be positive").
			WithDetail("field", "unitPrice").
			WithDetail("value", in.UnitPrice)
	}
	if in.UnitsPerContainer <= 0 {
		return apperror.NewInvalidInput("units per container must be positive").
			WithDetail("field", "unitsPerContainer").
			WithDetail("value", in.UnitsPerContainer)
	}
	if in.Incoterms != IncotermsFOB && in.Incoterms != IncotermsCIF {
		return apperror.NewInvalidInput("incoterms must be FOB or CIF").
			WithDetail("field", "incoterms").
			WithDetail("value", in.Incoterms)
	}
	return nil
}
