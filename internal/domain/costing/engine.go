package costing

import (
	"context"
)

// CostBreakdown holds every line item of one calculation, already converted
// into the report currency. Incoterms and OriginalShippingCost are metadata
// for display and are never summed.
type CostBreakdown struct {
	ProductCost      float64 `json:"productCost"`
	ShippingCost     float64 `json:"shippingCost"` // zero under CIF: freight is folded into ProductCost
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

	// Metadata, excluded from all summation
	Incoterms            Incoterms `json:"incoterms"`
	OriginalShippingCost float64   `json:"originalShippingCost"`
}

// total sums the cost line items in declaration order. GST is skipped when
// excludeGST is set (registered businesses reclaim it).
func (b *CostBreakdown) total(excludeGST bool) float64 {
	sum := b.ProductCost
	sum += b.ShippingCost
	sum += b.LocalTransport
	sum += b.NZTransport
	sum += b.Duty
	if !excludeGST {
		sum += b.GST
	}
	sum += b.Insurance
	sum += b.WarehouseCost
	sum += b.CustomsBrokerage
	sum += b.DocumentFees
	sum += b.BankFees
	sum += b.InspectionFees
	sum += b.OtherFees
	return sum
}

// CalculationResult is the immutable output of one engine run.
type CalculationResult struct {
	Input     CalculationInput `json:"input"`
	Breakdown CostBreakdown    `json:"breakdown"`

	// TotalCost is the true business cost in the report currency: GST is
	// excluded when the buyer is GST-registered.
	TotalCost float64 `json:"totalCost"`

	// TotalCashFlow always includes GST: it is what must actually be paid
	// out, even if later reclaimed.
	TotalCashFlow float64 `json:"totalCashFlow"`

	CostPerUnit         float64 `json:"costPerUnit"`
	CostPerUnitOriginal float64 `json:"costPerUnitOriginal"`

	// CIFValue is the customs valuation base used for duty and GST.
	CIFValue float64 `json:"cifValue"`

	// Rates records the table the calculation was made with.
	Rates RateTable `json:"-"`
}

// Engine computes landed costs. It is stateless and safe for concurrent use;
// rates and inputs are passed explicitly on every call.
type Engine struct{}

// NewEngine creates a cost engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute runs the landed-cost pipeline. The order of operations is part of
// the contract: the exchange margin is applied once to the full container
// product value, and where freight and insurance land depends on incoterms.
func (e *Engine) Compute(ctx context.Context, in CalculationInput, rates RateTable) (*CalculationResult, error) {
	in.ApplyDefaults()
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	// Container product value in the report currency, with exchange margin.
	productValue := rates.Convert(in.UnitPrice, in.Currency) * float64(in.UnitsPerContainer)
	productValue *= 1 + in.ExchangeMargin/100

	shipping := rates.Convert(in.ShippingCost, in.ShippingCurrency)
	localTransport := rates.Convert(in.LocalTransport, in.ShippingCurrency)
	nzTransport := in.NZTransport // already in report currency

	var freightLine, insurance, cif float64

	if in.Incoterms == IncotermsFOB {
		// FOB: the buyer pays freight and insurance separately. Insurance is
		// quoted on the pre-freight value; the customs valuation then folds
		// freight back in.
		cif = productValue + localTransport
		freightLine = shipping
		insurance = cif * in.InsuranceRate / 100
		cif = productValue + shipping + localTransport
	} else {
		// CIF: freight and insurance are already embedded in the unit price.
		// Both are folded into the product cost and the valuation is rebuilt
		// on the inflated value; shipping is not shown as a separate line.
		cif = productValue + shipping + localTransport
		embedded := cif * in.InsuranceRate / 100
		productValue += shipping + embedded
		cif = productValue + localTransport
		insurance = cif * in.InsuranceRate / 100
	}

	duty := cif * in.DutyRate / 100
	gst := (cif + duty) * in.GSTRate / 100

	warehouseCost := StorageCost(in.WeeklyWarehouseCost, in.WeeksToSellStock)

	breakdown := CostBreakdown{
		ProductCost:      productValue,
		ShippingCost:     freightLine,
		LocalTransport:   localTransport,
		NZTransport:      nzTransport,
		Duty:             duty,
		GST:              gst,
		Insurance:        insurance,
		WarehouseCost:    warehouseCost,
		CustomsBrokerage: in.CustomsBrokerage,
		DocumentFees:     in.DocumentFees,
		BankFees:         in.BankFees,
		InspectionFees:   in.InspectionFees,
		OtherFees:        in.OtherFees,

		Incoterms:            in.Incoterms,
		OriginalShippingCost: shipping,
	}

	totalCost := breakdown.total(in.GSTRegistered)
	totalCashFlow := breakdown.total(false)
	costPerUnit := totalCost / float64(in.UnitsPerContainer)

	return &CalculationResult{
		Input:               in,
		Breakdown:           breakdown,
		TotalCost:           totalCost,
		TotalCashFlow:       totalCashFlow,
		CostPerUnit:         costPerUnit,
		CostPerUnitOriginal: costPerUnit / rates.Rate(in.Currency),
		CIFValue:            cif,
		Rates:               rates,
	}, nil
}
