// Package records persists named calculation snapshots. The store assigns
// record identity; the cost engine never invents ids.
package records

import (
	"time"

	"landedcost/internal/core/id"
	"landedcost/internal/domain/costing"
)

// BrowseLimit caps how many records the browse list returns.
const BrowseLimit = 50

// SavedCalculation is one persisted calculation: a flattened summary for
// browse lists plus the full input snapshot, which reproduces the
// calculation exactly when reloaded.
type SavedCalculation struct {
	ID id.ID `json:"id" db:"id"`

	// Flattened summary fields
	ProductName         string                `json:"productName" db:"product_name"`
	Category            string                `json:"category" db:"category"`
	UnitPrice           float64               `json:"unitPrice" db:"unit_price"`
	Currency            costing.Currency      `json:"currency" db:"currency"`
	UnitsPerContainer   int                   `json:"unitsPerContainer" db:"units_per_container"`
	ContainerType       costing.ContainerType `json:"containerType" db:"container_type"`
	TotalCost           float64               `json:"totalCost" db:"total_cost"`
	CostPerUnit         float64               `json:"costPerUnit" db:"cost_per_unit"`
	CostPerUnitOriginal float64               `json:"costPerUnitOriginal" db:"cost_per_unit_original"`

	// Full input snapshot for reloading
	Input costing.CalculationInput `json:"input" db:"-"`

	// CreatedAt is preserved across updates; LastModified refreshes on every save.
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	LastModified time.Time `json:"lastModified" db:"last_modified"`
}

// FromResult flattens a calculation result into a record ready for saving.
// Identity and timestamps are assigned by the store.
func FromResult(result *costing.CalculationResult) *SavedCalculation {
	in := result.Input
	return &SavedCalculation{
		ProductName:         in.ProductName,
		Category:            in.Category,
		UnitPrice:           in.UnitPrice,
		Currency:            in.Currency,
		UnitsPerContainer:   in.UnitsPerContainer,
		ContainerType:       in.ContainerType,
		TotalCost:           result.TotalCost,
		CostPerUnit:         result.CostPerUnit,
		CostPerUnitOriginal: result.CostPerUnitOriginal,
		Input:               in,
	}
}
