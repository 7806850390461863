package costing

import (
	"landedcost/internal/core/apperror"
)

// Margin and markup are two normalizations of the same profit figure:
// margin% = profit / sellingPrice * 100, markup% = profit / cost * 100.
// Neither function rounds; the presentation layer rounds for display.

// PriceQuote is the result of deriving a selling price from a target margin.
type PriceQuote struct {
	SellingPrice float64 `json:"sellingPrice"`
	Profit       float64 `json:"profit"`
	MarkupPct    float64 `json:"markupPct"`
}

// MarginQuote is the result of deriving margin figures from a selling price.
type MarginQuote struct {
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"marginPct"`
	MarkupPct float64 `json:"markupPct"`
}

// PriceFromMargin computes the selling price that achieves the target margin
// over the given cost per unit. A margin of 100% or more implies an infinite
// or negative price and is rejected.
func PriceFromMargin(marginPct, cost float64) (PriceQuote, error) {
	if marginPct <= 0 || marginPct >= 100 {
		return PriceQuote{}, apperror.NewInvalidInput("margin must be between 0 and 100 percent").
			WithDetail("marginPct", marginPct)
	}
	if cost <= 0 {
		return PriceQuote{}, apperror.NewInvalidInput("cost per unit must be positive").
			WithDetail("cost", cost)
	}

	sellingPrice := cost / (1 - marginPct/100)
	profit := sellingPrice - cost

	return PriceQuote{
		SellingPrice: sellingPrice,
		Profit:       profit,
		MarkupPct:    profit / cost * 100,
	}, nil
}

// MarginFromPrice computes margin and markup for a given selling price and
// cost per unit.
func MarginFromPrice(sellingPrice, cost float64) (MarginQuote, error) {
	if sellingPrice <= 0 {
		return MarginQuote{}, apperror.NewInvalidInput("selling price must be positive").
			WithDetail("sellingPrice", sellingPrice)
	}
	if cost <= 0 {
		return MarginQuote{}, apperror.NewInvalidInput("cost per unit must be positive").
			WithDetail("cost", cost)
	}

	profit := sellingPrice - cost

	return MarginQuote{
		Profit:    profit,
		MarginPct: profit / sellingPrice * 100,
		MarkupPct: profit / cost * 100,
	}, nil
}
