package handlers

import (
	"github.com/gin-gonic/gin"

	"landedcost/internal/core/apperror"
	"landedcost/internal/domain/costing"
	"landedcost/internal/infrastructure/http/v1/dto"
)

// CostingHandler serves the stateless calculation endpoints.
type CostingHandler struct {
	*BaseHandler
	engine *costing.Engine
	rates  costing.RateTable
}

// NewCostingHandler creates a costing handler with the configured rate table.
func NewCostingHandler(base *BaseHandler, engine *costing.Engine, rates costing.RateTable) *CostingHandler {
	return &CostingHandler{
		BaseHandler: base,
		engine:      engine,
		rates:       rates,
	}
}

// resolveRates merges per-request rate overrides over the configured table.
func (h *CostingHandler) resolveRates(req *dto.CalculateRequest) (costing.RateTable, error) {
	overrides := req.RateOverrides()
	if overrides == nil {
		return h.rates, nil
	}

	parsed, err := costing.ParseRateTable(h.rates.Report, overrides)
	if err != nil {
		return costing.RateTable{}, apperror.NewValidation("invalid exchange rates").
			WithDetail("error", err.Error())
	}

	merged := costing.RateTable{
		Report: h.rates.Report,
		Rates:  make(map[costing.Currency]float64, len(h.rates.Rates)+len(parsed.Rates)),
	}
	for cur, rate := range h.rates.Rates {
		merged.Rates[cur] = rate
	}
	for cur, rate := range parsed.Rates {
		merged.Rates[cur] = rate
	}

	return merged, nil
}

// Calculate handles POST /api/v1/costing/calculate
func (h *CostingHandler) Calculate(c *gin.Context) {
	var req dto.CalculateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rates, err := h.resolveRates(&req)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.engine.Compute(c.Request.Context(), req.ToInput(), rates)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewCalculateResponse(result))
}

// PriceFromMargin handles POST /api/v1/costing/margin/price
func (h *CostingHandler) PriceFromMargin(c *gin.Context) {
	var req dto.PriceFromMarginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := costing.PriceFromMargin(req.MarginPct, req.CostPerUnit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewPriceQuoteResponse(quote))
}

// MarginFromPrice handles POST /api/v1/costing/margin/from-price
func (h *CostingHandler) MarginFromPrice(c *gin.Context) {
	var req dto.MarginFromPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := costing.MarginFromPrice(req.SellingPrice, req.CostPerUnit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewMarginQuoteResponse(quote))
}

// Containers handles GET /api/v1/costing/containers
func (h *CostingHandler) Containers(c *gin.Context) {
	h.OK(c, gin.H{"containers": costing.ContainerSpecs()})
}
