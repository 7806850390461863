package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"landedcost/internal/core/apperror"
	"landedcost/internal/core/id"
	"landedcost/internal/domain/costing"
	"landedcost/internal/domain/records"
	"landedcost/internal/infrastructure/http/v1/dto"
)

// RecordsHandler serves saved calculation CRUD. Every response carries the
// store mode so the client can surface degraded persistence to the user.
type RecordsHandler struct {
	*BaseHandler
	engine  *costing.Engine
	rates   costing.RateTable
	service *records.Service
}

// NewRecordsHandler creates the records handler.
func NewRecordsHandler(base *BaseHandler, engine *costing.Engine, rates costing.RateTable, service *records.Service) *RecordsHandler {
	return &RecordsHandler{
		BaseHandler: base,
		engine:      engine,
		rates:       rates,
		service:     service,
	}
}

// parseID reads the :id path parameter.
func (h *RecordsHandler) parseID(c *gin.Context) (id.ID, bool) {
	recID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid record id").WithDetail("id", c.Param("id")))
		return id.Nil(), false
	}
	return recID, true
}

// compute runs the engine over a save/update payload. The stored record is
// always derived from a fresh calculation, never from client-sent totals.
func (h *RecordsHandler) compute(c *gin.Context, req *dto.CalculateRequest) (*costing.CalculationResult, bool) {
	result, err := h.engine.Compute(c.Request.Context(), req.ToInput(), h.rates)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return result, true
}

// Save handles POST /api/v1/calculations
func (h *RecordsHandler) Save(c *gin.Context) {
	var req dto.CalculateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, ok := h.compute(c, &req)
	if !ok {
		return
	}

	recID, mode, err := h.service.Save(c.Request.Context(), records.FromResult(result))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, recID.String(), string(mode))
}

// Update handles PUT /api/v1/calculations/:id
func (h *RecordsHandler) Update(c *gin.Context) {
	recID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.CalculateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, ok := h.compute(c, &req)
	if !ok {
		return
	}

	mode, err := h.service.Update(c.Request.Context(), recID, records.FromResult(result))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.IDResponse{ID: recID.String(), StoreMode: string(mode)})
}

// Get handles GET /api/v1/calculations/:id
func (h *RecordsHandler) Get(c *gin.Context) {
	recID, ok := h.parseID(c)
	if !ok {
		return
	}

	rec, mode, err := h.service.Get(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewRecordResponse(rec, string(mode)))
}

// List handles GET /api/v1/calculations?category=
func (h *RecordsHandler) List(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", records.BrowseLimit)
	category := c.Query("category")

	recs, mode, err := h.service.List(c.Request.Context(), limit, category)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.RecordSummary, 0, len(recs))
	for _, rec := range recs {
		items = append(items, dto.NewRecordSummary(rec))
	}

	h.OK(c, dto.ListResponse{Items: items, Count: len(items), StoreMode: string(mode)})
}

// Categories handles GET /api/v1/calculations/categories
func (h *RecordsHandler) Categories(c *gin.Context) {
	categories, mode, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CategoriesResponse{Categories: categories, StoreMode: string(mode)})
}

// Delete handles DELETE /api/v1/calculations/:id
func (h *RecordsHandler) Delete(c *gin.Context) {
	recID, ok := h.parseID(c)
	if !ok {
		return
	}

	if _, err := h.service.Delete(c.Request.Context(), recID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Export handles GET /api/v1/calculations/:id/export
// Recomputes the record's snapshot and returns the export document as a
// downloadable JSON file.
func (h *RecordsHandler) Export(c *gin.Context) {
	recID, ok := h.parseID(c)
	if !ok {
		return
	}

	rec, _, err := h.service.Get(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.engine.Compute(c.Request.Context(), rec.Input, h.rates)
	if err != nil {
		h.Error(c, err)
		return
	}

	now := time.Now()
	doc := costing.Export(result, now)

	c.Header("Content-Disposition", `attachment; filename="`+costing.ExportFileName(rec.ProductName, now)+`"`)
	c.JSON(http.StatusOK, doc)
}
