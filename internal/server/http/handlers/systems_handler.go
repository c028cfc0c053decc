package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
	"github.com/ticketo/points/internal/server/http/dto"
)

// SystemsHandler manages points-system configuration endpoints.
type SystemsHandler struct {
	facade RegistryFacade
}

// NewSystemsHandler constructs SystemsHandler.
func NewSystemsHandler(facade RegistryFacade) *SystemsHandler {
	return &SystemsHandler{facade: facade}
}

// List handles GET /api/points/systems.
func (h *SystemsHandler) List(c *gin.Context) {
	systems, err := h.facade.Systems(c.Request.Context(), CurrentTenant(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.SystemResponse, 0, len(systems))
	for i := range systems {
		resp = append(resp, dto.SystemResponseFrom(&systems[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/points/systems.
func (h *SystemsHandler) Create(c *gin.Context) {
	var req dto.SystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	// New systems start enabled unless the payload says otherwise.
	system := model.PointsSystem{
		Tiers:   dto.TiersFromDTO(req.Tiers),
		Enabled: true,
	}
	if req.Name != nil {
		system.Name = *req.Name
	}
	if req.UnitSingular != nil {
		system.UnitSingular = *req.UnitSingular
	}
	if req.UnitPlural != nil {
		system.UnitPlural = *req.UnitPlural
	}
	if req.ConversionType != nil {
		system.ConversionType = model.ConversionType(*req.ConversionType)
	}
	if req.FixedRate != nil {
		system.FixedRate = *req.FixedRate
	}
	if req.Enabled != nil {
		system.Enabled = *req.Enabled
	}
	if req.AvailableForRedemption != nil {
		system.AvailableForRedemption = *req.AvailableForRedemption
	}

	created, err := h.facade.CreateSystem(c.Request.Context(), CurrentTenant(c), system)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SystemResponseFrom(created))
}

// Update handles PATCH /api/points/systems/:id.
func (h *SystemsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.SystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	update := model.SystemUpdate{
		Name:                   req.Name,
		UnitSingular:           req.UnitSingular,
		UnitPlural:             req.UnitPlural,
		FixedRate:              req.FixedRate,
		Tiers:                  dto.TiersFromDTO(req.Tiers),
		Enabled:                req.Enabled,
		AvailableForRedemption: req.AvailableForRedemption,
	}
	if req.ConversionType != nil {
		conversionType := model.ConversionType(*req.ConversionType)
		update.ConversionType = &conversionType
	}

	updated, err := h.facade.UpdateSystem(c.Request.Context(), CurrentTenant(c), id, &update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SystemResponseFrom(updated))
}

// Delete handles DELETE /api/points/systems/:id.
func (h *SystemsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	cascade, _ := strconv.ParseBool(c.Query("cascade"))

	if err := h.facade.DeleteSystem(c.Request.Context(), CurrentTenant(c), id, cascade); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
