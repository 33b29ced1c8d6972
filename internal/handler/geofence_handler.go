package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/service"
	"github.com/fleetops/tracking-backend-go/pkg/response"
)

// GeofenceHandler handles HTTP requests for geofences and compliance
type GeofenceHandler struct {
	geofenceService   *service.GeofenceService
	complianceService *service.ComplianceService
}

// NewGeofenceHandler creates a new geofence handler
func NewGeofenceHandler(geofenceService *service.GeofenceService, complianceService *service.ComplianceService) *GeofenceHandler {
	return &GeofenceHandler{
		geofenceService:   geofenceService,
		complianceService: complianceService,
	}
}

// GetGeofences handles GET /api/v1/geofences
func (h *GeofenceHandler) GetGeofences(c *gin.Context) {
	var filter models.GeofenceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	fences, err := h.geofenceService.GetGeofences(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  fences,
		"count": len(fences),
	})
}

// GetGeofenceByID handles GET /api/v1/geofences/:id
func (h *GeofenceHandler) GetGeofenceByID(c *gin.Context) {
	fence, err := h.geofenceService.GetGeofenceByID(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Geofence not found")
		return
	}

	response.Success(c, fence)
}

// GetCompliance handles GET /api/v1/geofences/:id/compliance
func (h *GeofenceHandler) GetCompliance(c *gin.Context) {
	result, err := h.complianceService.EvaluateFence(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetViolations handles GET /api/v1/geofences/:id/violations
func (h *GeofenceHandler) GetViolations(c *gin.Context) {
	violating, err := h.complianceService.Violations(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	if violating == nil {
		violating = []string{}
	}

	response.Success(c, gin.H{
		"violatingAssetIds": violating,
		"count":             len(violating),
	})
}

// GetFleetCompliance handles GET /api/v1/compliance
func (h *GeofenceHandler) GetFleetCompliance(c *gin.Context) {
	fleet, err := h.complianceService.EvaluateFleet()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, fleet)
}
