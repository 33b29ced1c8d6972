package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/service"
	"github.com/fleetops/tracking-backend-go/pkg/response"
)

// AssetHandler handles HTTP requests for tracked assets
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// GetAssets handles GET /api/v1/assets
func (h *AssetHandler) GetAssets(c *gin.Context) {
	var filter models.AssetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	assets, err := h.assetService.GetAssets(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  assets,
		"count": len(assets),
	})
}

// GetAssetByID handles GET /api/v1/assets/:id
func (h *AssetHandler) GetAssetByID(c *gin.Context) {
	asset, err := h.assetService.GetAssetByID(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Asset not found")
		return
	}

	response.Success(c, asset)
}
