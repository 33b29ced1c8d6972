package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/service"
	"github.com/fleetops/tracking-backend-go/pkg/response"
)

// HistoryHandler handles HTTP requests for location histories
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// GetHistories handles GET /api/v1/histories
func (h *HistoryHandler) GetHistories(c *gin.Context) {
	var filter models.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if len(filter.AssetIDs) == 0 {
		response.BadRequest(c, "At least one assetIds parameter is required")
		return
	}

	histories, err := h.historyService.GetHistories(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  histories,
		"count": len(histories),
	})
}

// GetHistorySummary handles GET /api/v1/histories/:assetId/summary
func (h *HistoryHandler) GetHistorySummary(c *gin.Context) {
	from, err := parseMillis(c.Query("from"))
	if err != nil {
		response.BadRequest(c, "Invalid from parameter")
		return
	}
	to, err := parseMillis(c.Query("to"))
	if err != nil {
		response.BadRequest(c, "Invalid to parameter")
		return
	}

	summary, err := h.historyService.Summarize(c.Param("assetId"), from, to)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, summary)
}

func parseMillis(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
