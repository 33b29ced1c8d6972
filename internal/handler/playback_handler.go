package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/service"
	"github.com/fleetops/tracking-backend-go/pkg/response"
)

// PlaybackHandler exposes the playback session command and read surfaces
type PlaybackHandler struct {
	playbackService *service.PlaybackService
}

// NewPlaybackHandler creates a new playback handler
func NewPlaybackHandler(playbackService *service.PlaybackService) *PlaybackHandler {
	return &PlaybackHandler{playbackService: playbackService}
}

type createSessionRequest struct {
	AssetIDs []string `json:"assetIds" binding:"required"`
	From     *int64   `json:"from"`
	To       *int64   `json:"to"`
}

// commandRequest carries one playback command. Action selects the command;
// the other fields are read only where the action needs them.
type commandRequest struct {
	Action     string   `json:"action" binding:"required"`
	TimeMillis *int64   `json:"timeMillis"`
	Progress   *float64 `json:"progress"`
	Speed      *float64 `json:"speed"`
	AssetID    string   `json:"assetId"`
	AssetIDs   []string `json:"assetIds"`
	From       *int64   `json:"from"`
	To         *int64   `json:"to"`
	Show       *bool    `json:"show"`
}

// CreateSession handles POST /api/v1/playback/sessions
func (h *PlaybackHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var dateRange *models.DateRange
	if req.From != nil && req.To != nil {
		dateRange = &models.DateRange{From: *req.From, To: *req.To}
	}

	id, session, err := h.playbackService.CreateSession(req.AssetIDs, dateRange)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"sessionId": id,
		"session":   session.Snapshot(),
	})
}

// GetSession handles GET /api/v1/playback/sessions/:id
func (h *PlaybackHandler) GetSession(c *gin.Context) {
	session, err := h.playbackService.GetSession(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, session.Snapshot())
}

// GetRenderState handles GET /api/v1/playback/sessions/:id/render
func (h *PlaybackHandler) GetRenderState(c *gin.Context) {
	session, err := h.playbackService.GetSession(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, session.Render())
}

// Command handles POST /api/v1/playback/sessions/:id/command
func (h *PlaybackHandler) Command(c *gin.Context) {
	session, err := h.playbackService.GetSession(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	switch req.Action {
	case "play":
		session.Play()
	case "pause":
		session.Pause()
	case "playpause":
		session.PlayPause()
	case "seek":
		if req.TimeMillis == nil {
			response.BadRequest(c, "seek requires timeMillis")
			return
		}
		session.Seek(*req.TimeMillis)
	case "seekprogress":
		if req.Progress == nil {
			response.BadRequest(c, "seekprogress requires progress")
			return
		}
		session.SeekProgress(*req.Progress)
	case "skipback":
		session.SkipBack()
	case "skipforward":
		session.SkipForward()
	case "reset":
		session.Reset()
	case "speed":
		if req.Speed == nil {
			response.BadRequest(c, "speed requires speed")
			return
		}
		session.SetSpeed(*req.Speed)
	case "toggleasset":
		if req.AssetID == "" {
			response.BadRequest(c, "toggleasset requires assetId")
			return
		}
		session.ToggleAsset(req.AssetID)
	case "select":
		session.SetSelectedAssets(req.AssetIDs)
	case "daterange":
		if req.From == nil || req.To == nil {
			response.BadRequest(c, "daterange requires from and to")
			return
		}
		session.SetDateRange(*req.From, *req.To)
	case "showpaths":
		if req.Show == nil {
			response.BadRequest(c, "showpaths requires show")
			return
		}
		session.SetShowPaths(*req.Show)
	case "showmarkers":
		if req.Show == nil {
			response.BadRequest(c, "showmarkers requires show")
			return
		}
		session.SetShowMarkers(*req.Show)
	default:
		response.BadRequest(c, "Unknown action: "+req.Action)
		return
	}

	response.Success(c, session.Snapshot())
}

// CloseSession handles DELETE /api/v1/playback/sessions/:id
func (h *PlaybackHandler) CloseSession(c *gin.Context) {
	if err := h.playbackService.CloseSession(c.Param("id")); err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{"closed": true})
}
