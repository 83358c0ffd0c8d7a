package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/middleware"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/response"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/service"
)

// HistoryHandler exposes the per-candidate attempt history.
type HistoryHandler struct {
	historyService *service.HistoryService
	log            zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService *service.HistoryService, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		log:            log.With().Str("component", "history_handler").Logger(),
	}
}

// ListHistory godoc
// GET /api/v1/candidate/history
// Returns the candidate's attempt history, newest first.
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	entries, err := h.historyService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("History read failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": entries})
}

// ClearHistory godoc
// DELETE /api/v1/candidate/history
// Deletes the candidate's own history.
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.historyService.Clear(c.Request.Context(), claims.UserID); err != nil {
		h.log.Error().Err(err).Msg("History clear failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ClearAllHistory godoc
// DELETE /api/v1/admin/history
// Deletes every candidate's history. Maintenance operation.
func (h *HistoryHandler) ClearAllHistory(c *gin.Context) {
	cleared, err := h.historyService.ClearAll(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Bulk history clear failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cleared": cleared})
}
