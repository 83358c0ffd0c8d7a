package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/exam"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/middleware"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/repository"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/response"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/service"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/validator"
)

// SessionHandler exposes the test-session lifecycle over HTTP. The
// WebSocket stream covers the same actions for clients that hold a
// live connection; these endpoints are the fallback surface and the
// result retrieval path.
type SessionHandler struct {
	hub          *service.SessionHub
	paperService *service.PaperService
	attemptRepo  *repository.AttemptRepository
	log          zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	hub *service.SessionHub,
	paperService *service.PaperService,
	attemptRepo *repository.AttemptRepository,
	log zerolog.Logger,
) *SessionHandler {
	return &SessionHandler{
		hub:          hub,
		paperService: paperService,
		attemptRepo:  attemptRepo,
		log:          log.With().Str("component", "session_handler").Logger(),
	}
}

// StartSession godoc
// POST /api/v1/candidate/sessions
// Draws a paper for the given test configuration and starts the timed
// session. 422 when nothing in the bank matches the configuration.
func (h *SessionHandler) StartSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var cfg model.TestConfig
	if fields := validator.Bind(c, &cfg); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.paperService.Resolve(c.Request.Context(), cfg)
	if err != nil {
		h.log.Error().Err(err).Msg("Paper draw failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	state, err := h.hub.Start(c.Request.Context(), claims.UserID, cfg, questions)
	if err != nil {
		switch {
		case errors.Is(err, exam.ErrEmptyQuestionSet):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyQuestionSet)
		case errors.Is(err, service.ErrActiveSessionExists):
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": state})
}

// GetActiveSession godoc
// GET /api/v1/candidate/sessions/active
// Returns the candidate's unfinished session id, if any. Lets a client
// resume after a page reload.
func (h *SessionHandler) GetActiveSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, ok := h.hub.ActiveFor(claims.UserID)
	if !ok {
		response.Success(c, http.StatusOK, gin.H{"session_id": nil})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session_id": sessionID})
}

// GetSessionState godoc
// GET /api/v1/candidate/sessions/:session_id
// Returns the current snapshot of a session.
func (h *SessionHandler) GetSessionState(c *gin.Context) {
	claims, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	state, err := h.hub.State(sessionID, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// GetSessionPaper godoc
// GET /api/v1/candidate/sessions/:session_id/paper
// Returns the full question list of a session, without answer keys.
func (h *SessionHandler) GetSessionPaper(c *gin.Context) {
	claims, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	paper, err := h.hub.Paper(sessionID, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": paper})
}

// ApplyAction godoc
// POST /api/v1/candidate/sessions/:session_id/actions
// Runs one session action and returns the resulting snapshot. Actions
// against a finished session are no-ops apart from submit.
func (h *SessionHandler) ApplyAction(c *gin.Context) {
	claims, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	var action service.SessionAction
	if fields := validator.Bind(c, &action); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	switch action.Type {
	case service.ActionNavigate, service.ActionSelect, service.ActionNumerical,
		service.ActionMark, service.ActionClear, service.ActionTabSwitch,
		service.ActionSubmit:
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	state, err := h.hub.Apply(c.Request.Context(), sessionID, claims.UserID, action)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// SubmitSession godoc
// POST /api/v1/candidate/sessions/:session_id/submit
// Finishes the session and returns the scored report. Idempotent: a
// repeat submit returns the same report.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	claims, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	if _, err := h.hub.Apply(c.Request.Context(), sessionID, claims.UserID,
		service.SessionAction{Type: service.ActionSubmit}); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	report, err := h.hub.Result(sessionID, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// GetResult godoc
// GET /api/v1/candidate/sessions/:session_id/result
// Returns the report of a finished session. Falls back to the durable
// store once the hub has evicted the session.
func (h *SessionHandler) GetResult(c *gin.Context) {
	claims, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	report, err := h.hub.Result(sessionID, claims.UserID)
	if err == nil {
		response.Success(c, http.StatusOK, gin.H{"report": report})
		return
	}
	if errors.Is(err, service.ErrSessionNotFinished) {
		response.Fail(c, http.StatusConflict, response.ErrSessionNotFinished)
		return
	}

	report, err = h.attemptRepo.GetReport(c.Request.Context(), sessionID, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// sessionScope extracts the claims and session id every session route
// needs. Writes the error response itself when either is missing.
func (h *SessionHandler) sessionScope(c *gin.Context) (*service.Claims, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, uuid.Nil, false
	}
	return claims, sessionID, true
}
