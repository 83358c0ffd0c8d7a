package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/exam"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/repository"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/scoring"
)

// Hub errors.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionNotFinished  = errors.New("session not finished yet")
	ErrActiveSessionExists = errors.New("candidate already has a session in progress")
)

// ActionType enumerates the user actions a live session accepts.
type ActionType string

const (
	ActionNavigate  ActionType = "navigate"
	ActionSelect    ActionType = "select"
	ActionNumerical ActionType = "numerical"
	ActionMark      ActionType = "mark"
	ActionClear     ActionType = "clear"
	ActionTabSwitch ActionType = "tab_switch"
	ActionSubmit    ActionType = "submit"
)

// SessionAction is one user event against a live session.
type SessionAction struct {
	Type  ActionType `json:"type"`
	Index int        `json:"index,omitempty"`
	Value string     `json:"value,omitempty"`
}

// SessionState is the rendering-boundary snapshot of a session.
type SessionState struct {
	SessionID        uuid.UUID              `json:"session_id"`
	Position         int                    `json:"position"`
	TotalQuestions   int                    `json:"total_questions"`
	Question         model.PaperQuestion    `json:"question"`
	Response         model.Response         `json:"response"`
	RemainingSeconds int                    `json:"remaining_seconds"`
	Palette          []model.QuestionStatus `json:"palette"`
	Finished         bool                   `json:"finished"`
}

// SessionEvent is pushed to live-stream subscribers.
type SessionEvent struct {
	Type             string              `json:"type"` // "tick" or "finished"
	RemainingSeconds int                 `json:"remaining_seconds"`
	Report           *model.ResultReport `json:"report,omitempty"`
}

// liveSession pairs an engine with its owner and stream subscribers.
// Every access to the engine goes through mu, so ticks and user actions
// are strictly serialized and no partial state is ever observable.
type liveSession struct {
	mu          sync.Mutex
	engine      *exam.Session
	candidateID int
	config      model.TestConfig
	startedAt   time.Time
	finishedAt  time.Time
	report      *model.ResultReport
	subs        map[int]chan SessionEvent
	nextSub     int
}

func (ls *liveSession) broadcast(ev SessionEvent) {
	for _, ch := range ls.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; dropping a tick beats blocking the hub.
		}
	}
}

// SessionHub owns every live session and the single ticker goroutine
// that drives all of their countdowns. Finished sessions stay resident
// for result retrieval until the retention window lapses; durable
// storage is handled by the history service and the attempt worker.
type SessionHub struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*liveSession
	byCandidate map[int]uuid.UUID

	store     SessionStore
	log       zerolog.Logger
	retention time.Duration
}

// NewSessionHub creates a new SessionHub.
func NewSessionHub(store SessionStore, retention time.Duration, log zerolog.Logger) *SessionHub {
	return &SessionHub{
		sessions:    make(map[uuid.UUID]*liveSession),
		byCandidate: make(map[int]uuid.UUID),
		store:       store,
		log:         log.With().Str("component", "session_hub").Logger(),
		retention:   retention,
	}
}

// Start creates a live session for the candidate over the given
// question set. Propagates exam.ErrEmptyQuestionSet untouched; a
// candidate with an unfinished session gets ErrActiveSessionExists.
func (h *SessionHub) Start(ctx context.Context, candidateID int, cfg model.TestConfig, questions []model.Question) (*SessionState, error) {
	engine, err := exam.NewSession(questions, cfg.DurationMinutes)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if existingID, ok := h.byCandidate[candidateID]; ok {
		if existing, live := h.sessions[existingID]; live && !existing.engine.Finished() {
			h.mu.Unlock()
			return nil, ErrActiveSessionExists
		}
	}
	ls := &liveSession{
		engine:      engine,
		candidateID: candidateID,
		config:      cfg,
		startedAt:   time.Now(),
		subs:        make(map[int]chan SessionEvent),
	}
	h.sessions[engine.ID()] = ls
	h.byCandidate[candidateID] = engine.ID()
	h.mu.Unlock()

	// Best-effort resume pointer; the in-memory maps are authoritative.
	if err := h.store.SetActiveSession(ctx, candidateID, engine.ID(),
		time.Duration(cfg.DurationMinutes)*time.Minute); err != nil {
		h.log.Warn().Err(err).Int("candidate_id", candidateID).Msg("Failed to cache active session pointer")
	}

	h.log.Info().
		Str("session_id", engine.ID().String()).
		Int("candidate_id", candidateID).
		Int("questions", len(questions)).
		Int("duration_min", cfg.DurationMinutes).
		Msg("Session started")

	ls.mu.Lock()
	defer ls.mu.Unlock()
	state := stateLocked(ls)
	return &state, nil
}

// get returns the live session, checking ownership.
func (h *SessionHub) get(sessionID uuid.UUID, candidateID int) (*liveSession, error) {
	h.mu.Lock()
	ls, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if !ok || ls.candidateID != candidateID {
		return nil, ErrSessionNotFound
	}
	return ls, nil
}

// ActiveFor returns the candidate's unfinished session id, if any.
func (h *SessionHub) ActiveFor(candidateID int) (uuid.UUID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.byCandidate[candidateID]
	if !ok {
		return uuid.Nil, false
	}
	ls, live := h.sessions[id]
	if !live || ls.engine.Finished() {
		return uuid.Nil, false
	}
	return id, true
}

// State returns the current rendering snapshot.
func (h *SessionHub) State(sessionID uuid.UUID, candidateID int) (*SessionState, error) {
	ls, err := h.get(sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	state := stateLocked(ls)
	return &state, nil
}

// Paper returns the full candidate-facing question list of a session.
func (h *SessionHub) Paper(sessionID uuid.UUID, candidateID int) ([]model.PaperQuestion, error) {
	ls, err := h.get(sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	questions := ls.engine.Questions()
	paper := make([]model.PaperQuestion, len(questions))
	for i := range questions {
		paper[i] = questions[i].Paper()
	}
	return paper, nil
}

// Apply runs one user action against a session and returns the
// resulting snapshot. Mutations on a finished session are engine-level
// no-ops except submit, which is idempotent by contract.
func (h *SessionHub) Apply(ctx context.Context, sessionID uuid.UUID, candidateID int, action SessionAction) (*SessionState, error) {
	ls, err := h.get(sessionID, candidateID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	switch action.Type {
	case ActionNavigate:
		ls.engine.NavigateTo(action.Index)
	case ActionSelect:
		ls.engine.SelectOption(action.Value)
	case ActionNumerical:
		ls.engine.EnterNumerical(action.Value)
	case ActionMark:
		ls.engine.ToggleMark()
	case ActionClear:
		ls.engine.ClearResponse()
	case ActionTabSwitch:
		ls.engine.RecordTabSwitch()
	case ActionSubmit:
		wasFinished := ls.engine.Finished()
		ls.engine.Finish()
		if !wasFinished {
			h.finishLocked(ctx, ls)
		}
	}

	state := stateLocked(ls)
	return &state, nil
}

// Result returns the report of a finished session.
func (h *SessionHub) Result(sessionID uuid.UUID, candidateID int) (*model.ResultReport, error) {
	ls, err := h.get(sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.report == nil {
		return nil, ErrSessionNotFinished
	}
	return ls.report, nil
}

// Subscribe attaches a live-event stream to a session. The returned
// cancel function must be called on every exit path so the channel is
// released.
func (h *SessionHub) Subscribe(sessionID uuid.UUID, candidateID int) (<-chan SessionEvent, func(), error) {
	ls, err := h.get(sessionID, candidateID)
	if err != nil {
		return nil, nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	id := ls.nextSub
	ls.nextSub++
	ch := make(chan SessionEvent, 8)
	ls.subs[id] = ch

	cancel := func() {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		if _, ok := ls.subs[id]; ok {
			delete(ls.subs, id)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// Run drives every live countdown at a fixed one-second cadence until
// ctx is cancelled. It is the only tick source in the process.
func (h *SessionHub) Run(ctx context.Context) {
	h.log.Info().Msg("Session hub ticker started")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Session hub ticker stopped")
			return
		case <-ticker.C:
			h.TickAll(ctx)
		}
	}
}

// TickAll delivers one tick to every live session and evicts finished
// sessions past the retention window. Exposed so tests can drive
// synthetic tick sequences without wall-clock waits.
func (h *SessionHub) TickAll(ctx context.Context) {
	h.mu.Lock()
	snapshot := make([]*liveSession, 0, len(h.sessions))
	ids := make([]uuid.UUID, 0, len(h.sessions))
	for id, ls := range h.sessions {
		snapshot = append(snapshot, ls)
		ids = append(ids, id)
	}
	h.mu.Unlock()

	now := time.Now()
	for i, ls := range snapshot {
		ls.mu.Lock()
		if ls.engine.Finished() {
			expired := !ls.finishedAt.IsZero() && now.Sub(ls.finishedAt) > h.retention
			ls.mu.Unlock()
			if expired {
				h.evict(ids[i])
			}
			continue
		}
		if ls.engine.Tick() {
			// This tick drained the countdown; the engine is finished.
			h.finishLocked(ctx, ls)
		} else {
			ls.broadcast(SessionEvent{Type: "tick", RemainingSeconds: ls.engine.RemainingSeconds()})
		}
		ls.mu.Unlock()
	}
}

func (h *SessionHub) evict(sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ls, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)
	if h.byCandidate[ls.candidateID] == sessionID {
		delete(h.byCandidate, ls.candidateID)
	}
}

// finishLocked runs the finish pipeline: score the frozen snapshot,
// append the history entry, queue the attempt for durable persistence
// and notify subscribers. Called with ls.mu held, after the engine has
// reached its terminal state. Storage failures are logged — the report
// itself is already final and is never rolled back.
func (h *SessionHub) finishLocked(ctx context.Context, ls *liveSession) {
	ls.finishedAt = time.Now()

	report := scoring.Score(scoring.Input{
		SessionID:     ls.engine.ID(),
		Questions:     ls.engine.Questions(),
		Responses:     ls.engine.Responses(),
		TimeTakenSecs: ls.engine.ElapsedSeconds(),
		TabSwitches:   ls.engine.TabSwitches(),
		FinishedAt:    ls.finishedAt,
	})
	ls.report = &report

	h.log.Info().
		Str("session_id", ls.engine.ID().String()).
		Int("candidate_id", ls.candidateID).
		Str("reason", string(ls.engine.Reason())).
		Int("score", report.Score).
		Int("accuracy", report.Accuracy).
		Str("verdict", string(report.Verdict)).
		Msg("Session finished")

	entry := model.HistoryEntry{
		SessionID:  report.SessionID,
		Config:     ls.config,
		Score:      report.Score,
		MaxScore:   report.MaxScore,
		Accuracy:   report.Accuracy,
		Attempted:  report.Attempted,
		Correct:    report.Correct,
		Verdict:    report.Verdict,
		FinishedAt: report.FinishedAt,
	}
	if err := h.store.AppendHistory(ctx, ls.candidateID, entry); err != nil {
		h.log.Error().Err(err).Int("candidate_id", ls.candidateID).Msg("History append failed")
	}

	attempt := repository.AttemptRecord{
		SessionID:     report.SessionID,
		CandidateID:   ls.candidateID,
		Score:         report.Score,
		MaxScore:      report.MaxScore,
		Accuracy:      report.Accuracy,
		Attempted:     report.Attempted,
		Correct:       report.Correct,
		Verdict:       report.Verdict,
		TimeTakenSecs: report.TimeTakenSecs,
		TabSwitches:   report.TabSwitches,
		FinishedAt:    report.FinishedAt,
		Report:        report,
	}
	if err := h.store.EnqueueAttempt(ctx, &attempt); err != nil {
		h.log.Error().Err(err).Msg("Attempt enqueue failed")
	}

	if err := h.store.ClearActiveSession(ctx, ls.candidateID); err != nil {
		h.log.Warn().Err(err).Msg("Active session pointer cleanup failed")
	}

	h.mu.Lock()
	if h.byCandidate[ls.candidateID] == ls.engine.ID() {
		delete(h.byCandidate, ls.candidateID)
	}
	h.mu.Unlock()

	ls.broadcast(SessionEvent{Type: "finished", RemainingSeconds: ls.engine.RemainingSeconds(), Report: &report})
}

// stateLocked builds the snapshot DTO. Called with ls.mu held.
func stateLocked(ls *liveSession) SessionState {
	q := ls.engine.CurrentQuestion()
	return SessionState{
		SessionID:        ls.engine.ID(),
		Position:         ls.engine.Position(),
		TotalQuestions:   len(ls.engine.Questions()),
		Question:         q.Paper(),
		Response:         ls.engine.CurrentResponse(),
		RemainingSeconds: ls.engine.RemainingSeconds(),
		Palette:          ls.engine.Palette(),
		Finished:         ls.engine.Finished(),
	}
}
