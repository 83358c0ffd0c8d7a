package exam

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

// ErrEmptyQuestionSet is returned when a session is created from a
// configuration that resolved to zero questions. It is fatal to session
// start; nothing is retried inside the engine.
var ErrEmptyQuestionSet = errors.New("exam: empty question set")

// FinishReason records what ended a session.
type FinishReason string

const (
	FinishReasonSubmit FinishReason = "SUBMIT"
	FinishReasonExpiry FinishReason = "EXPIRY"
)

// Session is one timed attempt over a fixed ordered question set. The
// question list and the response table are fixed at creation; only
// response contents, the cursor and the countdown change afterwards.
//
// A Session is not safe for concurrent use. The owning hub serializes
// ticks and user actions through a single lock, so every operation the
// scoring engine later observes is a fully-applied transition.
type Session struct {
	id        uuid.UUID
	questions []model.Question
	responses map[uuid.UUID]*model.Response
	position  int

	countdown *Countdown
	elapsed   int

	finished     bool
	finishReason FinishReason
	tabSwitches  int
	snapshot     []model.Response
}

// NewSession builds a session over questions with a countdown of
// durationMinutes. The question at position 0 is visited immediately so
// the palette starts with it at NOT_ANSWERED.
func NewSession(questions []model.Question, durationMinutes int) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}

	responses := make(map[uuid.UUID]*model.Response, len(questions))
	for i := range questions {
		responses[questions[i].ID] = &model.Response{
			QuestionID: questions[i].ID,
			Status:     model.StatusNotVisited,
		}
	}

	s := &Session{
		id:        uuid.New(),
		questions: questions,
		responses: responses,
		countdown: NewCountdown(durationMinutes * 60),
	}
	s.apply(s.questions[0].ID, Visit)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// apply runs a status transition against one response. A missing entry
// means a caller bug (the table is fixed at creation), so it degrades to
// a no-op rather than panicking.
func (s *Session) apply(questionID uuid.UUID, fn func(model.Response) model.Response) {
	r, ok := s.responses[questionID]
	if !ok {
		return
	}
	*r = fn(*r)
}

func (s *Session) current() uuid.UUID {
	return s.questions[s.position].ID
}

// NavigateTo moves the cursor and visits the target question.
// Out-of-range indices are ignored. Navigation stays available after
// finish for review, but no longer mutates statuses.
func (s *Session) NavigateTo(index int) {
	if index < 0 || index >= len(s.questions) {
		return
	}
	if !s.finished {
		s.apply(s.questions[index].ID, Visit)
	}
	s.position = index
}

// SelectOption records an MCQ selection on the current question.
func (s *Session) SelectOption(value string) {
	if s.finished {
		return
	}
	s.apply(s.current(), func(r model.Response) model.Response {
		return Select(r, value)
	})
}

// EnterNumerical records a numeric answer on the current question.
// Numeric format is not validated here; routing well-formed input is
// the caller's job.
func (s *Session) EnterNumerical(text string) {
	if s.finished {
		return
	}
	s.apply(s.current(), func(r model.Response) model.Response {
		return EnterNumerical(r, text)
	})
}

// ToggleMark flips the review mark on the current question.
func (s *Session) ToggleMark() {
	if s.finished {
		return
	}
	s.apply(s.current(), ToggleMark)
}

// ClearResponse clears the current question's answer.
func (s *Session) ClearResponse() {
	if s.finished {
		return
	}
	s.apply(s.current(), Clear)
}

// RecordTabSwitch counts a focus-loss event reported by the client.
func (s *Session) RecordTabSwitch() {
	if s.finished {
		return
	}
	s.tabSwitches++
}

// Tick consumes one wall-clock second: the countdown drops by one and
// the question under the cursor at this instant is credited the whole
// second. It reports true when this tick expired the session, at which
// point the session is already finished.
func (s *Session) Tick() bool {
	if s.finished {
		return false
	}
	expired := s.countdown.Tick()
	s.elapsed++
	if r, ok := s.responses[s.current()]; ok {
		r.TimeSpentSeconds++
	}
	if expired {
		s.finish(FinishReasonExpiry)
	}
	return expired
}

// Finish submits the session. Idempotent: the first call freezes the
// snapshot, later calls observe the same frozen state.
func (s *Session) Finish() {
	s.finish(FinishReasonSubmit)
}

func (s *Session) finish(reason FinishReason) {
	if s.finished {
		return
	}
	s.finished = true
	s.finishReason = reason
	s.countdown.Stop()
	s.snapshot = s.copyResponses()
}

// Finished reports whether the session reached its terminal state.
func (s *Session) Finished() bool { return s.finished }

// Reason returns what finished the session; empty while active.
func (s *Session) Reason() FinishReason { return s.finishReason }

// Position returns the cursor index.
func (s *Session) Position() int { return s.position }

// Questions returns the session's ordered question list.
func (s *Session) Questions() []model.Question { return s.questions }

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() model.Question {
	return s.questions[s.position]
}

// CurrentResponse returns a copy of the response under the cursor.
func (s *Session) CurrentResponse() model.Response {
	return *s.responses[s.current()]
}

// RemainingSeconds returns the countdown value.
func (s *Session) RemainingSeconds() int { return s.countdown.Remaining() }

// ElapsedSeconds returns how many ticks the session has consumed.
func (s *Session) ElapsedSeconds() int { return s.elapsed }

// TabSwitches returns the recorded focus-loss count.
func (s *Session) TabSwitches() int { return s.tabSwitches }

// Palette returns the per-question statuses in question order.
func (s *Session) Palette() []model.QuestionStatus {
	statuses := make([]model.QuestionStatus, len(s.questions))
	for i := range s.questions {
		statuses[i] = s.responses[s.questions[i].ID].Status
	}
	return statuses
}

// Responses returns the response table in question order. After finish
// it always returns the frozen snapshot, so repeated submits observe
// byte-identical state.
func (s *Session) Responses() []model.Response {
	if s.finished {
		out := make([]model.Response, len(s.snapshot))
		copy(out, s.snapshot)
		return out
	}
	return s.copyResponses()
}

func (s *Session) copyResponses() []model.Response {
	out := make([]model.Response, 0, len(s.questions))
	for i := range s.questions {
		out = append(out, *s.responses[s.questions[i].ID])
	}
	return out
}
