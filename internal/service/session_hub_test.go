package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/repository"
)

// recordingStore counts the durable side effects of the finish
// pipeline so tests can assert they fire exactly once.
type recordingStore struct {
	mu       sync.Mutex
	appends  []model.HistoryEntry
	enqueues []*repository.AttemptRecord
	sets     int
	clears   int
}

func (s *recordingStore) AppendHistory(_ context.Context, _ int, entry model.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends = append(s.appends, entry)
	return nil
}

func (s *recordingStore) EnqueueAttempt(_ context.Context, record *repository.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueues = append(s.enqueues, record)
	return nil
}

func (s *recordingStore) SetActiveSession(_ context.Context, _ int, _ uuid.UUID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	return nil
}

func (s *recordingStore) ClearActiveSession(_ context.Context, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	return nil
}

func (s *recordingStore) counts() (appends, enqueues int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appends), len(s.enqueues)
}

func hubQuestions(t *testing.T, n int) []model.Question {
	t.Helper()
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			QuestionText:  fmt.Sprintf("question %d", i),
			QuestionType:  model.QuestionTypeMCQ,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "0",
			Subject:       model.SubjectPhysics,
			Chapter:       "Kinematics",
			YearLabel:     "JEE Main 2021",
		}
	}
	return questions
}

func newTestHub(store SessionStore) *SessionHub {
	return NewSessionHub(store, time.Minute, zerolog.Nop())
}

func TestHubDoubleSubmitFinishesOnce(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{}
	hub := newTestHub(store)

	cfg := model.TestConfig{
		Subjects:        []model.Subject{model.SubjectPhysics},
		QuestionCount:   2,
		DurationMinutes: 3,
	}
	state, err := hub.Start(ctx, 7, cfg, hubQuestions(t, 2))
	if err != nil {
		t.Fatal(err)
	}
	sessionID := state.SessionID

	if _, err := hub.Apply(ctx, sessionID, 7, SessionAction{Type: ActionSelect, Value: "0"}); err != nil {
		t.Fatal(err)
	}

	// Submit twice, then deliver ticks to the already-finished session.
	if _, err := hub.Apply(ctx, sessionID, 7, SessionAction{Type: ActionSubmit}); err != nil {
		t.Fatal(err)
	}
	if _, err := hub.Apply(ctx, sessionID, 7, SessionAction{Type: ActionSubmit}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		hub.TickAll(ctx)
	}

	appends, enqueues := store.counts()
	if appends != 1 {
		t.Errorf("history appended %d times, want 1", appends)
	}
	if enqueues != 1 {
		t.Errorf("attempt enqueued %d times, want 1", enqueues)
	}

	// Both submits observe the same report.
	report, err := hub.Result(sessionID, 7)
	if err != nil {
		t.Fatal(err)
	}
	if report.Score != 4 || report.Attempted != 1 || report.TotalQuestions != 2 {
		t.Errorf("report score=%d attempted=%d total=%d", report.Score, report.Attempted, report.TotalQuestions)
	}
	if store.enqueues[0].SessionID != sessionID || store.enqueues[0].Score != report.Score {
		t.Error("enqueued attempt does not match the report")
	}
	if store.appends[0].SessionID != sessionID {
		t.Error("history entry does not reference the session")
	}
}

func TestHubExpiryRunsPipelineOnce(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{}
	hub := newTestHub(store)

	cfg := model.TestConfig{
		Subjects:        []model.Subject{model.SubjectPhysics},
		QuestionCount:   1,
		DurationMinutes: 1,
	}
	state, err := hub.Start(ctx, 3, cfg, hubQuestions(t, 1))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 59; i++ {
		hub.TickAll(ctx)
	}
	if appends, _ := store.counts(); appends != 0 {
		t.Fatal("pipeline ran before the countdown drained")
	}

	// The draining tick finishes the session; later ticks change nothing.
	for i := 0; i < 20; i++ {
		hub.TickAll(ctx)
	}
	appends, enqueues := store.counts()
	if appends != 1 || enqueues != 1 {
		t.Fatalf("appends=%d enqueues=%d, want 1/1", appends, enqueues)
	}

	report, err := hub.Result(state.SessionID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if report.TimeTakenSecs != 60 {
		t.Errorf("time taken = %d, want 60", report.TimeTakenSecs)
	}
}

func TestHubSingleActiveSession(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{}
	hub := newTestHub(store)

	cfg := model.TestConfig{
		Subjects:        []model.Subject{model.SubjectPhysics},
		QuestionCount:   1,
		DurationMinutes: 3,
	}
	first, err := hub.Start(ctx, 11, cfg, hubQuestions(t, 1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := hub.Start(ctx, 11, cfg, hubQuestions(t, 1)); !errors.Is(err, ErrActiveSessionExists) {
		t.Fatalf("err = %v, want ErrActiveSessionExists", err)
	}

	// A different candidate is unaffected.
	if _, err := hub.Start(ctx, 12, cfg, hubQuestions(t, 1)); err != nil {
		t.Fatal(err)
	}

	// After submit the candidate can start again.
	if _, err := hub.Apply(ctx, first.SessionID, 11, SessionAction{Type: ActionSubmit}); err != nil {
		t.Fatal(err)
	}
	if _, err := hub.Start(ctx, 11, cfg, hubQuestions(t, 1)); err != nil {
		t.Fatal(err)
	}
}

func TestHubOwnershipAndResultGating(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{}
	hub := newTestHub(store)

	cfg := model.TestConfig{
		Subjects:        []model.Subject{model.SubjectPhysics},
		QuestionCount:   1,
		DurationMinutes: 3,
	}
	state, err := hub.Start(ctx, 5, cfg, hubQuestions(t, 1))
	if err != nil {
		t.Fatal(err)
	}

	// Another candidate's id never reaches the session.
	if _, err := hub.State(state.SessionID, 6); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}

	// No report before finish.
	if _, err := hub.Result(state.SessionID, 5); !errors.Is(err, ErrSessionNotFinished) {
		t.Fatalf("err = %v, want ErrSessionNotFinished", err)
	}
}
