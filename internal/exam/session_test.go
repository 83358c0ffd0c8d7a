package exam

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

func makeQuestions(t *testing.T, n int) []model.Question {
	t.Helper()
	subjects := []model.Subject{model.SubjectPhysics, model.SubjectChemistry, model.SubjectMaths}
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			QuestionText:  fmt.Sprintf("question %d", i),
			QuestionType:  model.QuestionTypeMCQ,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "0",
			Subject:       subjects[i%len(subjects)],
			Chapter:       "Kinematics",
			YearLabel:     "JEE Main 2022",
		}
	}
	return questions
}

func TestNewSessionEmptySet(t *testing.T) {
	_, err := NewSession(nil, 60)
	if !errors.Is(err, ErrEmptyQuestionSet) {
		t.Fatalf("err = %v, want ErrEmptyQuestionSet", err)
	}
}

func TestNewSessionInitialState(t *testing.T) {
	s, err := NewSession(makeQuestions(t, 5), 60)
	if err != nil {
		t.Fatal(err)
	}

	if s.Position() != 0 {
		t.Fatalf("position = %d", s.Position())
	}
	if s.RemainingSeconds() != 60*60 {
		t.Fatalf("remaining = %d", s.RemainingSeconds())
	}

	palette := s.Palette()
	if palette[0] != model.StatusNotAnswered {
		t.Fatalf("first question = %s, want NOT_ANSWERED", palette[0])
	}
	for i := 1; i < len(palette); i++ {
		if palette[i] != model.StatusNotVisited {
			t.Fatalf("question %d = %s, want NOT_VISITED", i, palette[i])
		}
	}
}

func TestNavigateOutOfRange(t *testing.T) {
	s, _ := NewSession(makeQuestions(t, 3), 60)
	s.NavigateTo(2)
	s.NavigateTo(-1)
	s.NavigateTo(3)
	if s.Position() != 2 {
		t.Fatalf("position = %d, want 2", s.Position())
	}
}

func TestTickCreditsCurrentQuestion(t *testing.T) {
	s, _ := NewSession(makeQuestions(t, 3), 60)

	// 4 seconds on question 0, then 6 on question 2.
	for i := 0; i < 4; i++ {
		s.Tick()
	}
	s.NavigateTo(2)
	for i := 0; i < 6; i++ {
		s.Tick()
	}

	responses := s.Responses()
	if got := responses[0].TimeSpentSeconds; got != 4 {
		t.Errorf("question 0 credited %d seconds, want 4", got)
	}
	if got := responses[2].TimeSpentSeconds; got != 6 {
		t.Errorf("question 2 credited %d seconds, want 6", got)
	}

	// Every tick lands on exactly one question.
	var sum int
	for _, r := range responses {
		sum += r.TimeSpentSeconds
	}
	if sum != s.ElapsedSeconds() {
		t.Fatalf("credited %d seconds across questions, elapsed %d", sum, s.ElapsedSeconds())
	}
}

func TestExpiryFinishesOnce(t *testing.T) {
	s, _ := NewSession(makeQuestions(t, 2), 1) // 60 seconds

	var expiries int
	for i := 0; i < 120; i++ {
		if s.Tick() {
			expiries++
		}
	}
	if expiries != 1 {
		t.Fatalf("expiry reported %d times", expiries)
	}
	if !s.Finished() || s.Reason() != FinishReasonExpiry {
		t.Fatalf("finished=%v reason=%s", s.Finished(), s.Reason())
	}
	if s.ElapsedSeconds() != 60 {
		t.Fatalf("elapsed = %d, want 60 (post-finish ticks must not count)", s.ElapsedSeconds())
	}
}

func TestFinishFreezesState(t *testing.T) {
	s, _ := NewSession(makeQuestions(t, 3), 60)
	s.SelectOption("1")
	s.NavigateTo(1)
	s.ToggleMark()

	s.Finish()
	if s.Reason() != FinishReasonSubmit {
		t.Fatalf("reason = %s", s.Reason())
	}
	frozen := s.Responses()

	// Every mutation after finish is a no-op.
	s.SelectOption("3")
	s.ClearResponse()
	s.ToggleMark()
	s.EnterNumerical("7")
	s.RecordTabSwitch()
	s.Tick()
	s.Finish() // repeat submit

	if !reflect.DeepEqual(frozen, s.Responses()) {
		t.Fatal("post-finish mutation changed the frozen snapshot")
	}
	if s.TabSwitches() != 0 {
		t.Fatalf("tab switches = %d after finish", s.TabSwitches())
	}

	// Navigation stays available for review but mutates nothing.
	s.NavigateTo(2)
	if s.Position() != 2 {
		t.Fatalf("position = %d", s.Position())
	}
	if s.Responses()[2].Status != model.StatusNotVisited {
		t.Fatal("post-finish navigation visited a question")
	}
}

func TestRecordTabSwitch(t *testing.T) {
	s, _ := NewSession(makeQuestions(t, 1), 60)
	s.RecordTabSwitch()
	s.RecordTabSwitch()
	if s.TabSwitches() != 2 {
		t.Fatalf("tab switches = %d", s.TabSwitches())
	}
}
