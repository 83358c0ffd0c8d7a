package exam

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

func fresh() model.Response {
	return model.Response{QuestionID: uuid.New(), Status: model.StatusNotVisited}
}

func TestVisit(t *testing.T) {
	r := Visit(fresh())
	if r.Status != model.StatusNotAnswered {
		t.Fatalf("expected NOT_ANSWERED after first visit, got %s", r.Status)
	}

	// Revisits never reset anything.
	r = Select(r, "2")
	r = Visit(r)
	if r.Status != model.StatusAnswered {
		t.Fatalf("revisit clobbered status, got %s", r.Status)
	}
}

func TestSelectPreservesMark(t *testing.T) {
	r := Visit(fresh())
	r = ToggleMark(r)
	if r.Status != model.StatusMarkedForReview {
		t.Fatalf("expected MARKED_FOR_REVIEW, got %s", r.Status)
	}

	r = Select(r, "1")
	if r.Status != model.StatusAnsweredAndMarked {
		t.Fatalf("expected ANSWERED_AND_MARKED, got %s", r.Status)
	}
	if r.SelectedOption == nil || *r.SelectedOption != "1" {
		t.Fatalf("selection not recorded: %v", r.SelectedOption)
	}

	// Re-selecting just replaces the value.
	r = Select(r, "3")
	if r.Status != model.StatusAnsweredAndMarked || *r.SelectedOption != "3" {
		t.Fatalf("reselect broke state: %s %v", r.Status, r.SelectedOption)
	}
}

func TestEnterNumericalEmptyClears(t *testing.T) {
	r := Visit(fresh())
	r = EnterNumerical(r, "9.8")
	if r.Status != model.StatusAnswered {
		t.Fatalf("expected ANSWERED, got %s", r.Status)
	}

	r = EnterNumerical(r, "")
	if r.Status != model.StatusNotAnswered || r.SelectedOption != nil {
		t.Fatalf("empty entry should clear: %s %v", r.Status, r.SelectedOption)
	}

	// Empty entry on a marked question keeps the mark.
	r = ToggleMark(r)
	r = EnterNumerical(r, "42")
	r = EnterNumerical(r, "")
	if r.Status != model.StatusMarkedForReview {
		t.Fatalf("expected MARKED_FOR_REVIEW, got %s", r.Status)
	}
}

func TestToggleMark(t *testing.T) {
	// Unanswered: NOT_ANSWERED <-> MARKED_FOR_REVIEW.
	r := Visit(fresh())
	r = ToggleMark(r)
	if r.Status != model.StatusMarkedForReview {
		t.Fatalf("got %s", r.Status)
	}
	r = ToggleMark(r)
	if r.Status != model.StatusNotAnswered {
		t.Fatalf("got %s", r.Status)
	}

	// Answered: ANSWERED <-> ANSWERED_AND_MARKED, answer survives.
	r = Select(r, "0")
	r = ToggleMark(r)
	if r.Status != model.StatusAnsweredAndMarked {
		t.Fatalf("got %s", r.Status)
	}
	r = ToggleMark(r)
	if r.Status != model.StatusAnswered {
		t.Fatalf("got %s", r.Status)
	}
	if r.SelectedOption == nil || *r.SelectedOption != "0" {
		t.Fatalf("unmark dropped the answer: %v", r.SelectedOption)
	}
}

func TestClearKeepsMark(t *testing.T) {
	r := Visit(fresh())
	r = ToggleMark(r)
	r = Select(r, "2")
	r = Clear(r)
	if r.Status != model.StatusMarkedForReview || r.SelectedOption != nil {
		t.Fatalf("clear on marked+answered: %s %v", r.Status, r.SelectedOption)
	}

	r = Select(r, "1")
	r = ToggleMark(r) // unmark
	r = Clear(r)
	if r.Status != model.StatusNotAnswered || r.SelectedOption != nil {
		t.Fatalf("clear on answered: %s %v", r.Status, r.SelectedOption)
	}

	// Clear on an already-empty question is a no-op.
	r = Clear(r)
	if r.Status != model.StatusNotAnswered {
		t.Fatalf("got %s", r.Status)
	}
}

// TestStatusClosure runs every transition from every reachable state and
// checks the result stays inside the five-status set and never returns
// to NOT_VISITED once visited.
func TestStatusClosure(t *testing.T) {
	valid := map[model.QuestionStatus]bool{
		model.StatusNotVisited:        true,
		model.StatusNotAnswered:       true,
		model.StatusAnswered:          true,
		model.StatusMarkedForReview:   true,
		model.StatusAnsweredAndMarked: true,
	}
	transitions := []func(model.Response) model.Response{
		Visit,
		func(r model.Response) model.Response { return Select(r, "1") },
		func(r model.Response) model.Response { return EnterNumerical(r, "3.14") },
		func(r model.Response) model.Response { return EnterNumerical(r, "") },
		ToggleMark,
		Clear,
	}

	states := []model.Response{Visit(fresh())}
	seen := map[model.QuestionStatus]bool{}
	for depth := 0; depth < 6; depth++ {
		var next []model.Response
		for _, s := range states {
			for _, fn := range transitions {
				out := fn(s)
				if !valid[out.Status] {
					t.Fatalf("transition produced unknown status %q", out.Status)
				}
				if out.Status == model.StatusNotVisited {
					t.Fatalf("transition regressed to NOT_VISITED")
				}
				if !seen[out.Status] {
					seen[out.Status] = true
					next = append(next, out)
				}
			}
		}
		states = append(states, next...)
	}
}
