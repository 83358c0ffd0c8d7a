package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

func mcq(subject model.Subject, correct string) model.Question {
	return model.Question{
		ID:            uuid.New(),
		QuestionType:  model.QuestionTypeMCQ,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: correct,
		Subject:       subject,
	}
}

func numerical(subject model.Subject, answer string) model.Question {
	return model.Question{
		ID:            uuid.New(),
		QuestionType:  model.QuestionTypeNumerical,
		CorrectAnswer: answer,
		Subject:       subject,
	}
}

func respond(q model.Question, selected string) model.Response {
	return model.Response{
		QuestionID:     q.ID,
		SelectedOption: &selected,
		Status:         model.StatusAnswered,
	}
}

func unanswered(q model.Question) model.Response {
	return model.Response{QuestionID: q.ID, Status: model.StatusNotAnswered}
}

func TestScoreMarkingScheme(t *testing.T) {
	subjects := []model.Subject{model.SubjectPhysics, model.SubjectChemistry, model.SubjectMaths}

	// 15 questions, 5 per subject: 10 correct, 3 incorrect, 2 blank.
	var questions []model.Question
	for i := 0; i < 15; i++ {
		questions = append(questions, mcq(subjects[i/5], "0"))
	}
	var responses []model.Response
	for i := 0; i < 10; i++ {
		responses = append(responses, respond(questions[i], "0"))
	}
	for i := 10; i < 13; i++ {
		responses = append(responses, respond(questions[i], "2"))
	}
	for i := 13; i < 15; i++ {
		responses = append(responses, unanswered(questions[i]))
	}

	report := Score(Input{
		SessionID:     uuid.New(),
		Questions:     questions,
		Responses:     responses,
		TimeTakenSecs: 540,
		FinishedAt:    time.Now(),
	})

	if report.Score != 37 {
		t.Errorf("score = %d, want 37 (10*4 - 3*1)", report.Score)
	}
	if report.MaxScore != 60 {
		t.Errorf("max score = %d, want 60", report.MaxScore)
	}
	if report.Attempted != 13 || report.Correct != 10 || report.Incorrect != 3 || report.Unattempted != 2 {
		t.Errorf("counts = %d/%d/%d/%d", report.Attempted, report.Correct, report.Incorrect, report.Unattempted)
	}
	if report.Accuracy != 77 { // round(10/13*100)
		t.Errorf("accuracy = %d, want 77", report.Accuracy)
	}

	if len(report.Subjects) != 3 {
		t.Fatalf("subject stats = %d, want 3", len(report.Subjects))
	}
	// Fixed subject order regardless of input order.
	for i, want := range subjects {
		if report.Subjects[i].Subject != want {
			t.Errorf("subjects[%d] = %s, want %s", i, report.Subjects[i].Subject, want)
		}
		if report.Subjects[i].Total != 5 {
			t.Errorf("subjects[%d].Total = %d", i, report.Subjects[i].Total)
		}
	}
	// PHYSICS: 5 correct. MATHS: 3 incorrect + 2 blank.
	if got := report.Subjects[0].Score; got != 20 {
		t.Errorf("physics score = %d, want 20", got)
	}
	if got := report.Subjects[2].Score; got != -3 {
		t.Errorf("maths score = %d, want -3", got)
	}
	if got := report.Subjects[2].Accuracy; got != 0 {
		t.Errorf("maths accuracy = %d, want 0", got)
	}
}

func TestScoreZeroAttempted(t *testing.T) {
	questions := []model.Question{mcq(model.SubjectPhysics, "1")}
	report := Score(Input{
		SessionID: uuid.New(),
		Questions: questions,
		Responses: []model.Response{unanswered(questions[0])},
	})
	if report.Accuracy != 0 {
		t.Errorf("accuracy = %d, want 0 for zero attempts", report.Accuracy)
	}
	if report.Score != 0 || report.Unattempted != 1 {
		t.Errorf("score=%d unattempted=%d", report.Score, report.Unattempted)
	}
}

func TestScoreSkipsUnknownQuestionIDs(t *testing.T) {
	questions := []model.Question{mcq(model.SubjectMaths, "0")}
	stray := respond(mcq(model.SubjectMaths, "0"), "0") // id not in the paper
	report := Score(Input{
		Questions: questions,
		Responses: []model.Response{respond(questions[0], "0"), stray},
	})
	if report.Attempted != 1 || report.Correct != 1 {
		t.Errorf("attempted=%d correct=%d, stray response not skipped", report.Attempted, report.Correct)
	}
}

func TestIsCorrectNumerical(t *testing.T) {
	q := numerical(model.SubjectChemistry, "5.4")

	cases := []struct {
		selected string
		want     bool
	}{
		{"5.4", true},
		{"  5.4 ", true}, // surrounding whitespace is trimmed
		{"5.40", false},  // exact string match, no numeric parsing
		{"5,4", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsCorrect(&q, tc.selected); got != tc.want {
			t.Errorf("IsCorrect(%q) = %v, want %v", tc.selected, got, tc.want)
		}
	}
}

func TestIsCorrectMCQ(t *testing.T) {
	q := mcq(model.SubjectPhysics, "2")
	if !IsCorrect(&q, "2") {
		t.Error("exact index should match")
	}
	if IsCorrect(&q, " 2") {
		t.Error("MCQ indices are not trimmed")
	}
}
