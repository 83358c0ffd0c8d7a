// Package scoring converts a finished session's response table into an
// immutable result report. It is a total function over well-formed
// input: malformed responses are excluded from aggregation, never an
// error.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

// JEE marking scheme: +4 per correct, -1 per incorrect, 0 unattempted.
const (
	MarksCorrect   = 4
	MarksIncorrect = -1
)

// Input carries everything the scorer needs from a finished session.
type Input struct {
	SessionID     uuid.UUID
	Questions     []model.Question
	Responses     []model.Response
	TimeTakenSecs int
	TabSwitches   int
	FinishedAt    time.Time
}

// IsCorrect applies the per-question correctness rule. MCQ answers
// match by exact index string; numerical answers are compared as exact
// strings after trimming surrounding whitespace — "5.40" does not match
// "5.4", deliberately, because bank answers are verbatim PYQ strings.
func IsCorrect(q *model.Question, selected string) bool {
	if q.QuestionType == model.QuestionTypeNumerical {
		return strings.TrimSpace(selected) == strings.TrimSpace(q.CorrectAnswer)
	}
	return selected == q.CorrectAnswer
}

// accuracy is round(correct/attempted*100), defined as 0 for zero
// attempts.
func accuracy(correct, attempted int) int {
	if attempted == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(attempted) * 100))
}

// Score grades a finished session. Responses referencing unknown
// question ids are skipped; questions without a response count as
// unattempted.
func Score(in Input) model.ResultReport {
	byID := make(map[uuid.UUID]*model.Question, len(in.Questions))
	for i := range in.Questions {
		byID[in.Questions[i].ID] = &in.Questions[i]
	}

	perSubject := make(map[model.Subject]*model.SubjectStats, 3)
	statsFor := func(s model.Subject) *model.SubjectStats {
		st, ok := perSubject[s]
		if !ok {
			st = &model.SubjectStats{Subject: s}
			perSubject[s] = st
		}
		return st
	}
	for i := range in.Questions {
		statsFor(in.Questions[i].Subject).Total++
	}

	var attempted, correct, incorrect int
	for _, r := range in.Responses {
		q, ok := byID[r.QuestionID]
		if !ok {
			continue
		}
		if !r.Selected() {
			continue
		}
		st := statsFor(q.Subject)
		attempted++
		st.Attempted++
		if IsCorrect(q, *r.SelectedOption) {
			correct++
			st.Correct++
		} else {
			incorrect++
			st.Incorrect++
		}
	}

	total := len(in.Questions)
	score := correct*MarksCorrect + incorrect*MarksIncorrect
	maxScore := total * MarksCorrect

	subjects := make([]model.SubjectStats, 0, len(perSubject))
	for _, s := range []model.Subject{model.SubjectPhysics, model.SubjectChemistry, model.SubjectMaths} {
		st, ok := perSubject[s]
		if !ok {
			continue
		}
		st.Score = st.Correct*MarksCorrect + st.Incorrect*MarksIncorrect
		st.Accuracy = accuracy(st.Correct, st.Attempted)
		subjects = append(subjects, *st)
	}

	report := model.ResultReport{
		SessionID:      in.SessionID,
		TotalQuestions: total,
		Attempted:      attempted,
		Correct:        correct,
		Incorrect:      incorrect,
		Unattempted:    total - attempted,
		Score:          score,
		MaxScore:       maxScore,
		Accuracy:       accuracy(correct, attempted),
		Subjects:       subjects,
		Responses:      in.Responses,
		TimeTakenSecs:  in.TimeTakenSecs,
		TabSwitches:    in.TabSwitches,
		FinishedAt:     in.FinishedAt,
	}
	report.Verdict = Classify(report)
	return report
}
