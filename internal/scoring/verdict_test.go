package scoring

import (
	"testing"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		report model.ResultReport
		want   model.Verdict
	}{
		{
			name:   "full marks",
			report: model.ResultReport{TotalQuestions: 10, Attempted: 10, Correct: 10, Score: 40, MaxScore: 40, Accuracy: 100},
			want:   model.VerdictPerfect,
		},
		{
			name:   "high accuracy high score",
			report: model.ResultReport{TotalQuestions: 20, Attempted: 16, Correct: 15, Incorrect: 1, Score: 59, MaxScore: 80, Accuracy: 94},
			want:   model.VerdictStrong,
		},
		{
			// Accurate but attempted too little to score well.
			name:   "high accuracy low score",
			report: model.ResultReport{TotalQuestions: 20, Attempted: 6, Correct: 6, Score: 24, MaxScore: 80, Accuracy: 100},
			want:   model.VerdictCautious,
		},
		{
			name:   "low accuracy high attempt",
			report: model.ResultReport{TotalQuestions: 20, Attempted: 18, Correct: 6, Incorrect: 12, Score: 12, MaxScore: 80, Accuracy: 33},
			want:   model.VerdictGuesswork,
		},
		{
			name:   "break even low attempt",
			report: model.ResultReport{TotalQuestions: 20, Attempted: 5, Correct: 1, Incorrect: 4, Score: 0, MaxScore: 80, Accuracy: 20},
			want:   model.VerdictBalanced,
		},
		{
			name:   "negative total",
			report: model.ResultReport{TotalQuestions: 20, Attempted: 10, Correct: 1, Incorrect: 9, Score: -5, MaxScore: 80, Accuracy: 10},
			want:   model.VerdictCritical,
		},
		{
			name:   "middle of the road",
			report: model.ResultReport{TotalQuestions: 20, Attempted: 12, Correct: 8, Incorrect: 4, Score: 28, MaxScore: 80, Accuracy: 67},
			want:   model.VerdictBalanced,
		},
		{
			name:   "empty report",
			report: model.ResultReport{},
			want:   model.VerdictBalanced,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.report); got != tc.want {
				t.Errorf("Classify() = %s, want %s", got, tc.want)
			}
		})
	}
}

// A guessed-through paper with a negative score must classify as
// GUESSWORK, not CRITICAL: the rule order puts the attempt-pattern band
// before the raw-score band.
func TestClassifyOrderGuessworkBeforeCritical(t *testing.T) {
	report := model.ResultReport{
		TotalQuestions: 20, Attempted: 18, Correct: 3, Incorrect: 15,
		Score: -3, MaxScore: 80, Accuracy: 17,
	}
	if got := Classify(report); got != model.VerdictGuesswork {
		t.Fatalf("Classify() = %s, want GUESSWORK", got)
	}
}
