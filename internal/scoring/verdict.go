package scoring

import "github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"

// Verdict thresholds. "High accuracy" and friends are deliberately
// coarse bands; the interesting contract is the rule ORDER below.
const (
	highAccuracy    = 85
	lowAccuracy     = 50
	highScoreRatio  = 0.70
	highAttemptRate = 0.80
)

// verdictRule is one band of the classifier.
type verdictRule struct {
	verdict model.Verdict
	match   func(r model.ResultReport) bool
}

// verdictRules is evaluated top to bottom, first match wins. Later
// rules are only reached when earlier ones fail, so reordering this
// slice changes classification outcomes — keep it ordered.
var verdictRules = []verdictRule{
	{model.VerdictPerfect, func(r model.ResultReport) bool {
		return r.MaxScore > 0 && r.Score == r.MaxScore
	}},
	{model.VerdictStrong, func(r model.ResultReport) bool {
		return r.Accuracy >= highAccuracy && highScore(r)
	}},
	{model.VerdictCautious, func(r model.ResultReport) bool {
		return r.Accuracy >= highAccuracy && !highScore(r)
	}},
	{model.VerdictGuesswork, func(r model.ResultReport) bool {
		return r.Accuracy < lowAccuracy && highAttempt(r)
	}},
	{model.VerdictCritical, func(r model.ResultReport) bool {
		return r.Score < 0
	}},
}

func highScore(r model.ResultReport) bool {
	return r.MaxScore > 0 && float64(r.Score) >= highScoreRatio*float64(r.MaxScore)
}

func highAttempt(r model.ResultReport) bool {
	return r.TotalQuestions > 0 &&
		float64(r.Attempted) >= highAttemptRate*float64(r.TotalQuestions)
}

// Classify maps a report to its qualitative band.
func Classify(r model.ResultReport) model.Verdict {
	for _, rule := range verdictRules {
		if rule.match(r) {
			return rule.verdict
		}
	}
	return model.VerdictBalanced
}
