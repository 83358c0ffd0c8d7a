// Package exam implements the in-memory test session engine: the
// per-question status machine, the one-second countdown, and the session
// aggregate that ties them together. Everything here is pure state —
// persistence, transport and scheduling live in the service layer.
package exam

import "github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"

// The five palette statuses are the closed mapping of an orthogonal
// (answered, marked) pair on visited questions, plus the initial
// NOT_VISITED state. Transitions below are pure and total: they never
// fail, repeated identical actions are no-ops, and no transition leads
// back to NOT_VISITED.

func answered(r model.Response) bool {
	return r.Selected()
}

func marked(r model.Response) bool {
	return r.Status == model.StatusMarkedForReview || r.Status == model.StatusAnsweredAndMarked
}

// statusFor maps the (answered, marked) pair of a visited question to
// its palette tag.
func statusFor(answered, marked bool) model.QuestionStatus {
	switch {
	case answered && marked:
		return model.StatusAnsweredAndMarked
	case answered:
		return model.StatusAnswered
	case marked:
		return model.StatusMarkedForReview
	default:
		return model.StatusNotAnswered
	}
}

// Visit moves a never-shown question to NOT_ANSWERED. Any other status
// is left untouched.
func Visit(r model.Response) model.Response {
	if r.Status == model.StatusNotVisited {
		r.Status = model.StatusNotAnswered
	}
	return r
}

// Select records an option selection. The mark flag survives the
// transition, so a marked question becomes ANSWERED_AND_MARKED.
func Select(r model.Response, value string) model.Response {
	v := value
	r.SelectedOption = &v
	r.Status = statusFor(true, marked(r))
	return r
}

// EnterNumerical records a free-text numeric answer. Empty text counts
// as "no answer": the selection is cleared and the question returns to
// NOT_ANSWERED (or MARKED_FOR_REVIEW if it was marked).
func EnterNumerical(r model.Response, text string) model.Response {
	if text == "" {
		r.SelectedOption = nil
		r.Status = statusFor(false, marked(r))
		return r
	}
	return Select(r, text)
}

// ToggleMark flips the review mark. Un-marking keeps any recorded
// answer; marking preserves the presence or absence of one.
func ToggleMark(r model.Response) model.Response {
	switch r.Status {
	case model.StatusMarkedForReview:
		r.Status = model.StatusNotAnswered
	case model.StatusAnsweredAndMarked:
		r.Status = model.StatusAnswered
	default:
		r.Status = statusFor(answered(r), true)
	}
	return r
}

// Clear removes the recorded answer. The mark flag survives:
// ANSWERED_AND_MARKED falls back to MARKED_FOR_REVIEW, everything else
// to NOT_ANSWERED.
func Clear(r model.Response) model.Response {
	r.SelectedOption = nil
	if r.Status == model.StatusAnsweredAndMarked {
		r.Status = model.StatusMarkedForReview
	} else {
		r.Status = model.StatusNotAnswered
	}
	return r
}
