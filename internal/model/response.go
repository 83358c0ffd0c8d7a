package model

import "github.com/google/uuid"

// QuestionStatus is the palette status of a single question inside a
// session. The five values are the closed product of (visited, answered,
// marked); transition logic lives in the exam package.
type QuestionStatus string

const (
	StatusNotVisited        QuestionStatus = "NOT_VISITED"
	StatusNotAnswered       QuestionStatus = "NOT_ANSWERED"
	StatusAnswered          QuestionStatus = "ANSWERED"
	StatusMarkedForReview   QuestionStatus = "MARKED_FOR_REVIEW"
	StatusAnsweredAndMarked QuestionStatus = "ANSWERED_AND_MARKED"
)

// Response is the per-question answer record. One Response exists per
// session question from initialization to finish; only the session
// engine mutates it while the session is active.
type Response struct {
	QuestionID       uuid.UUID      `json:"question_id"`
	SelectedOption   *string        `json:"selected_option,omitempty"`
	Status           QuestionStatus `json:"status"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
}

// Selected reports whether the response carries an answer.
func (r *Response) Selected() bool {
	return r.SelectedOption != nil
}
