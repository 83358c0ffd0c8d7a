package model

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// QuestionType distinguishes option-based questions from free numeric entry.
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "MCQ"
	QuestionTypeNumerical QuestionType = "NUMERICAL"
)

// Subject is the closed set of paper subjects.
type Subject string

const (
	SubjectPhysics   Subject = "PHYSICS"
	SubjectChemistry Subject = "CHEMISTRY"
	SubjectMaths     Subject = "MATHS"
)

// ValidSubject reports whether s is one of the three paper subjects.
func ValidSubject(s Subject) bool {
	switch s {
	case SubjectPhysics, SubjectChemistry, SubjectMaths:
		return true
	}
	return false
}

// Question is a single bank question. Questions are immutable once drawn
// into a session. For MCQ questions CorrectAnswer is an option index
// string ("0".."3"); for NUMERICAL it is the exact answer literal.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	QuestionText  string          `json:"question_text"`
	QuestionType  QuestionType    `json:"question_type"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer string          `json:"correct_answer"`
	Subject       Subject         `json:"subject"`
	Chapter       string          `json:"chapter"`
	YearLabel     string          `json:"year_label"`
	Explanation   string          `json:"explanation,omitempty"`
	Diagram       json.RawMessage `json:"diagram,omitempty"`
	Difficulty    string          `json:"difficulty,omitempty"`
}

// WellFormed reports whether the question satisfies the bank invariant:
// MCQ questions carry at least one option and a correct answer that is a
// valid index into the option list.
func (q *Question) WellFormed() bool {
	if q.QuestionType != QuestionTypeMCQ {
		return true
	}
	if len(q.Options) == 0 {
		return false
	}
	idx, err := strconv.Atoi(q.CorrectAnswer)
	return err == nil && idx >= 0 && idx < len(q.Options)
}

// TestConfig is the candidate-supplied recipe a paper is drawn from.
type TestConfig struct {
	Subjects        []Subject `json:"subjects" binding:"required,min=1,dive,oneof=PHYSICS CHEMISTRY MATHS"`
	Chapters        []string  `json:"chapters,omitempty"`
	QuestionCount   int       `json:"question_count" binding:"required,min=1,max=90"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1,max=360"`
	Difficulty      string    `json:"difficulty,omitempty" binding:"omitempty,oneof=EASY MEDIUM HARD MIXED"`
}

// PaperQuestion is the candidate-facing projection of a Question: the
// answer key and explanation never leave the server while a session is
// active.
type PaperQuestion struct {
	ID           uuid.UUID       `json:"id"`
	QuestionText string          `json:"question_text"`
	QuestionType QuestionType    `json:"question_type"`
	Options      []string        `json:"options,omitempty"`
	Subject      Subject         `json:"subject"`
	Chapter      string          `json:"chapter"`
	YearLabel    string          `json:"year_label"`
	Diagram      json.RawMessage `json:"diagram,omitempty"`
}

// Paper returns the candidate-facing view of the question.
func (q *Question) Paper() PaperQuestion {
	return PaperQuestion{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Options:      q.Options,
		Subject:      q.Subject,
		Chapter:      q.Chapter,
		YearLabel:    q.YearLabel,
		Diagram:      q.Diagram,
	}
}

// AddQuestionRequest is the admin payload for adding a bank question.
type AddQuestionRequest struct {
	QuestionText  string          `json:"question_text" binding:"required,min=1,max=4000"`
	QuestionType  string          `json:"question_type" binding:"required,oneof=MCQ NUMERICAL"`
	Options       []string        `json:"options,omitempty" binding:"omitempty,min=2,max=6,dive,min=1"`
	CorrectAnswer string          `json:"correct_answer" binding:"required,max=64"`
	Subject       string          `json:"subject" binding:"required,oneof=PHYSICS CHEMISTRY MATHS"`
	Chapter       string          `json:"chapter" binding:"required,min=1,max=120"`
	YearLabel     string          `json:"year_label" binding:"required,min=1,max=32"`
	Explanation   string          `json:"explanation,omitempty" binding:"max=8000"`
	Diagram       json.RawMessage `json:"diagram,omitempty"`
	Difficulty    string          `json:"difficulty,omitempty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
}
