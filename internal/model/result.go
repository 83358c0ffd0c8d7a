package model

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the qualitative performance band of a finished attempt.
type Verdict string

const (
	VerdictPerfect   Verdict = "PERFECT"
	VerdictStrong    Verdict = "STRONG"
	VerdictCautious  Verdict = "CAUTIOUS"
	VerdictGuesswork Verdict = "GUESSWORK"
	VerdictCritical  Verdict = "CRITICAL"
	VerdictBalanced  Verdict = "BALANCED"
)

// SubjectStats is the per-subject slice of a result report.
type SubjectStats struct {
	Subject   Subject `json:"subject"`
	Total     int     `json:"total"`
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Score     int     `json:"score"`
	Accuracy  int     `json:"accuracy"`
}

// ResultReport is the immutable outcome of a finished session. It is
// computed exactly once and never mutated afterwards.
type ResultReport struct {
	SessionID      uuid.UUID      `json:"session_id"`
	TotalQuestions int            `json:"total_questions"`
	Attempted      int            `json:"attempted"`
	Correct        int            `json:"correct"`
	Incorrect      int            `json:"incorrect"`
	Unattempted    int            `json:"unattempted"`
	Score          int            `json:"score"`
	MaxScore       int            `json:"max_score"`
	Accuracy       int            `json:"accuracy"`
	Verdict        Verdict        `json:"verdict"`
	Subjects       []SubjectStats `json:"subjects"`
	Responses      []Response     `json:"responses"`
	TimeTakenSecs  int            `json:"time_taken_seconds"`
	TabSwitches    int            `json:"tab_switches"`
	FinishedAt     time.Time      `json:"finished_at"`
}

// HistoryEntry is the durable, write-once summary of a finished attempt
// together with the configuration that produced it. Entries are only
// ever deleted in bulk.
type HistoryEntry struct {
	SessionID  uuid.UUID  `json:"session_id"`
	Config     TestConfig `json:"config"`
	Score      int        `json:"score"`
	MaxScore   int        `json:"max_score"`
	Accuracy   int        `json:"accuracy"`
	Attempted  int        `json:"attempted"`
	Correct    int        `json:"correct"`
	Verdict    Verdict    `json:"verdict"`
	FinishedAt time.Time  `json:"finished_at"`
}
