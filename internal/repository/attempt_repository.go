package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

// AttemptRecord is the durable row for one finished test attempt.
type AttemptRecord struct {
	SessionID     uuid.UUID          `json:"session_id"`
	CandidateID   int                `json:"candidate_id"`
	Score         int                `json:"score"`
	MaxScore      int                `json:"max_score"`
	Accuracy      int                `json:"accuracy"`
	Attempted     int                `json:"attempted"`
	Correct       int                `json:"correct"`
	Verdict       model.Verdict      `json:"verdict"`
	TimeTakenSecs int                `json:"time_taken_seconds"`
	TabSwitches   int                `json:"tab_switches"`
	FinishedAt    time.Time          `json:"finished_at"`
	Report        model.ResultReport `json:"report"`
}

// AttemptRepository persists finished attempts to PostgreSQL.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// BulkInsert writes a batch of attempts in a single round trip using
// UNNEST. Session id conflicts (worker retry after partial failure) are
// ignored — attempts are write-once.
func (r *AttemptRepository) BulkInsert(ctx context.Context, batch []*AttemptRecord) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	sessionIDs := make([]uuid.UUID, 0, n)
	candidates := make([]int, 0, n)
	scores := make([]int, 0, n)
	maxScores := make([]int, 0, n)
	accuracies := make([]int, 0, n)
	verdicts := make([]string, 0, n)
	timeTaken := make([]int, 0, n)
	tabSwitches := make([]int, 0, n)
	finishedAts := make([]time.Time, 0, n)
	reports := make([][]byte, 0, n)

	for _, a := range batch {
		report, err := json.Marshal(a.Report)
		if err != nil {
			return err
		}
		sessionIDs = append(sessionIDs, a.SessionID)
		candidates = append(candidates, a.CandidateID)
		scores = append(scores, a.Score)
		maxScores = append(maxScores, a.MaxScore)
		accuracies = append(accuracies, a.Accuracy)
		verdicts = append(verdicts, string(a.Verdict))
		timeTaken = append(timeTaken, a.TimeTakenSecs)
		tabSwitches = append(tabSwitches, a.TabSwitches)
		finishedAts = append(finishedAts, a.FinishedAt)
		reports = append(reports, report)
	}

	query := `
		INSERT INTO attempts (
			session_id, candidate_id, score, max_score, accuracy,
			verdict, time_taken_seconds, tab_switches, finished_at, report
		)
		SELECT
			u.session_id, u.candidate_id, u.score, u.max_score, u.accuracy,
			u.verdict, u.time_taken_seconds, u.tab_switches, u.finished_at, u.report
		FROM UNNEST(
			$1::uuid[],
			$2::int[],
			$3::int[],
			$4::int[],
			$5::int[],
			$6::text[],
			$7::int[],
			$8::int[],
			$9::timestamptz[],
			$10::jsonb[]
		) AS u (
			session_id, candidate_id, score, max_score, accuracy,
			verdict, time_taken_seconds, tab_switches, finished_at, report
		)
		ON CONFLICT (session_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		sessionIDs, candidates, scores, maxScores, accuracies,
		verdicts, timeTaken, tabSwitches, finishedAts, reports,
	)
	return err
}

// Insert writes a single attempt. Used as the per-row fallback when a
// bulk write fails.
func (r *AttemptRepository) Insert(ctx context.Context, a *AttemptRecord) error {
	report, err := json.Marshal(a.Report)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO attempts (
			session_id, candidate_id, score, max_score, accuracy,
			verdict, time_taken_seconds, tab_switches, finished_at, report
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (session_id) DO NOTHING`,
		a.SessionID, a.CandidateID, a.Score, a.MaxScore, a.Accuracy,
		a.Verdict, a.TimeTakenSecs, a.TabSwitches, a.FinishedAt, report,
	)
	return err
}

// GetReport fetches the stored report blob for one finished attempt,
// scoped to its owner.
func (r *AttemptRepository) GetReport(ctx context.Context, sessionID uuid.UUID, candidateID int) (*model.ResultReport, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT report FROM attempts WHERE session_id = $1 AND candidate_id = $2`,
		sessionID, candidateID,
	).Scan(&raw)
	if err != nil {
		return nil, err
	}
	var report model.ResultReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
