package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

// QuestionRepository handles PYQ bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, question_text, question_type, options, correct_answer,
	subject, chapter, year_label, explanation, diagram, difficulty`

// Draw selects a random question set matching the test configuration.
// Chapters and difficulty are optional filters; MIXED difficulty means
// no difficulty filter at all.
func (r *QuestionRepository) Draw(ctx context.Context, cfg model.TestConfig) ([]model.Question, error) {
	subjects := make([]string, len(cfg.Subjects))
	for i, s := range cfg.Subjects {
		subjects[i] = string(s)
	}

	difficulty := cfg.Difficulty
	if difficulty == "MIXED" {
		difficulty = ""
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE subject = ANY($1)
		   AND (cardinality($2::text[]) = 0 OR chapter = ANY($2))
		   AND ($3 = '' OR difficulty = $3)
		 ORDER BY random()
		 LIMIT $4`,
		subjects, nonNilArray(cfg.Chapters), difficulty, cfg.QuestionCount,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// List returns a page of the bank for the admin console, newest first.
func (r *QuestionRepository) List(ctx context.Context, subject string, page, perPage int) ([]model.Question, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM questions WHERE ($1 = '' OR subject = $1)`, subject,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE ($1 = '' OR subject = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		subject, perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	return questions, total, err
}

// ListChapters returns the distinct chapter labels for a subject,
// used by the test-builder UI.
func (r *QuestionRepository) ListChapters(ctx context.Context, subject model.Subject) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT chapter FROM questions WHERE subject = $1 ORDER BY chapter`,
		string(subject),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// Create inserts a new bank question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_text, question_type, options, correct_answer,
		                        subject, chapter, year_label, explanation, diagram, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		q.QuestionText, q.QuestionType, options, q.CorrectAnswer,
		q.Subject, q.Chapter, q.YearLabel, q.Explanation, q.Diagram, q.Difficulty,
	).Scan(&q.ID)
}

// Delete removes a bank question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

// nonNilArray normalizes a nil slice to an empty one. pgx encodes a nil
// []string as SQL NULL, and cardinality(NULL::text[]) is NULL rather
// than 0, which would make the optional-filter guard reject every row.
func nonNilArray(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

type questionRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanQuestions(rows questionRows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.QuestionType, &options,
			&q.CorrectAnswer, &q.Subject, &q.Chapter, &q.YearLabel,
			&q.Explanation, &q.Diagram, &q.Difficulty); err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, err
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
