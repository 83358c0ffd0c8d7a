package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
)

// CandidateRepository handles candidate account data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// Create inserts a new candidate.
func (r *CandidateRepository) Create(ctx context.Context, c *model.Candidate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO candidates (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.Email, c.Name, c.PasswordHash,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByEmail fetches a candidate by email. Returns pgx.ErrNoRows when absent.
func (r *CandidateRepository) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at
		 FROM candidates WHERE email = $1`, email,
	).Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a candidate by id.
func (r *CandidateRepository) GetByID(ctx context.Context, id int) (*model.Candidate, error) {
	var c model.Candidate
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at
		 FROM candidates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
