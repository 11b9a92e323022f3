package repository

import (
	"context"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SurveyRepository handles survey data access.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository creates a new SurveyRepository.
func NewSurveyRepository(pool *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

const surveyColumns = `id, title, description, is_active, is_default, start_time, end_time, created_at, updated_at`

func scanSurvey(row pgx.Row) (*model.Survey, error) {
	s := &model.Survey{}
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.IsActive, &s.IsDefault,
		&s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a survey by ID.
func (r *SurveyRepository) GetByID(ctx context.Context, id int) (*model.Survey, error) {
	return scanSurvey(r.pool.QueryRow(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE id = $1`, id))
}

// GetActiveByID retrieves a survey by ID only if it is active.
func (r *SurveyRepository) GetActiveByID(ctx context.Context, id int) (*model.Survey, error) {
	return scanSurvey(r.pool.QueryRow(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE id = $1 AND is_active`, id))
}

// ListActive returns all active surveys, newest first. The default survey is
// picked out of this set by the service's selection rule.
func (r *SurveyRepository) ListActive(ctx context.Context) ([]model.Survey, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []model.Survey
	for rows.Next() {
		var s model.Survey
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.IsActive, &s.IsDefault,
			&s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

// ListPaginated retrieves surveys with pagination, newest first.
func (r *SurveyRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Survey, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM surveys`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+surveyColumns+` FROM surveys ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var surveys []model.Survey
	for rows.Next() {
		var s model.Survey
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.IsActive, &s.IsDefault,
			&s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		surveys = append(surveys, s)
	}
	return surveys, total, rows.Err()
}

// Create inserts a new survey. When the default flag is requested, the
// insert and the clearing of every other survey's default flag run in one
// transaction so readers never observe two defaults. The partial unique
// index on (is_default) WHERE is_default backstops concurrent writers.
func (r *SurveyRepository) Create(ctx context.Context, s *model.Survey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if s.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE surveys SET is_default = false WHERE is_default`); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO surveys (title, description, is_active, is_default, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		s.Title, s.Description, s.IsActive, s.IsDefault, s.StartTime, s.EndTime,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update modifies a survey. Same single-transaction clear-then-set rule as
// Create when the default flag is being turned on.
func (r *SurveyRepository) Update(ctx context.Context, s *model.Survey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if s.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE surveys SET is_default = false WHERE id <> $1 AND is_default`, s.ID); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx,
		`UPDATE surveys
		 SET title = $1, description = $2, is_active = $3, is_default = $4,
		     start_time = $5, end_time = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING updated_at`,
		s.Title, s.Description, s.IsActive, s.IsDefault, s.StartTime, s.EndTime, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes a survey and, via ON DELETE CASCADE, its responses.
func (r *SurveyRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM surveys WHERE id = $1`, id)
	return err
}
