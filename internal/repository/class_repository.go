package repository

import (
	"context"
	"errors"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateClassName is returned when a class with the same name exists.
var ErrDuplicateClassName = errors.New("class with this name already exists")

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c := &model.Class{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, teacher_id, created_at FROM classes WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all classes, ordered by name. Used by the public class
// directory shown on the registration form.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, teacher_id, created_at FROM classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ListByTeacher retrieves a teacher's classes annotated with student counts.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.ClassWithCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.teacher_id, c.created_at, COUNT(s.id)
		 FROM classes c
		 LEFT JOIN students s ON s.class_id = c.id
		 WHERE c.teacher_id = $1
		 GROUP BY c.id
		 ORDER BY c.name`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.ClassWithCount
	for rows.Next() {
		var c model.ClassWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt, &c.StudentCount); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// BelongsToTeacher reports whether the class is owned by the teacher.
func (r *ClassRepository) BelongsToTeacher(ctx context.Context, classID, teacherID int) (bool, error) {
	var owned bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1 AND teacher_id = $2)`,
		classID, teacherID).Scan(&owned)
	return owned, err
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, teacher_id) VALUES ($1, $2) RETURNING id, created_at`,
		c.Name, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt)
	return mapClassUniqueError(err)
}

// Update renames a class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $1 WHERE id = $2`, c.Name, c.ID)
	return mapClassUniqueError(err)
}

// Delete removes a class. The FK from students restricts deletion while
// students are still assigned.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}

func mapClassUniqueError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateClassName
	}
	return err
}
