package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Duplicate-key errors surfaced from the students table's unique columns.
var (
	ErrDuplicateStudentNo = errors.New("student with this student number already exists")
	ErrDuplicatePhone     = errors.New("student with this phone number already exists")
)

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, student_no, username, phone, password_hash, class_id,
	status, province, study_school, study_major, created_at, updated_at`

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.StudentNo, &s.Username, &s.Phone, &s.PasswordHash, &s.ClassID,
		&s.Status, &s.Province, &s.StudySchool, &s.StudyMajor, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// GetByStudentNo retrieves a student by their unique student number.
func (r *StudentRepository) GetByStudentNo(ctx context.Context, studentNo string) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE student_no = $1`, studentNo))
}

// GetByIDForTeacher retrieves a student only if they belong to one of the
// teacher's classes. pgx.ErrNoRows doubles as the scope-violation signal.
func (r *StudentRepository) GetByIDForTeacher(ctx context.Context, id, teacherID int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT s.id, s.student_no, s.username, s.phone, s.password_hash, s.class_id,
		        s.status, s.province, s.study_school, s.study_major, s.created_at, s.updated_at
		 FROM students s
		 JOIN classes c ON c.id = s.class_id
		 WHERE s.id = $1 AND c.teacher_id = $2`, id, teacherID))
}

// GetByStudentNoForTeacher retrieves a student by student number scoped to
// the teacher's classes.
func (r *StudentRepository) GetByStudentNoForTeacher(ctx context.Context, studentNo string, teacherID int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT s.id, s.student_no, s.username, s.phone, s.password_hash, s.class_id,
		        s.status, s.province, s.study_school, s.study_major, s.created_at, s.updated_at
		 FROM students s
		 JOIN classes c ON c.id = s.class_id
		 WHERE s.student_no = $1 AND c.teacher_id = $2`, studentNo, teacherID))
}

// ListByTeacherPaginated retrieves students of the teacher's classes with
// optional class/status filters and a fuzzy search on number and name.
func (r *StudentRepository) ListByTeacherPaginated(ctx context.Context, teacherID int, classID, status *int, search string, limit, offset int) ([]model.Student, int, error) {
	where := ` FROM students s JOIN classes c ON c.id = s.class_id WHERE c.teacher_id = $1`
	args := []interface{}{teacherID}

	if classID != nil {
		args = append(args, *classID)
		where += ` AND s.class_id = $` + strconv.Itoa(len(args))
	}
	if status != nil {
		args = append(args, *status)
		where += ` AND s.status = $` + strconv.Itoa(len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		idx := strconv.Itoa(len(args))
		where += ` AND (s.student_no ILIKE $` + idx + ` OR s.username ILIKE $` + idx + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT s.id, s.student_no, s.username, s.phone, s.password_hash, s.class_id,
	                 s.status, s.province, s.study_school, s.study_major, s.created_at, s.updated_at` +
		where + ` ORDER BY s.student_no LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students, err := collectStudents(rows)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListClassmates retrieves students of one class with optional search,
// ordered by student number.
func (r *StudentRepository) ListClassmates(ctx context.Context, classID int, search string, limit, offset int) ([]model.Student, int, error) {
	where := ` FROM students s WHERE s.class_id = $1`
	args := []interface{}{classID}

	if search != "" {
		args = append(args, "%"+search+"%")
		idx := strconv.Itoa(len(args))
		where += ` AND (s.student_no ILIKE $` + idx + ` OR s.username ILIKE $` + idx + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT s.id, s.student_no, s.username, s.phone, s.password_hash, s.class_id,
	                 s.status, s.province, s.study_school, s.study_major, s.created_at, s.updated_at` +
		where + ` ORDER BY s.student_no LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students, err := collectStudents(rows)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// CountByTeacher counts all students across the teacher's classes. This is
// the total population for completion statistics.
func (r *StudentRepository) CountByTeacher(ctx context.Context, teacherID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM students s
		 JOIN classes c ON c.id = s.class_id
		 WHERE c.teacher_id = $1`, teacherID).Scan(&count)
	return count, err
}

// ListBySurveyCompletion retrieves the teacher-scoped students filtered by
// whether they have a response for the survey. Completed rows carry the
// submission timestamp; uncompleted rows use set exclusion.
func (r *StudentRepository) ListBySurveyCompletion(ctx context.Context, surveyID, teacherID int, completed bool, limit, offset int) ([]model.StudentBrief, int, error) {
	var where string
	if completed {
		where = ` FROM students s
		 JOIN classes c ON c.id = s.class_id
		 JOIN survey_responses sr ON sr.student_id = s.id AND sr.survey_id = $2
		 WHERE c.teacher_id = $1`
	} else {
		where = ` FROM students s
		 JOIN classes c ON c.id = s.class_id
		 WHERE c.teacher_id = $1
		   AND NOT EXISTS (SELECT 1 FROM survey_responses sr WHERE sr.student_id = s.id AND sr.survey_id = $2)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, teacherID, surveyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	var query string
	if completed {
		query = `SELECT s.id, s.student_no, s.username, c.name, sr.submitted_at` + where
	} else {
		query = `SELECT s.id, s.student_no, s.username, c.name, NULL::timestamptz` + where
	}
	query += ` ORDER BY s.student_no LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, teacherID, surveyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var briefs []model.StudentBrief
	for rows.Next() {
		var b model.StudentBrief
		if err := rows.Scan(&b.ID, &b.StudentNo, &b.Username, &b.ClassName, &b.SubmittedAt); err != nil {
			return nil, 0, err
		}
		briefs = append(briefs, b)
	}
	return briefs, total, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (student_no, username, phone, password_hash, class_id, status, province, study_school, study_major)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		s.StudentNo, s.Username, s.Phone, s.PasswordHash, s.ClassID,
		s.Status, s.Province, s.StudySchool, s.StudyMajor,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapStudentUniqueError(err)
}

// Update modifies a student's profile (excluding password).
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students
		 SET student_no = $1, username = $2, phone = $3, class_id = $4,
		     status = $5, province = $6, study_school = $7, study_major = $8,
		     updated_at = NOW()
		 WHERE id = $9`,
		s.StudentNo, s.Username, s.Phone, s.ClassID,
		s.Status, s.Province, s.StudySchool, s.StudyMajor, s.ID,
	)
	return mapStudentUniqueError(err)
}

// UpdatePassword updates a student's password hash.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
	return err
}

// Delete removes a student by ID.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

func collectStudents(rows pgx.Rows) ([]model.Student, error) {
	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.StudentNo, &s.Username, &s.Phone, &s.PasswordHash, &s.ClassID,
			&s.Status, &s.Province, &s.StudySchool, &s.StudyMajor, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// mapStudentUniqueError translates 23505 violations into the matching
// domain error using the constraint name.
func mapStudentUniqueError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "students_phone_key":
			return ErrDuplicatePhone
		default:
			return ErrDuplicateStudentNo
		}
	}
	return err
}
