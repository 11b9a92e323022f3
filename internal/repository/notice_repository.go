package repository

import (
	"context"
	"strconv"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoticeRepository handles notice data access plus the per-student
// notice_reads relation.
type NoticeRepository struct {
	pool *pgxpool.Pool
}

// NewNoticeRepository creates a new NoticeRepository.
func NewNoticeRepository(pool *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{pool: pool}
}

// GetByID retrieves a notice by ID.
func (r *NoticeRepository) GetByID(ctx context.Context, id int) (*model.Notice, error) {
	n := &model.Notice{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, content, teacher_id, created_at FROM notices WHERE id = $1`, id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.TeacherID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetByIDForTeacher retrieves a notice only if the teacher authored it.
func (r *NoticeRepository) GetByIDForTeacher(ctx context.Context, id, teacherID int) (*model.Notice, error) {
	n := &model.Notice{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, content, teacher_id, created_at
		 FROM notices WHERE id = $1 AND teacher_id = $2`, id, teacherID,
	).Scan(&n.ID, &n.Title, &n.Content, &n.TeacherID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListByTeacherPaginated retrieves a teacher's notices, newest first.
func (r *NoticeRepository) ListByTeacherPaginated(ctx context.Context, teacherID, limit, offset int) ([]model.Notice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notices WHERE teacher_id = $1`, teacherID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, title, content, teacher_id, created_at
		 FROM notices WHERE teacher_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, teacherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notices []model.Notice
	for rows.Next() {
		var n model.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.TeacherID, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notices = append(notices, n)
	}
	return notices, total, rows.Err()
}

// ListForStudent retrieves notices published by the student's class teacher,
// annotated with the student's read state and optionally filtered by it.
func (r *NoticeRepository) ListForStudent(ctx context.Context, teacherID, studentID int, isRead *bool, limit, offset int) ([]model.NoticeForStudent, int, error) {
	where := ` FROM notices n
	 LEFT JOIN notice_reads nr ON nr.notice_id = n.id AND nr.student_id = $2
	 WHERE n.teacher_id = $1`
	args := []interface{}{teacherID, studentID}

	if isRead != nil {
		if *isRead {
			where += ` AND nr.student_id IS NOT NULL`
		} else {
			where += ` AND nr.student_id IS NULL`
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT n.id, n.title, n.content, n.teacher_id, n.created_at,
	                 nr.student_id IS NOT NULL, nr.read_at` +
		where + ` ORDER BY n.created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notices []model.NoticeForStudent
	for rows.Next() {
		var n model.NoticeForStudent
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.TeacherID, &n.CreatedAt, &n.IsRead, &n.ReadAt); err != nil {
			return nil, 0, err
		}
		notices = append(notices, n)
	}
	return notices, total, rows.Err()
}

// UnreadCountForStudent counts the student's unread notices from their class
// teacher. Shown on the student profile.
func (r *NoticeRepository) UnreadCountForStudent(ctx context.Context, teacherID, studentID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM notices n
		 WHERE n.teacher_id = $1
		   AND NOT EXISTS (SELECT 1 FROM notice_reads nr WHERE nr.notice_id = n.id AND nr.student_id = $2)`,
		teacherID, studentID).Scan(&count)
	return count, err
}

// MarkRead records the student as having read the given notices. Only
// notices authored by the student's class teacher count; already-read
// notices are skipped. Returns how many new read marks were recorded.
func (r *NoticeRepository) MarkRead(ctx context.Context, studentID, teacherID int, noticeIDs []int) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO notice_reads (notice_id, student_id)
		 SELECT n.id, $1 FROM notices n
		 WHERE n.id = ANY($3) AND n.teacher_id = $2
		 ON CONFLICT (notice_id, student_id) DO NOTHING`,
		studentID, teacherID, noticeIDs)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListReadersByState retrieves the students of the notice author's classes
// filtered by whether they have read the notice.
func (r *NoticeRepository) ListReadersByState(ctx context.Context, noticeID, teacherID int, wantRead bool, limit, offset int) ([]model.NoticeReader, int, error) {
	var where string
	if wantRead {
		where = ` FROM students s
		 JOIN classes c ON c.id = s.class_id
		 JOIN notice_reads nr ON nr.student_id = s.id AND nr.notice_id = $2
		 WHERE c.teacher_id = $1`
	} else {
		where = ` FROM students s
		 JOIN classes c ON c.id = s.class_id
		 WHERE c.teacher_id = $1
		   AND NOT EXISTS (SELECT 1 FROM notice_reads nr WHERE nr.student_id = s.id AND nr.notice_id = $2)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, teacherID, noticeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	var query string
	if wantRead {
		query = `SELECT s.id, s.student_no, s.username, c.name, nr.read_at` + where
	} else {
		query = `SELECT s.id, s.student_no, s.username, c.name, NULL::timestamptz` + where
	}
	query += ` ORDER BY s.student_no LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, teacherID, noticeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var readers []model.NoticeReader
	for rows.Next() {
		var nr model.NoticeReader
		if err := rows.Scan(&nr.ID, &nr.StudentNo, &nr.Username, &nr.ClassName, &nr.ReadAt); err != nil {
			return nil, 0, err
		}
		readers = append(readers, nr)
	}
	return readers, total, rows.Err()
}

// Create inserts a new notice.
func (r *NoticeRepository) Create(ctx context.Context, n *model.Notice) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notices (title, content, teacher_id)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		n.Title, n.Content, n.TeacherID,
	).Scan(&n.ID, &n.CreatedAt)
}

// Update modifies a notice.
func (r *NoticeRepository) Update(ctx context.Context, n *model.Notice) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notices SET title = $1, content = $2 WHERE id = $3`,
		n.Title, n.Content, n.ID)
	return err
}

// Delete removes a notice and its read marks.
func (r *NoticeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	return err
}
