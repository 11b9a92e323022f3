package repository

import (
	"context"
	"errors"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateResponse is returned when a second response for the same
// (student, survey) pair is inserted. The unique constraint is the
// authoritative check; the service's existence pre-check exists only to give
// a friendlier error in the common case.
var ErrDuplicateResponse = errors.New("a response for this student and survey already exists")

// SurveyResponseRepository handles survey response data access.
type SurveyResponseRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyResponseRepository creates a new SurveyResponseRepository.
func NewSurveyResponseRepository(pool *pgxpool.Pool) *SurveyResponseRepository {
	return &SurveyResponseRepository{pool: pool}
}

const responseColumns = `id, survey_id, student_id, name, student_no, class_name, phone,
	future_plan, employment_type, city_preference, expected_salary, job_market_view,
	study_type, target_school, study_plan_status, submitted_at, updated_at`

func scanResponse(row pgx.Row) (*model.SurveyResponse, error) {
	resp := &model.SurveyResponse{}
	err := row.Scan(&resp.ID, &resp.SurveyID, &resp.StudentID, &resp.Name, &resp.StudentNo,
		&resp.ClassName, &resp.Phone, &resp.FuturePlan,
		&resp.EmploymentType, &resp.CityPreference, &resp.ExpectedSalary, &resp.JobMarketView,
		&resp.StudyType, &resp.TargetSchool, &resp.StudyPlanStatus,
		&resp.SubmittedAt, &resp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Exists reports whether the student already has a response for the survey.
func (r *SurveyResponseRepository) Exists(ctx context.Context, studentID, surveyID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM survey_responses WHERE student_id = $1 AND survey_id = $2)`,
		studentID, surveyID).Scan(&exists)
	return exists, err
}

// Create inserts a new response. A unique-violation on (student_id,
// survey_id) maps to ErrDuplicateResponse — the loser of a concurrent
// double-submit lands here.
func (r *SurveyResponseRepository) Create(ctx context.Context, resp *model.SurveyResponse) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO survey_responses
		   (survey_id, student_id, name, student_no, class_name, phone,
		    future_plan, employment_type, city_preference, expected_salary, job_market_view,
		    study_type, target_school, study_plan_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, submitted_at, updated_at`,
		resp.SurveyID, resp.StudentID, resp.Name, resp.StudentNo, resp.ClassName, resp.Phone,
		resp.FuturePlan, resp.EmploymentType, resp.CityPreference, resp.ExpectedSalary,
		resp.JobMarketView, resp.StudyType, resp.TargetSchool, resp.StudyPlanStatus,
	).Scan(&resp.ID, &resp.SubmittedAt, &resp.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateResponse
		}
		return err
	}
	return nil
}

// GetByStudentAndSurvey retrieves one student's response for a survey.
func (r *SurveyResponseRepository) GetByStudentAndSurvey(ctx context.Context, studentID, surveyID int) (*model.SurveyResponse, error) {
	return scanResponse(r.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM survey_responses WHERE student_id = $1 AND survey_id = $2`,
		studentID, surveyID))
}

// SubmittedSurveyIDs returns the set of survey IDs the student has responded
// to, used to tag the available-surveys listing.
func (r *SurveyResponseRepository) SubmittedSurveyIDs(ctx context.Context, studentID int) (map[int]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT survey_id FROM survey_responses WHERE student_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submitted := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		submitted[id] = true
	}
	return submitted, rows.Err()
}

// CountBySurveyForTeacher counts responses for one survey whose student
// belongs to a class taught by the given teacher.
func (r *SurveyResponseRepository) CountBySurveyForTeacher(ctx context.Context, surveyID, teacherID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM survey_responses sr
		 JOIN students s ON s.id = sr.student_id
		 JOIN classes c ON c.id = s.class_id
		 WHERE sr.survey_id = $1 AND c.teacher_id = $2`,
		surveyID, teacherID).Scan(&count)
	return count, err
}

// CountBySurvey counts all responses for one survey, regardless of scope.
// Used by the stats worker to refresh the cached completed count.
func (r *SurveyResponseRepository) CountBySurvey(ctx context.Context, surveyID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM survey_responses WHERE survey_id = $1`, surveyID).Scan(&count)
	return count, err
}
