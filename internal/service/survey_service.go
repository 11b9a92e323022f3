package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gradsys/gradtrack-backend/internal/config"
	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Survey lookup and submission errors.
var (
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrNoSurveyAvailable = errors.New("no survey is currently available")
	ErrStudentNotFound   = errors.New("student not found")
)

// SurveyClosedError is returned when a submission targets a survey that is
// not accepting responses; Status carries the derived state for the message.
type SurveyClosedError struct {
	Status model.SurveyStatus
}

func (e *SurveyClosedError) Error() string {
	return fmt.Sprintf("survey is not accepting responses (status %s)", e.Status)
}

// StudentSurveyOverview is what a student sees on the survey page: the
// selected survey in full plus a summary of every open survey.
type StudentSurveyOverview struct {
	Survey       model.SurveyView        `json:"survey"`
	HasSubmitted bool                    `json:"has_submitted"`
	Available    []model.AvailableSurvey `json:"available_surveys"`
}

// SurveyStats is the per-survey completion summary scoped to one teacher's
// students.
type SurveyStats struct {
	model.SurveyView
	TotalStudents  int     `json:"total_students"`
	Completed      int     `json:"completed"`
	Uncompleted    int     `json:"uncompleted"`
	CompletionRate float64 `json:"completion_rate"`
}

// SubmissionEvent is the queue message pushed on each accepted submission
// and consumed by the stats worker.
type SubmissionEvent struct {
	SurveyID    int       `json:"survey_id"`
	StudentID   int       `json:"student_id"`
	StudentNo   string    `json:"student_no"`
	Username    string    `json:"username"`
	ClassName   string    `json:"class_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SurveyService owns the survey lifecycle: selection, submission, admin
// CRUD, and completion statistics.
type SurveyService struct {
	surveyRepo   *repository.SurveyRepository
	responseRepo *repository.SurveyResponseRepository
	studentRepo  *repository.StudentRepository
	classRepo    *repository.ClassRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewSurveyService creates a new SurveyService.
func NewSurveyService(
	surveyRepo *repository.SurveyRepository,
	responseRepo *repository.SurveyResponseRepository,
	studentRepo *repository.StudentRepository,
	classRepo *repository.ClassRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SurveyService {
	return &SurveyService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		studentRepo:  studentRepo,
		classRepo:    classRepo,
		rdb:          rdb,
		log:          log.With().Str("service", "survey").Logger(),
	}
}

// StudentSurveys resolves the survey a student should be shown. An explicit
// id wins; otherwise the default-flagged survey; otherwise the newest open
// one. ErrSurveyNotFound is only possible with an explicit id,
// ErrNoSurveyAvailable only without one.
func (s *SurveyService) StudentSurveys(ctx context.Context, studentID int, explicitID *int) (*StudentSurveyOverview, error) {
	now := time.Now()

	active, err := s.surveyRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active surveys: %w", err)
	}

	submitted, err := s.responseRepo.SubmittedSurveyIDs(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list submitted surveys: %w", err)
	}

	var selected *model.Survey
	if explicitID != nil {
		for i := range active {
			if active[i].ID == *explicitID {
				selected = &active[i]
				break
			}
		}
		if selected == nil {
			return nil, ErrSurveyNotFound
		}
	} else {
		for i := range active {
			if active[i].IsDefault {
				selected = &active[i]
				break
			}
		}
		if selected == nil && len(active) > 0 {
			// ListActive orders newest first.
			selected = &active[0]
		}
		if selected == nil {
			return nil, ErrNoSurveyAvailable
		}
	}

	available := make([]model.AvailableSurvey, 0, len(active))
	for i := range active {
		sv := &active[i]
		available = append(available, model.AvailableSurvey{
			ID:           sv.ID,
			Title:        sv.Title,
			IsDefault:    sv.IsDefault,
			Status:       sv.StatusAt(now),
			HasSubmitted: submitted[sv.ID],
		})
	}

	return &StudentSurveyOverview{
		Survey:       selected.View(now),
		HasSubmitted: submitted[selected.ID],
		Available:    available,
	}, nil
}

// Submit records a student's response to a survey. The window check, the
// plan-conditional validation and the duplicate pre-check all run before the
// insert; the unique constraint on (student, survey) remains the final word
// under concurrency.
func (s *SurveyService) Submit(ctx context.Context, studentID int, req *model.SubmitSurveyRequest) (*model.SurveyResponse, error) {
	now := time.Now()

	// A missing or deactivated survey is not found; the closed-survey error
	// covers only the time window (not started yet, already ended).
	survey, err := s.surveyRepo.GetActiveByID(ctx, req.SurveyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("get survey: %w", err)
	}
	if !survey.CanSubmit(now) {
		return nil, &SurveyClosedError{Status: survey.StatusAt(now)}
	}

	if err := req.ValidatePlan(); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	class, err := s.classRepo.GetByID(ctx, student.ClassID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}

	// Friendly-path duplicate check; the insert below still races safely.
	exists, err := s.responseRepo.Exists(ctx, studentID, survey.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing response: %w", err)
	}
	if exists {
		return nil, repository.ErrDuplicateResponse
	}

	resp := &model.SurveyResponse{
		SurveyID:   survey.ID,
		StudentID:  student.ID,
		Name:       student.Username,
		StudentNo:  student.StudentNo,
		ClassName:  class.Name,
		Phone:      student.Phone,
		FuturePlan: *req.FuturePlan,
	}
	switch *req.FuturePlan {
	case model.FuturePlanEmployment:
		resp.EmploymentType = req.EmploymentType
		resp.CityPreference = req.CityPreference
		resp.ExpectedSalary = req.ExpectedSalary
		resp.JobMarketView = req.JobMarketView
	case model.FuturePlanFurtherStudy:
		resp.StudyType = req.StudyType
		resp.TargetSchool = req.TargetSchool
		resp.StudyPlanStatus = req.StudyPlanStatus
	}

	if err := s.responseRepo.Create(ctx, resp); err != nil {
		return nil, err
	}

	s.enqueueSubmissionEvent(ctx, resp)

	return resp, nil
}

// enqueueSubmissionEvent pushes the accepted submission onto the worker
// queue. Failures are logged and swallowed; the response is already
// committed and the worker recounts from the database anyway.
func (s *SurveyService) enqueueSubmissionEvent(ctx context.Context, resp *model.SurveyResponse) {
	event := SubmissionEvent{
		SurveyID:    resp.SurveyID,
		StudentID:   resp.StudentID,
		StudentNo:   resp.StudentNo,
		Username:    resp.Name,
		ClassName:   resp.ClassName,
		SubmittedAt: resp.SubmittedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal submission event")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.SubmissionEventsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Int("survey_id", resp.SurveyID).Msg("enqueue submission event")
	}
}

// MyResponse returns the student's own submission for a survey, nil when
// none exists.
func (s *SurveyService) MyResponse(ctx context.Context, studentID, surveyID int) (*model.SurveyResponse, error) {
	resp, err := s.responseRepo.GetByStudentAndSurvey(ctx, studentID, surveyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get response: %w", err)
	}
	return resp, nil
}

// GetSurvey returns one survey by id.
func (s *SurveyService) GetSurvey(ctx context.Context, id int) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return survey, nil
}

// CreateSurvey creates a survey from the request payload. Activation
// defaults to true when omitted.
func (s *SurveyService) CreateSurvey(ctx context.Context, req *model.CreateSurveyRequest) (*model.Survey, error) {
	survey := &model.Survey{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		survey.IsDefault = *req.IsDefault
	}

	if err := s.surveyRepo.Create(ctx, survey); err != nil {
		return nil, fmt.Errorf("create survey: %w", err)
	}
	return survey, nil
}

// UpdateSurvey applies the non-nil fields of the request to an existing
// survey. Flagging it default demotes any previous default in the same
// transaction inside the repository.
func (s *SurveyService) UpdateSurvey(ctx context.Context, id int, req *model.UpdateSurveyRequest) (*model.Survey, error) {
	survey, err := s.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		survey.IsDefault = *req.IsDefault
	}
	switch {
	case req.StartTime != nil:
		survey.StartTime = req.StartTime
	case req.ClearStartTime:
		survey.StartTime = nil
	}
	switch {
	case req.EndTime != nil:
		survey.EndTime = req.EndTime
	case req.ClearEndTime:
		survey.EndTime = nil
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, fmt.Errorf("update survey: %w", err)
	}
	return survey, nil
}

// DeleteSurvey removes a survey and its responses (cascade), then drops the
// cached completed count.
func (s *SurveyService) DeleteSurvey(ctx context.Context, id int) error {
	if _, err := s.GetSurvey(ctx, id); err != nil {
		return err
	}
	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.SurveyCompletedCountKey(id)).Err(); err != nil {
		s.log.Warn().Err(err).Int("survey_id", id).Msg("drop cached completed count")
	}
	return nil
}

// ListStats returns a page of surveys with completion statistics scoped to
// the teacher's students.
func (s *SurveyService) ListStats(ctx context.Context, teacherID, limit, offset int) ([]SurveyStats, int, error) {
	surveys, total, err := s.surveyRepo.ListPaginated(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list surveys: %w", err)
	}

	totalStudents, err := s.studentRepo.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	now := time.Now()
	stats := make([]SurveyStats, 0, len(surveys))
	for i := range surveys {
		completed, err := s.responseRepo.CountBySurveyForTeacher(ctx, surveys[i].ID, teacherID)
		if err != nil {
			return nil, 0, fmt.Errorf("count responses: %w", err)
		}
		stats = append(stats, buildStats(&surveys[i], now, totalStudents, completed))
	}
	return stats, total, nil
}

// Stats returns the completion statistics of one survey scoped to the
// teacher's students.
func (s *SurveyService) Stats(ctx context.Context, teacherID, surveyID int) (*SurveyStats, error) {
	survey, err := s.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	totalStudents, err := s.studentRepo.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	completed, err := s.responseRepo.CountBySurveyForTeacher(ctx, surveyID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}

	st := buildStats(survey, time.Now(), totalStudents, completed)
	return &st, nil
}

func buildStats(survey *model.Survey, now time.Time, totalStudents, completed int) SurveyStats {
	return SurveyStats{
		SurveyView:     survey.View(now),
		TotalStudents:  totalStudents,
		Completed:      completed,
		Uncompleted:    totalStudents - completed,
		CompletionRate: completionRate(completed, totalStudents),
	}
}

// completionRate returns completed/total as a percentage rounded to two
// decimals, 0 when there are no students.
func completionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}

// StudentsByCompletion lists the teacher's students that have (or have not)
// submitted a response to the survey.
func (s *SurveyService) StudentsByCompletion(ctx context.Context, teacherID, surveyID int, completed bool, limit, offset int) ([]model.StudentBrief, int, error) {
	if _, err := s.GetSurvey(ctx, surveyID); err != nil {
		return nil, 0, err
	}
	return s.studentRepo.ListBySurveyCompletion(ctx, surveyID, teacherID, completed, limit, offset)
}

// StudentResponseForTeacher returns one student's submission for a survey,
// restricted to students in the teacher's classes. A nil response with no
// error means the student has not submitted.
func (s *SurveyService) StudentResponseForTeacher(ctx context.Context, teacherID, surveyID int, studentNo string) (*model.SurveyResponse, error) {
	student, err := s.studentRepo.GetByStudentNoForTeacher(ctx, studentNo, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s.MyResponse(ctx, student.ID, surveyID)
}
