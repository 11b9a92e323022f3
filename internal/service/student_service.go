package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Profile rule errors.
var (
	ErrClassNotFound       = errors.New("class not found")
	ErrStudyFieldsRequired = errors.New("study_school and study_major are required when status is further study")
)

// StudentProfile is the student's own profile page: the account joined with
// its class, teacher and unread-notice context.
type StudentProfile struct {
	model.Student
	ClassName       string `json:"class_name"`
	TeacherName     string `json:"teacher_name"`
	StatusDisplay   string `json:"status_display,omitempty"`
	ProvinceDisplay string `json:"province_display,omitempty"`
	ProvinceKind    string `json:"province_kind"`
	UnreadNotices   int    `json:"unread_notices"`
}

// StudentService owns student accounts: registration, login, the profile
// page, and teacher-side roster management.
type StudentService struct {
	studentRepo *repository.StudentRepository
	classRepo   *repository.ClassRepository
	teacherRepo *repository.TeacherRepository
	noticeRepo  *repository.NoticeRepository
	auth        *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(
	studentRepo *repository.StudentRepository,
	classRepo *repository.ClassRepository,
	teacherRepo *repository.TeacherRepository,
	noticeRepo *repository.NoticeRepository,
	auth *AuthService,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		classRepo:   classRepo,
		teacherRepo: teacherRepo,
		noticeRepo:  noticeRepo,
		auth:        auth,
	}
}

// Register creates a student account in an existing class.
func (s *StudentService) Register(ctx context.Context, req *model.StudentRegisterRequest) (*model.Student, error) {
	if _, err := s.classRepo.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		StudentNo:    req.StudentNo,
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: hash,
		ClassID:      req.ClassID,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Login authenticates a student by student number and opens their single
// session.
func (s *StudentService) Login(ctx context.Context, req *model.StudentLoginRequest) (*model.StudentLoginResponse, error) {
	student, err := s.studentRepo.GetByStudentNo(ctx, req.StudentNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	if err := s.auth.CheckPassword(student.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateStudentToken(ctx, student.ID, student.ClassID)
	if err != nil {
		return nil, err
	}
	return &model.StudentLoginResponse{Token: token, Student: *student}, nil
}

// Logout drops the student's session so another device can log in.
func (s *StudentService) Logout(ctx context.Context, studentID int) error {
	return s.auth.ResetStudentSession(ctx, studentID)
}

// Profile assembles the student's profile page.
func (s *StudentService) Profile(ctx context.Context, studentID int) (*StudentProfile, error) {
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
	teacher, err := s.teacherRepo.GetByID(ctx, class.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	unread, err := s.noticeRepo.UnreadCountForStudent(ctx, class.TeacherID, studentID)
	if err != nil {
		return nil, fmt.Errorf("count unread notices: %w", err)
	}

	return &StudentProfile{
		Student:         *student,
		ClassName:       class.Name,
		TeacherName:     teacher.Username,
		StatusDisplay:   student.StatusDisplay(),
		ProvinceDisplay: student.ProvinceDisplay(),
		ProvinceKind:    student.ProvinceKind(),
		UnreadNotices:   unread,
	}, nil
}

// UpdateProfile applies the non-nil fields of the request to the student's
// own profile. Declaring employment clears the study fields; declaring
// further study requires both of them.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID int, req *model.UpdateStudentProfileRequest) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}

	if req.Username != nil {
		student.Username = *req.Username
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.Status != nil {
		student.Status = req.Status
	}
	if req.Province != nil {
		student.Province = req.Province
	}
	if req.StudySchool != nil {
		student.StudySchool = req.StudySchool
	}
	if req.StudyMajor != nil {
		student.StudyMajor = req.StudyMajor
	}

	if student.Status != nil {
		switch *student.Status {
		case model.StudentStatusEmployment:
			student.StudySchool = nil
			student.StudyMajor = nil
		case model.StudentStatusFurtherStudy:
			if emptyStr(student.StudySchool) || emptyStr(student.StudyMajor) {
				return nil, ErrStudyFieldsRequired
			}
		}
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func emptyStr(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// ChangePassword verifies the old password before setting the new one.
func (s *StudentService) ChangePassword(ctx context.Context, studentID int, req *model.ChangePasswordRequest) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("get student: %w", err)
	}
	if err := s.auth.CheckPassword(student.PasswordHash, req.OldPassword); err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.studentRepo.UpdatePassword(ctx, studentID, hash)
}

// Classmates lists the other students of the same class.
func (s *StudentService) Classmates(ctx context.Context, classID int, search string, limit, offset int) ([]model.Student, int, error) {
	return s.studentRepo.ListClassmates(ctx, classID, search, limit, offset)
}

// ListForTeacher pages through the students of the teacher's classes with
// optional class, status and name/number filters.
func (s *StudentService) ListForTeacher(ctx context.Context, teacherID int, classID, status *int, search string, limit, offset int) ([]model.Student, int, error) {
	return s.studentRepo.ListByTeacherPaginated(ctx, teacherID, classID, status, search, limit, offset)
}

// GetForTeacher returns one student, restricted to the teacher's classes.
func (s *StudentService) GetForTeacher(ctx context.Context, studentID, teacherID int) (*model.Student, error) {
	student, err := s.studentRepo.GetByIDForTeacher(ctx, studentID, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}

// CreateForTeacher creates a student in one of the teacher's own classes.
func (s *StudentService) CreateForTeacher(ctx context.Context, teacherID int, req *model.CreateStudentRequest) (*model.Student, error) {
	owned, err := s.classRepo.BelongsToTeacher(ctx, req.ClassID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("check class: %w", err)
	}
	if !owned {
		return nil, ErrClassNotFound
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	student := &model.Student{
		StudentNo:    req.StudentNo,
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: hash,
		ClassID:      req.ClassID,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// UpdateForTeacher applies the non-nil fields of the request to a student in
// the teacher's classes. Moving the student still targets the teacher's own
// classes only.
func (s *StudentService) UpdateForTeacher(ctx context.Context, studentID, teacherID int, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.GetForTeacher(ctx, studentID, teacherID)
	if err != nil {
		return nil, err
	}

	if req.StudentNo != nil {
		student.StudentNo = *req.StudentNo
	}
	if req.Username != nil {
		student.Username = *req.Username
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.ClassID != nil {
		owned, err := s.classRepo.BelongsToTeacher(ctx, *req.ClassID, teacherID)
		if err != nil {
			return nil, fmt.Errorf("check class: %w", err)
		}
		if !owned {
			return nil, ErrClassNotFound
		}
		student.ClassID = *req.ClassID
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := s.auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.studentRepo.UpdatePassword(ctx, student.ID, hash); err != nil {
			return nil, err
		}
	}
	return student, nil
}

// DeleteForTeacher removes a student from the teacher's classes and drops
// any live session.
func (s *StudentService) DeleteForTeacher(ctx context.Context, studentID, teacherID int) error {
	if _, err := s.GetForTeacher(ctx, studentID, teacherID); err != nil {
		return err
	}
	if err := s.studentRepo.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return s.auth.ResetStudentSession(ctx, studentID)
}

// ResetSession clears a student's login session on the teacher's behalf.
func (s *StudentService) ResetSession(ctx context.Context, studentID, teacherID int) error {
	if _, err := s.GetForTeacher(ctx, studentID, teacherID); err != nil {
		return err
	}
	return s.auth.ResetStudentSession(ctx, studentID)
}
