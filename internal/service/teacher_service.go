package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// ErrTeacherNotFound is returned when a teacher id resolves to nothing.
var ErrTeacherNotFound = errors.New("teacher not found")

// TeacherDirectoryEntry is a teacher with their classes, shown on the public
// registration page so students can locate their class.
type TeacherDirectoryEntry struct {
	ID       int           `json:"id"`
	Username string        `json:"username"`
	Classes  []model.Class `json:"classes"`
}

// TeacherService owns teacher accounts and the public teacher directory.
type TeacherService struct {
	teacherRepo *repository.TeacherRepository
	classRepo   *repository.ClassRepository
	auth        *AuthService
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(teacherRepo *repository.TeacherRepository, classRepo *repository.ClassRepository, auth *AuthService) *TeacherService {
	return &TeacherService{teacherRepo: teacherRepo, classRepo: classRepo, auth: auth}
}

// Login authenticates a teacher by phone number.
func (s *TeacherService) Login(ctx context.Context, req *model.TeacherLoginRequest) (*model.TeacherLoginResponse, error) {
	teacher, err := s.teacherRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if err := s.auth.CheckPassword(teacher.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateTeacherToken(teacher.ID)
	if err != nil {
		return nil, err
	}
	return &model.TeacherLoginResponse{Token: token, Teacher: *teacher}, nil
}

// Profile returns the teacher's own account.
func (s *TeacherService) Profile(ctx context.Context, teacherID int) (*model.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	return teacher, nil
}

// UpdateProfile applies the non-nil fields of the request to the teacher's
// own account.
func (s *TeacherService) UpdateProfile(ctx context.Context, teacherID int, req *model.UpdateTeacherProfileRequest) (*model.Teacher, error) {
	teacher, err := s.Profile(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		teacher.Username = *req.Username
	}
	if req.Phone != nil {
		teacher.Phone = *req.Phone
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// ChangePassword verifies the old password before setting the new one.
func (s *TeacherService) ChangePassword(ctx context.Context, teacherID int, req *model.ChangePasswordRequest) error {
	teacher, err := s.Profile(ctx, teacherID)
	if err != nil {
		return err
	}
	if err := s.auth.CheckPassword(teacher.PasswordHash, req.OldPassword); err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.teacherRepo.UpdatePassword(ctx, teacherID, hash)
}

// Directory lists every teacher with their classes. Public, used by the
// registration page.
func (s *TeacherService) Directory(ctx context.Context) ([]TeacherDirectoryEntry, error) {
	teachers, err := s.teacherRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	byTeacher := make(map[int][]model.Class, len(teachers))
	for _, c := range classes {
		byTeacher[c.TeacherID] = append(byTeacher[c.TeacherID], c)
	}

	entries := make([]TeacherDirectoryEntry, 0, len(teachers))
	for _, t := range teachers {
		cs := byTeacher[t.ID]
		if cs == nil {
			cs = []model.Class{}
		}
		entries = append(entries, TeacherDirectoryEntry{ID: t.ID, Username: t.Username, Classes: cs})
	}
	return entries, nil
}
