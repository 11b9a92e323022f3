package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrClassHasStudents is returned when deleting a class that still has
// students enrolled.
var ErrClassHasStudents = errors.New("class still has students")

// ClassService owns class groups on behalf of their teacher.
type ClassService struct {
	classRepo *repository.ClassRepository
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository) *ClassService {
	return &ClassService{classRepo: classRepo}
}

// ListByTeacher returns the teacher's classes with student counts.
func (s *ClassService) ListByTeacher(ctx context.Context, teacherID int) ([]model.ClassWithCount, error) {
	return s.classRepo.ListByTeacher(ctx, teacherID)
}

// Create creates a class owned by the teacher.
func (s *ClassService) Create(ctx context.Context, teacherID int, req *model.CreateClassRequest) (*model.Class, error) {
	class := &model.Class{Name: req.Name, TeacherID: teacherID}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// Update renames a class, restricted to its owning teacher.
func (s *ClassService) Update(ctx context.Context, classID, teacherID int, req *model.UpdateClassRequest) (*model.Class, error) {
	class, err := s.getOwned(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}
	class.Name = req.Name
	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// Delete removes a class, restricted to its owning teacher. Enrolled
// students block the delete via the foreign key.
func (s *ClassService) Delete(ctx context.Context, classID, teacherID int) error {
	if _, err := s.getOwned(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.classRepo.Delete(ctx, classID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrClassHasStudents
		}
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

func (s *ClassService) getOwned(ctx context.Context, classID, teacherID int) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class.TeacherID != teacherID {
		return nil, ErrClassNotFound
	}
	return class, nil
}
