package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// ErrNoticeNotFound is returned when a notice id resolves to nothing within
// the caller's scope.
var ErrNoticeNotFound = errors.New("notice not found")

// NoticeService owns teacher announcements and per-student read state.
// Students only ever see the notices of their own class's teacher.
type NoticeService struct {
	noticeRepo *repository.NoticeRepository
	classRepo  *repository.ClassRepository
}

// NewNoticeService creates a new NoticeService.
func NewNoticeService(noticeRepo *repository.NoticeRepository, classRepo *repository.ClassRepository) *NoticeService {
	return &NoticeService{noticeRepo: noticeRepo, classRepo: classRepo}
}

// teacherOf resolves the teacher owning the student's class.
func (s *NoticeService) teacherOf(ctx context.Context, classID int) (int, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrClassNotFound
		}
		return 0, fmt.Errorf("get class: %w", err)
	}
	return class.TeacherID, nil
}

// ListForStudent pages through the student's notices with optional read
// filter, newest first.
func (s *NoticeService) ListForStudent(ctx context.Context, studentID, classID int, isRead *bool, limit, offset int) ([]model.NoticeForStudent, int, error) {
	teacherID, err := s.teacherOf(ctx, classID)
	if err != nil {
		return nil, 0, err
	}
	return s.noticeRepo.ListForStudent(ctx, teacherID, studentID, isRead, limit, offset)
}

// UnreadCount returns how many of the student's notices are unread.
func (s *NoticeService) UnreadCount(ctx context.Context, studentID, classID int) (int, error) {
	teacherID, err := s.teacherOf(ctx, classID)
	if err != nil {
		return 0, err
	}
	return s.noticeRepo.UnreadCountForStudent(ctx, teacherID, studentID)
}

// MarkRead marks the given notices read for the student. IDs outside the
// student's scope are silently skipped; the count of newly marked notices is
// returned.
func (s *NoticeService) MarkRead(ctx context.Context, studentID, classID int, noticeIDs []int) (int, error) {
	teacherID, err := s.teacherOf(ctx, classID)
	if err != nil {
		return 0, err
	}
	return s.noticeRepo.MarkRead(ctx, studentID, teacherID, noticeIDs)
}

// ListForTeacher pages through the teacher's own notices, newest first.
func (s *NoticeService) ListForTeacher(ctx context.Context, teacherID, limit, offset int) ([]model.Notice, int, error) {
	return s.noticeRepo.ListByTeacherPaginated(ctx, teacherID, limit, offset)
}

// GetForTeacher returns one of the teacher's notices.
func (s *NoticeService) GetForTeacher(ctx context.Context, noticeID, teacherID int) (*model.Notice, error) {
	notice, err := s.noticeRepo.GetByIDForTeacher(ctx, noticeID, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoticeNotFound
		}
		return nil, fmt.Errorf("get notice: %w", err)
	}
	return notice, nil
}

// Create publishes a notice to the teacher's students.
func (s *NoticeService) Create(ctx context.Context, teacherID int, req *model.CreateNoticeRequest) (*model.Notice, error) {
	notice := &model.Notice{Title: req.Title, Content: req.Content, TeacherID: teacherID}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	return notice, nil
}

// Update applies the non-nil fields of the request to one of the teacher's
// notices.
func (s *NoticeService) Update(ctx context.Context, noticeID, teacherID int, req *model.UpdateNoticeRequest) (*model.Notice, error) {
	notice, err := s.GetForTeacher(ctx, noticeID, teacherID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		notice.Title = *req.Title
	}
	if req.Content != nil {
		notice.Content = *req.Content
	}
	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, fmt.Errorf("update notice: %w", err)
	}
	return notice, nil
}

// Delete removes one of the teacher's notices along with its read marks.
func (s *NoticeService) Delete(ctx context.Context, noticeID, teacherID int) error {
	if _, err := s.GetForTeacher(ctx, noticeID, teacherID); err != nil {
		return err
	}
	if err := s.noticeRepo.Delete(ctx, noticeID); err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}

// Readers pages through the students that have read, or not yet read, one of
// the teacher's notices.
func (s *NoticeService) Readers(ctx context.Context, noticeID, teacherID int, wantRead bool, limit, offset int) ([]model.NoticeReader, int, error) {
	if _, err := s.GetForTeacher(ctx, noticeID, teacherID); err != nil {
		return nil, 0, err
	}
	return s.noticeRepo.ListReadersByState(ctx, noticeID, teacherID, wantRead, limit, offset)
}
