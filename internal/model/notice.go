package model

import "time"

// Notice is an announcement published by a teacher to the students of their
// classes. Per-student read state lives in the notice_reads relation.
type Notice struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	TeacherID int       `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NoticeForStudent is a notice annotated with the requesting student's read
// state.
type NoticeForStudent struct {
	Notice
	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

// CreateNoticeRequest is the payload for publishing a notice.
type CreateNoticeRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

// UpdateNoticeRequest is the payload for editing a notice.
type UpdateNoticeRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

// MarkNoticesReadRequest carries the notice IDs for a batch read-mark. A
// single-notice mark uses the path parameter form instead.
type MarkNoticesReadRequest struct {
	NoticeIDs []int `json:"notice_ids" binding:"required,min=1"`
}

// NoticeReader is a student identity in a notice's read/unread listing.
type NoticeReader struct {
	ID        int        `json:"id"`
	StudentNo string     `json:"student_no"`
	Username  string     `json:"username"`
	ClassName string     `json:"class_name"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
