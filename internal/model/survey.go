package model

import "time"

// SurveyStatus enumerates the derived temporal states of a survey.
// It is computed from the activation flag and the time window, never stored.
type SurveyStatus string

const (
	SurveyStatusInactive   SurveyStatus = "INACTIVE"
	SurveyStatusNotStarted SurveyStatus = "NOT_STARTED"
	SurveyStatusEnded      SurveyStatus = "ENDED"
	SurveyStatusOngoing    SurveyStatus = "ONGOING"
)

// Survey represents a future-plan questionnaire.
// At most one survey is flagged default at any time; the repository enforces
// this with a clear-then-set transaction backed by a partial unique index.
type Survey struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	IsDefault   bool       `json:"is_default"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StatusAt derives the survey status at the given instant.
// Evaluation order is fixed: the inactive flag short-circuits regardless of
// the time window, then the start bound, then the end bound. Missing bounds
// never block. An inverted window (end before start) is taken as given and
// yields NotStarted or Ended depending on now.
func (s *Survey) StatusAt(now time.Time) SurveyStatus {
	if !s.IsActive {
		return SurveyStatusInactive
	}
	if s.StartTime != nil && now.Before(*s.StartTime) {
		return SurveyStatusNotStarted
	}
	if s.EndTime != nil && now.After(*s.EndTime) {
		return SurveyStatusEnded
	}
	return SurveyStatusOngoing
}

// CanSubmit reports whether the survey accepts responses at the given
// instant. Restated with the same evaluation order as StatusAt rather than
// derived from the status value.
func (s *Survey) CanSubmit(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.StartTime != nil && now.Before(*s.StartTime) {
		return false
	}
	if s.EndTime != nil && now.After(*s.EndTime) {
		return false
	}
	return true
}

// SurveyView is the serialized form of a survey with its derived fields.
type SurveyView struct {
	Survey
	Status    SurveyStatus `json:"status"`
	CanSubmit bool         `json:"can_submit"`
}

// View builds the serialized form of the survey at the given instant.
func (s *Survey) View(now time.Time) SurveyView {
	return SurveyView{
		Survey:    *s,
		Status:    s.StatusAt(now),
		CanSubmit: s.CanSubmit(now),
	}
}

// AvailableSurvey is the per-student summary row returned by GET /student/survey.
type AvailableSurvey struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	IsDefault    bool         `json:"is_default"`
	Status       SurveyStatus `json:"status"`
	HasSubmitted bool         `json:"has_submitted"`
}

// CreateSurveyRequest is the payload for creating a new survey.
type CreateSurveyRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool      `json:"is_active" binding:"omitempty"`
	IsDefault   *bool      `json:"is_default" binding:"omitempty"`
	StartTime   *time.Time `json:"start_time" binding:"omitempty"`
	EndTime     *time.Time `json:"end_time" binding:"omitempty"`
}

// UpdateSurveyRequest is the payload for updating an existing survey.
// Pointer fields distinguish "leave unchanged" from explicit values; the
// clear flags reset a bound to unbounded, since an absent pointer already
// means "keep". A clear flag is ignored when a new value for the same bound
// is supplied.
type UpdateSurveyRequest struct {
	Title          *string    `json:"title" binding:"omitempty,min=1,max=100"`
	Description    *string    `json:"description" binding:"omitempty,max=2000"`
	IsActive       *bool      `json:"is_active" binding:"omitempty"`
	IsDefault      *bool      `json:"is_default" binding:"omitempty"`
	StartTime      *time.Time `json:"start_time" binding:"omitempty"`
	EndTime        *time.Time `json:"end_time" binding:"omitempty"`
	ClearStartTime bool       `json:"clear_start_time"`
	ClearEndTime   bool       `json:"clear_end_time"`
}
