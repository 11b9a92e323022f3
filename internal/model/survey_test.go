package model

import (
	"testing"
	"time"
)

func tp(t time.Time) *time.Time { return &t }

func TestSurveyStatusAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		survey Survey
		want   SurveyStatus
	}{
		{
			name:   "inactive wins over open window",
			survey: Survey{IsActive: false, StartTime: tp(past), EndTime: tp(future)},
			want:   SurveyStatusInactive,
		},
		{
			name:   "inactive wins over future window",
			survey: Survey{IsActive: false, StartTime: tp(future)},
			want:   SurveyStatusInactive,
		},
		{
			name:   "no bounds is ongoing",
			survey: Survey{IsActive: true},
			want:   SurveyStatusOngoing,
		},
		{
			name:   "before start",
			survey: Survey{IsActive: true, StartTime: tp(future)},
			want:   SurveyStatusNotStarted,
		},
		{
			name:   "after end",
			survey: Survey{IsActive: true, EndTime: tp(past)},
			want:   SurveyStatusEnded,
		},
		{
			name:   "inside window",
			survey: Survey{IsActive: true, StartTime: tp(past), EndTime: tp(future)},
			want:   SurveyStatusOngoing,
		},
		{
			name:   "start bound is inclusive",
			survey: Survey{IsActive: true, StartTime: tp(now)},
			want:   SurveyStatusOngoing,
		},
		{
			name:   "end bound is inclusive",
			survey: Survey{IsActive: true, EndTime: tp(now)},
			want:   SurveyStatusOngoing,
		},
		{
			name:   "inverted window before start",
			survey: Survey{IsActive: true, StartTime: tp(future), EndTime: tp(past)},
			want:   SurveyStatusNotStarted,
		},
		{
			name:   "inverted window after start",
			survey: Survey{IsActive: true, StartTime: tp(past.Add(-time.Hour)), EndTime: tp(past)},
			want:   SurveyStatusEnded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.survey.StatusAt(now); got != tt.want {
				t.Errorf("StatusAt() = %v, want %v", got, tt.want)
			}

			// CanSubmit must agree with the derived status.
			wantSubmit := tt.want == SurveyStatusOngoing
			if got := tt.survey.CanSubmit(now); got != wantSubmit {
				t.Errorf("CanSubmit() = %v, want %v", got, wantSubmit)
			}
		})
	}
}

func TestSurveyView(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	s := Survey{ID: 7, Title: "Graduation plans", IsActive: true, StartTime: tp(now.Add(time.Hour))}

	v := s.View(now)
	if v.ID != 7 || v.Title != "Graduation plans" {
		t.Errorf("View() lost survey fields: %+v", v)
	}
	if v.Status != SurveyStatusNotStarted {
		t.Errorf("View().Status = %v, want NOT_STARTED", v.Status)
	}
	if v.CanSubmit {
		t.Error("View().CanSubmit = true for a not-started survey")
	}
}
