package service

import (
	"testing"
	"time"

	"github.com/gradsys/gradtrack-backend/internal/model"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed int
		total     int
		want      float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 40, 0},
		{40, 40, 100},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 7, 14.29},
		{13, 17, 76.47},
	}
	for _, tt := range tests {
		if got := completionRate(tt.completed, tt.total); got != tt.want {
			t.Errorf("completionRate(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestBuildStats(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	survey := &model.Survey{ID: 4, Title: "Class of 2026", IsActive: true}

	st := buildStats(survey, now, 40, 25)
	if st.TotalStudents != 40 || st.Completed != 25 || st.Uncompleted != 15 {
		t.Errorf("counts = %d/%d/%d, want 40/25/15", st.TotalStudents, st.Completed, st.Uncompleted)
	}
	if st.CompletionRate != 62.5 {
		t.Errorf("CompletionRate = %v, want 62.5", st.CompletionRate)
	}
	if st.Status != model.SurveyStatusOngoing {
		t.Errorf("Status = %v, want ONGOING", st.Status)
	}
}
