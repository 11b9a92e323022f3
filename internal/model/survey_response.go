package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Future-plan discriminant values.
const (
	FuturePlanEmployment   = 0
	FuturePlanFurtherStudy = 1
)

// Enumeration label tables for the plan-conditional fields. Membership in
// these maps is the authoritative validity check for each integer code.
var (
	FuturePlanLabels = map[int]string{
		FuturePlanEmployment:   "Employment",
		FuturePlanFurtherStudy: "Further study",
	}

	EmploymentTypeLabels = map[int]string{
		0: "Civil service examination",
		1: "Public institution examination",
		2: "Company employment",
		3: "Self-employment",
	}

	CityPreferenceLabels = map[int]string{
		0: "Tier-1 city (Beijing, Shanghai, Guangzhou, Shenzhen)",
		1: "Tier-2 city (Hangzhou, Chengdu, Wuhan)",
		2: "Near the university",
		3: "Hometown",
	}

	SalaryRangeLabels = map[int]string{
		0: "Below 5,000",
		1: "5,000 - 10,000",
		2: "Above 10,000",
	}

	JobMarketViewLabels = map[int]string{
		0: "Optimistic",
		1: "Neutral",
		2: "Difficult",
		3: "Unsure",
	}

	StudyTypeLabels = map[int]string{
		0: "Recommended admission (school accepted)",
		1: "Postgraduate entrance exam (intended school)",
		2: "Overseas institution (intended application)",
	}

	StudyPlanStatusLabels = map[int]string{
		0: "Plan underway",
		1: "Planned, not started",
		2: "No plan yet",
	}
)

// SurveyResponse is a student's single submission for one survey.
// Name, StudentNo, ClassName and Phone are snapshots copied from the student
// at submission time so historical records survive later profile edits.
// The (student, survey) pair is unique; the database constraint is the
// authoritative backstop against concurrent duplicates.
type SurveyResponse struct {
	ID        int    `json:"id"`
	SurveyID  int    `json:"survey_id"`
	StudentID int    `json:"student_id"`
	Name      string `json:"name"`
	StudentNo string `json:"student_no"`
	ClassName string `json:"class_name"`
	Phone     string `json:"phone"`

	FuturePlan int `json:"future_plan"`

	// Employment branch (set iff FuturePlan == FuturePlanEmployment).
	EmploymentType *int `json:"employment_type,omitempty"`
	CityPreference *int `json:"city_preference,omitempty"`
	ExpectedSalary *int `json:"expected_salary,omitempty"`
	JobMarketView  *int `json:"job_market_view,omitempty"`

	// Further-study branch (set iff FuturePlan == FuturePlanFurtherStudy).
	StudyType       *int    `json:"study_type,omitempty"`
	TargetSchool    *string `json:"target_school,omitempty"`
	StudyPlanStatus *int    `json:"study_plan_status,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SurveyResponseView is the serialized response with server-computed display
// labels for every enumerated field.
type SurveyResponseView struct {
	SurveyResponse
	FuturePlanDisplay      string `json:"future_plan_display"`
	EmploymentTypeDisplay  string `json:"employment_type_display,omitempty"`
	CityPreferenceDisplay  string `json:"city_preference_display,omitempty"`
	ExpectedSalaryDisplay  string `json:"expected_salary_display,omitempty"`
	JobMarketViewDisplay   string `json:"job_market_view_display,omitempty"`
	StudyTypeDisplay       string `json:"study_type_display,omitempty"`
	StudyPlanStatusDisplay string `json:"study_plan_status_display,omitempty"`
}

// View builds the serialized form with display labels resolved.
func (r *SurveyResponse) View() SurveyResponseView {
	return SurveyResponseView{
		SurveyResponse:         *r,
		FuturePlanDisplay:      FuturePlanLabels[r.FuturePlan],
		EmploymentTypeDisplay:  labelOf(EmploymentTypeLabels, r.EmploymentType),
		CityPreferenceDisplay:  labelOf(CityPreferenceLabels, r.CityPreference),
		ExpectedSalaryDisplay:  labelOf(SalaryRangeLabels, r.ExpectedSalary),
		JobMarketViewDisplay:   labelOf(JobMarketViewLabels, r.JobMarketView),
		StudyTypeDisplay:       labelOf(StudyTypeLabels, r.StudyType),
		StudyPlanStatusDisplay: labelOf(StudyPlanStatusLabels, r.StudyPlanStatus),
	}
}

func labelOf(labels map[int]string, code *int) string {
	if code == nil {
		return ""
	}
	return labels[*code]
}

// SubmitSurveyRequest is the payload for POST /student/survey/submit.
// The plan-conditional fields are pointers so absence can be told apart from
// a zero code; cross-field rules live in ValidatePlan, not binding tags.
type SubmitSurveyRequest struct {
	SurveyID        int     `json:"survey_id" binding:"required"`
	FuturePlan      *int    `json:"future_plan" binding:"required"`
	EmploymentType  *int    `json:"employment_type"`
	CityPreference  *int    `json:"city_preference"`
	ExpectedSalary  *int    `json:"expected_salary"`
	JobMarketView   *int    `json:"job_market_view"`
	StudyType       *int    `json:"study_type"`
	TargetSchool    *string `json:"target_school"`
	StudyPlanStatus *int    `json:"study_plan_status"`
}

// ErrInvalidFuturePlan is returned when future_plan is outside {0, 1}.
var ErrInvalidFuturePlan = errors.New("future_plan must be 0 (employment) or 1 (further study)")

// PlanFieldError reports the first missing or invalid plan-conditional field,
// in the fixed declaration order of the selected branch.
type PlanFieldError struct {
	Field   string
	Invalid bool // present but outside the accepted enumeration
}

func (e *PlanFieldError) Error() string {
	if e.Invalid {
		return fmt.Sprintf("field %q is not one of the accepted values", e.Field)
	}
	return fmt.Sprintf("field %q is required for the selected plan", e.Field)
}

// ValidatePlan checks the plan-conditional field group selected by
// future_plan. First failure wins; fields of the other branch are ignored.
// Pure — no storage access.
func (r *SubmitSurveyRequest) ValidatePlan() error {
	if r.FuturePlan == nil {
		return ErrInvalidFuturePlan
	}

	switch *r.FuturePlan {
	case FuturePlanEmployment:
		checks := []struct {
			field  string
			value  *int
			labels map[int]string
		}{
			{"employment_type", r.EmploymentType, EmploymentTypeLabels},
			{"city_preference", r.CityPreference, CityPreferenceLabels},
			{"expected_salary", r.ExpectedSalary, SalaryRangeLabels},
			{"job_market_view", r.JobMarketView, JobMarketViewLabels},
		}
		for _, c := range checks {
			if c.value == nil {
				return &PlanFieldError{Field: c.field}
			}
			if _, ok := c.labels[*c.value]; !ok {
				return &PlanFieldError{Field: c.field, Invalid: true}
			}
		}

	case FuturePlanFurtherStudy:
		if r.StudyType == nil {
			return &PlanFieldError{Field: "study_type"}
		}
		if _, ok := StudyTypeLabels[*r.StudyType]; !ok {
			return &PlanFieldError{Field: "study_type", Invalid: true}
		}
		if r.TargetSchool == nil || strings.TrimSpace(*r.TargetSchool) == "" {
			return &PlanFieldError{Field: "target_school"}
		}
		if r.StudyPlanStatus == nil {
			return &PlanFieldError{Field: "study_plan_status"}
		}
		if _, ok := StudyPlanStatusLabels[*r.StudyPlanStatus]; !ok {
			return &PlanFieldError{Field: "study_plan_status", Invalid: true}
		}

	default:
		return ErrInvalidFuturePlan
	}

	return nil
}
