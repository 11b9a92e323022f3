package model

import (
	"errors"
	"testing"
)

func ip(v int) *int       { return &v }
func sp(v string) *string { return &v }

func employmentRequest() SubmitSurveyRequest {
	return SubmitSurveyRequest{
		SurveyID:       1,
		FuturePlan:     ip(FuturePlanEmployment),
		EmploymentType: ip(2),
		CityPreference: ip(0),
		ExpectedSalary: ip(1),
		JobMarketView:  ip(1),
	}
}

func studyRequest() SubmitSurveyRequest {
	return SubmitSurveyRequest{
		SurveyID:        1,
		FuturePlan:      ip(FuturePlanFurtherStudy),
		StudyType:       ip(1),
		TargetSchool:    sp("Zhejiang University"),
		StudyPlanStatus: ip(0),
	}
}

func TestValidatePlanFuturePlan(t *testing.T) {
	req := employmentRequest()
	req.FuturePlan = nil
	if err := req.ValidatePlan(); !errors.Is(err, ErrInvalidFuturePlan) {
		t.Errorf("nil future_plan: got %v, want ErrInvalidFuturePlan", err)
	}

	req = employmentRequest()
	req.FuturePlan = ip(2)
	if err := req.ValidatePlan(); !errors.Is(err, ErrInvalidFuturePlan) {
		t.Errorf("future_plan=2: got %v, want ErrInvalidFuturePlan", err)
	}
}

func TestValidatePlanEmployment(t *testing.T) {
	complete := employmentRequest()
	if err := complete.ValidatePlan(); err != nil {
		t.Fatalf("complete employment request: got %v, want nil", err)
	}

	// Other-branch fields must be ignored when the employment branch is selected.
	req := employmentRequest()
	req.StudyType = ip(99)
	req.TargetSchool = sp("")
	if err := req.ValidatePlan(); err != nil {
		t.Errorf("stale study fields on employment plan: got %v, want nil", err)
	}

	tests := []struct {
		name        string
		mutate      func(*SubmitSurveyRequest)
		wantField   string
		wantInvalid bool
	}{
		{"missing employment_type", func(r *SubmitSurveyRequest) { r.EmploymentType = nil }, "employment_type", false},
		{"missing city_preference", func(r *SubmitSurveyRequest) { r.CityPreference = nil }, "city_preference", false},
		{"missing expected_salary", func(r *SubmitSurveyRequest) { r.ExpectedSalary = nil }, "expected_salary", false},
		{"missing job_market_view", func(r *SubmitSurveyRequest) { r.JobMarketView = nil }, "job_market_view", false},
		{"invalid employment_type", func(r *SubmitSurveyRequest) { r.EmploymentType = ip(4) }, "employment_type", true},
		{"invalid expected_salary", func(r *SubmitSurveyRequest) { r.ExpectedSalary = ip(-1) }, "expected_salary", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := employmentRequest()
			tt.mutate(&req)
			assertPlanFieldError(t, req.ValidatePlan(), tt.wantField, tt.wantInvalid)
		})
	}
}

func TestValidatePlanFurtherStudy(t *testing.T) {
	complete := studyRequest()
	if err := complete.ValidatePlan(); err != nil {
		t.Fatalf("complete further-study request: got %v, want nil", err)
	}

	tests := []struct {
		name        string
		mutate      func(*SubmitSurveyRequest)
		wantField   string
		wantInvalid bool
	}{
		{"missing study_type", func(r *SubmitSurveyRequest) { r.StudyType = nil }, "study_type", false},
		{"invalid study_type", func(r *SubmitSurveyRequest) { r.StudyType = ip(3) }, "study_type", true},
		{"missing target_school", func(r *SubmitSurveyRequest) { r.TargetSchool = nil }, "target_school", false},
		{"blank target_school", func(r *SubmitSurveyRequest) { r.TargetSchool = sp("   ") }, "target_school", false},
		{"missing study_plan_status", func(r *SubmitSurveyRequest) { r.StudyPlanStatus = nil }, "study_plan_status", false},
		{"invalid study_plan_status", func(r *SubmitSurveyRequest) { r.StudyPlanStatus = ip(5) }, "study_plan_status", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := studyRequest()
			tt.mutate(&req)
			assertPlanFieldError(t, req.ValidatePlan(), tt.wantField, tt.wantInvalid)
		})
	}
}

func TestValidatePlanFirstFailureWins(t *testing.T) {
	req := employmentRequest()
	req.EmploymentType = nil
	req.JobMarketView = ip(99)
	assertPlanFieldError(t, req.ValidatePlan(), "employment_type", false)

	req = studyRequest()
	req.StudyType = ip(-1)
	req.TargetSchool = nil
	assertPlanFieldError(t, req.ValidatePlan(), "study_type", true)
}

func assertPlanFieldError(t *testing.T, err error, field string, invalid bool) {
	t.Helper()
	var pfe *PlanFieldError
	if !errors.As(err, &pfe) {
		t.Fatalf("got %v, want *PlanFieldError", err)
	}
	if pfe.Field != field || pfe.Invalid != invalid {
		t.Errorf("got field=%q invalid=%v, want field=%q invalid=%v", pfe.Field, pfe.Invalid, field, invalid)
	}
}

func TestSurveyResponseView(t *testing.T) {
	resp := SurveyResponse{
		ID:             3,
		FuturePlan:     FuturePlanEmployment,
		EmploymentType: ip(2),
		CityPreference: ip(3),
		ExpectedSalary: ip(0),
		JobMarketView:  ip(1),
	}

	v := resp.View()
	if v.FuturePlanDisplay != "Employment" {
		t.Errorf("FuturePlanDisplay = %q", v.FuturePlanDisplay)
	}
	if v.EmploymentTypeDisplay != "Company employment" {
		t.Errorf("EmploymentTypeDisplay = %q", v.EmploymentTypeDisplay)
	}
	if v.CityPreferenceDisplay != "Hometown" {
		t.Errorf("CityPreferenceDisplay = %q", v.CityPreferenceDisplay)
	}
	if v.JobMarketViewDisplay != "Neutral" {
		t.Errorf("JobMarketViewDisplay = %q", v.JobMarketViewDisplay)
	}
	// Unset branch fields stay blank instead of mislabeling.
	if v.StudyTypeDisplay != "" || v.StudyPlanStatusDisplay != "" {
		t.Errorf("study branch labels set on employment response: %q %q", v.StudyTypeDisplay, v.StudyPlanStatusDisplay)
	}
}
