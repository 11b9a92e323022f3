package model

import "time"

// Graduate-status values on a student profile.
const (
	StudentStatusEmployment   = 0
	StudentStatusFurtherStudy = 1
)

// StudentStatusLabels maps a student's declared graduate status to its
// display name.
var StudentStatusLabels = map[int]string{
	StudentStatusEmployment:   "Employment",
	StudentStatusFurtherStudy: "Further study",
}

// ProvinceLabels maps the intended-region code on a student profile to its
// display name.
var ProvinceLabels = map[int]string{
	0: "Beijing", 1: "Tianjin", 2: "Hebei", 3: "Shanxi", 4: "Inner Mongolia",
	5: "Liaoning", 6: "Jilin", 7: "Heilongjiang", 8: "Shanghai", 9: "Jiangsu",
	10: "Zhejiang", 11: "Anhui", 12: "Fujian", 13: "Jiangxi", 14: "Shandong",
	15: "Henan", 16: "Hubei", 17: "Hunan", 18: "Guangdong", 19: "Guangxi",
	20: "Hainan", 21: "Chongqing", 22: "Sichuan", 23: "Guizhou", 24: "Yunnan",
	25: "Tibet", 26: "Shaanxi", 27: "Gansu", 28: "Qinghai", 29: "Ningxia",
	30: "Xinjiang", 31: "Taiwan", 32: "Hong Kong", 33: "Macau",
}

// Student represents a student account. Status, Province and the study
// fields are the self-reported graduate plan on the profile, distinct from
// survey responses which snapshot data at submission time.
type Student struct {
	ID           int       `json:"id"`
	StudentNo    string    `json:"student_no"`
	Username     string    `json:"username"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	ClassID      int       `json:"class_id"`
	Status       *int      `json:"status,omitempty"`
	Province     *int      `json:"province,omitempty"`
	StudySchool  *string   `json:"study_school,omitempty"`
	StudyMajor   *string   `json:"study_major,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StatusDisplay returns the display name of the student's graduate status,
// empty when unset.
func (s *Student) StatusDisplay() string {
	if s.Status == nil {
		return ""
	}
	return StudentStatusLabels[*s.Status]
}

// ProvinceDisplay returns the display name of the intended region, empty
// when unset.
func (s *Student) ProvinceDisplay() string {
	if s.Province == nil {
		return ""
	}
	return ProvinceLabels[*s.Province]
}

// ProvinceKind describes how the region field should be captioned: as an
// employment region for employment-bound students, a study region otherwise.
func (s *Student) ProvinceKind() string {
	if s.Status != nil && *s.Status == StudentStatusEmployment {
		return "employment_region"
	}
	return "study_region"
}

// StudentRegisterRequest is the payload for student self-registration.
type StudentRegisterRequest struct {
	StudentNo       string `json:"student_no" binding:"required,min=4,max=50"`
	Username        string `json:"username" binding:"required,min=2,max=50"`
	Phone           string `json:"phone" binding:"required,min=6,max=20"`
	Password        string `json:"password" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	ClassID         int    `json:"class_id" binding:"required"`
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	StudentNo string `json:"student_no" binding:"required,min=4,max=50"`
	Password  string `json:"password" binding:"required,min=4,max=128"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}

// UpdateStudentProfileRequest is the payload for a student updating their own
// profile. The graduate-plan cross-field rule (employment forbids study
// fields, further study requires them) is enforced in the service.
type UpdateStudentProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=2,max=50"`
	Phone       *string `json:"phone" binding:"omitempty,min=6,max=20"`
	Status      *int    `json:"status" binding:"omitempty,oneof=0 1"`
	Province    *int    `json:"province" binding:"omitempty,min=0,max=33"`
	StudySchool *string `json:"study_school" binding:"omitempty,max=100"`
	StudyMajor  *string `json:"study_major" binding:"omitempty,max=100"`
}

// CreateStudentRequest is the payload for a teacher creating a student.
type CreateStudentRequest struct {
	StudentNo string `json:"student_no" binding:"required,min=4,max=50"`
	Username  string `json:"username" binding:"required,min=2,max=50"`
	Phone     string `json:"phone" binding:"required,min=6,max=20"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	ClassID   int    `json:"class_id" binding:"required"`
}

// UpdateStudentRequest is the payload for a teacher updating a student.
type UpdateStudentRequest struct {
	StudentNo *string `json:"student_no" binding:"omitempty,min=4,max=50"`
	Username  *string `json:"username" binding:"omitempty,min=2,max=50"`
	Phone     *string `json:"phone" binding:"omitempty,min=6,max=20"`
	Password  *string `json:"password" binding:"omitempty,min=6,max=128"`
	ClassID   *int    `json:"class_id" binding:"omitempty"`
}

// ChangePasswordRequest is shared by the student and teacher password
// endpoints.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required,min=4,max=128"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}

// StudentBrief is the compact student identity used in listings (classmates,
// survey completion lists, notice read lists).
type StudentBrief struct {
	ID          int        `json:"id"`
	StudentNo   string     `json:"student_no"`
	Username    string     `json:"username"`
	ClassName   string     `json:"class_name"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}
