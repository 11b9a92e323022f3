package model

import "time"

// Teacher represents a teacher account. Teachers authenticate by phone
// number and own classes, notices and surveys.
type Teacher struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TeacherLoginRequest is the payload for teacher authentication.
type TeacherLoginRequest struct {
	Phone    string `json:"phone" binding:"required,min=6,max=20"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// TeacherLoginResponse is returned after successful teacher login.
type TeacherLoginResponse struct {
	Token   string  `json:"token"`
	Teacher Teacher `json:"teacher"`
}

// UpdateTeacherProfileRequest is the payload for a teacher updating their
// own profile.
type UpdateTeacherProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=2,max=50"`
	Phone    *string `json:"phone" binding:"omitempty,min=6,max=20"`
}
