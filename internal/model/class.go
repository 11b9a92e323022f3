package model

import "time"

// Class represents a class group owned by one teacher.
type Class struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	TeacherID int       `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ClassWithCount is a class annotated with its student population.
type ClassWithCount struct {
	Class
	StudentCount int `json:"student_count"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// UpdateClassRequest is the payload for renaming a class.
type UpdateClassRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}
