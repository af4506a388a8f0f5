package dto

import "github.com/sreyaslbs/todayinclass/internal/models"

// SubjectPayload is one roster entry in a class save request.
type SubjectPayload struct {
	Name         string `json:"name" validate:"required"`
	TeacherName  string `json:"teacher_name" validate:"required"`
	TeacherEmail string `json:"teacher_email" validate:"required,email"`
}

// SaveClassRequest creates or updates a class definition. Creation
// requires at least one subject; existing classes with an emptied roster
// are still tolerated at read time.
type SaveClassRequest struct {
	Grade            string           `json:"grade" validate:"required"`
	Section          string           `json:"section" validate:"required"`
	ClassTeacherName string           `json:"class_teacher_name"`
	Subjects         []SubjectPayload `json:"subjects" validate:"required,min=1,dive"`
	Timetable        models.Timetable `json:"timetable"`
}
