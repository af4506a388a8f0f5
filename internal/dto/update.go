package dto

// SaveUpdateRequest records what was taught in one period. The subject
// is resolved server-side from the class timetable; a client-supplied
// subject name is never trusted for authorization.
type SaveUpdateRequest struct {
	ClassID             string `json:"class_id" validate:"required"`
	Date                string `json:"date" validate:"required"`
	PeriodNumber        int    `json:"period_number" validate:"required,min=1,max=8"`
	WhatWasTaught       string `json:"what_was_taught"`
	HasHomework         bool   `json:"has_homework"`
	HomeworkDescription string `json:"homework_description"`
}
