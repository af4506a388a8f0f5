package models

import "time"

// UpdateRecord is a daily-update document: what was taught in one period
// of one class on one date. At most one record exists per
// (class_id, date, period_number) slot; that slot is the reconciliation
// target when deciding whether a timetable period has been reported on.
type UpdateRecord struct {
	ID                  string    `db:"id" json:"id"`
	ClassID             string    `db:"class_id" json:"class_id"`
	ClassName           string    `db:"class_name" json:"class_name"`
	PeriodNumber        int       `db:"period_number" json:"period_number"`
	SubjectName         string    `db:"subject_name" json:"subject_name"`
	TeacherID           string    `db:"teacher_id" json:"teacher_id"`
	TeacherName         string    `db:"teacher_name" json:"teacher_name"`
	Date                Date      `db:"date" json:"date"`
	WhatWasTaught       string    `db:"what_was_taught" json:"what_was_taught"`
	HasHomework         bool      `db:"has_homework" json:"has_homework"`
	HomeworkDescription string    `db:"homework_description" json:"homework_description"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
