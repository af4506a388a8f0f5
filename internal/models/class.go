package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PeriodsPerDay is the fixed number of timetable slots per school day.
const PeriodsPerDay = 8

// Weekday is a string-keyed school weekday. Keys are stored verbatim in
// class documents, so the canonical capitalised form is used throughout
// to avoid silent casing mismatches.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// SchoolWeek lists the reporting weekdays in display order.
var SchoolWeek = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// WeekdayOf maps a calendar date to its timetable key.
func WeekdayOf(d Date) Weekday {
	switch d.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// DaySchedule maps period number (1..8) to a subject name. A missing or
// empty entry means no class is scheduled in that slot.
type DaySchedule map[int]string

// Timetable maps weekdays to their period schedule. Weekend keys are
// valid but typically absent. Sparse entries are tolerated everywhere.
type Timetable map[Weekday]DaySchedule

// Value serialises the timetable into a JSONB column.
func (t Timetable) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan reads the timetable back from a JSONB column.
func (t *Timetable) Scan(src interface{}) error {
	return scanJSON(src, t, "timetable")
}

// SubjectAssignment binds a subject to the teacher responsible for it.
// Matching identity is the normalised (subject name, teacher email) pair.
type SubjectAssignment struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TeacherName  string `json:"teacher_name"`
	TeacherEmail string `json:"teacher_email"`
}

// SubjectList is the ordered subject roster of a class.
type SubjectList []SubjectAssignment

// Value serialises the roster into a JSONB column.
func (s SubjectList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan reads the roster back from a JSONB column.
func (s *SubjectList) Scan(src interface{}) error {
	return scanJSON(src, s, "subjects")
}

// ClassRecord is a class document: grade/section identity plus its
// inline subject roster and weekly timetable.
type ClassRecord struct {
	ID               string      `db:"id" json:"id"`
	Grade            string      `db:"grade" json:"grade"`
	Section          string      `db:"section" json:"section"`
	ClassTeacherName string      `db:"class_teacher_name" json:"class_teacher_name"`
	CreatedBy        string      `db:"created_by" json:"created_by"`
	Subjects         SubjectList `db:"subjects" json:"subjects"`
	Timetable        Timetable   `db:"timetable" json:"timetable"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// DisplayName renders the class as shown to users, e.g. "5 - A".
func (c *ClassRecord) DisplayName() string {
	return c.Grade + " - " + c.Section
}

func scanJSON(src, dest interface{}, what string) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported %s source %T", what, src)
	}
}
