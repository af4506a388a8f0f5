package dto

import "github.com/sreyaslbs/todayinclass/internal/models"

// ReportMode selects between the single-day view and the Monday-Friday
// week view.
type ReportMode string

const (
	ReportModeDay  ReportMode = "day"
	ReportModeWeek ReportMode = "week"
)

// Valid reports whether the mode is known.
func (m ReportMode) Valid() bool {
	return m == ReportModeDay || m == ReportModeWeek
}

// CellStatus tags how a report slot reconciled against the timetable and
// the update registry. NotApplicable (no timetable entry) is distinct
// from NoUpdate (scheduled subject with nothing reported yet), and
// Unscheduled marks an update posted for a slot the timetable no longer
// covers, which happens when the timetable is edited after the fact.
type CellStatus string

const (
	CellReported      CellStatus = "reported"
	CellNoUpdate      CellStatus = "no_update"
	CellNotApplicable CellStatus = "not_applicable"
	CellUnscheduled   CellStatus = "unscheduled"
)

// DayReportRow pairs one period slot with the matching update, if any.
type DayReportRow struct {
	PeriodNumber     int                  `json:"period_number"`
	TimetableSubject string               `json:"timetable_subject"`
	Status           CellStatus           `json:"status"`
	Update           *models.UpdateRecord `json:"update,omitempty"`
}

// DayReport is the fixed-shape single-day report: always exactly
// PeriodsPerDay rows, timetable gaps included.
type DayReport struct {
	ClassID   string         `json:"class_id"`
	ClassName string         `json:"class_name"`
	Date      models.Date    `json:"date"`
	Weekday   models.Weekday `json:"weekday"`
	Rows      []DayReportRow `json:"rows"`
}

// WeekDayHeader labels one column of the week matrix.
type WeekDayHeader struct {
	Weekday models.Weekday `json:"weekday"`
	Date    models.Date    `json:"date"`
}

// WeekReportCell is one slot of the week matrix.
type WeekReportCell struct {
	PeriodNumber     int                  `json:"period_number"`
	Weekday          models.Weekday       `json:"weekday"`
	Date             models.Date          `json:"date"`
	TimetableSubject string               `json:"timetable_subject"`
	Status           CellStatus           `json:"status"`
	Update           *models.UpdateRecord `json:"update,omitempty"`
}

// WeekReportRow is one period row across the five school days.
type WeekReportRow struct {
	PeriodNumber int              `json:"period_number"`
	Cells        []WeekReportCell `json:"cells"`
}

// WeekReport is the 8x5 Monday-Friday matrix.
type WeekReport struct {
	ClassID   string          `json:"class_id"`
	ClassName string          `json:"class_name"`
	StartDate models.Date     `json:"start_date"`
	EndDate   models.Date     `json:"end_date"`
	Days      []WeekDayHeader `json:"days"`
	Rows      []WeekReportRow `json:"rows"`
}
