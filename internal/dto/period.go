package dto

// EmptyReason explains why no periods are available for a class and
// date. Callers branch on the tag, never on display strings.
type EmptyReason string

const (
	// ReasonNone means the availability list is non-empty.
	ReasonNone EmptyReason = ""
	// ReasonNoTimetableForDay means the timetable has no entry for the
	// weekday at all, e.g. a weekend.
	ReasonNoTimetableForDay EmptyReason = "no_timetable_for_day"
	// ReasonNoSubjectsForPrincipal means the day is scheduled but none of
	// its subjects belong to the requesting principal.
	ReasonNoSubjectsForPrincipal EmptyReason = "no_subjects_for_principal"
)

// PeriodOption is one (period, subject) pair a principal may report on.
type PeriodOption struct {
	PeriodNumber int    `json:"period_number"`
	SubjectName  string `json:"subject_name"`
}

// PeriodAvailability is the ordered allowed-period set for a
// (class, date, principal) triple.
type PeriodAvailability struct {
	Periods []PeriodOption `json:"periods"`
	Reason  EmptyReason    `json:"reason,omitempty"`
}
