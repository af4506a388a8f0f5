package engine

import (
	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
)

// slotKey indexes updates by date and period for O(1) cell lookup.
type slotKey struct {
	date   string
	period int
}

// indexUpdates builds the slot index for a class over a date range. Only
// updates for the class and within [start, end] inclusive are kept; the
// at-most-one-record-per-slot invariant makes later entries overwrite
// earlier ones harmlessly.
func indexUpdates(classID string, start, end models.Date, updates []models.UpdateRecord) map[slotKey]*models.UpdateRecord {
	index := make(map[slotKey]*models.UpdateRecord)
	for i := range updates {
		u := &updates[i]
		if u.ClassID != classID {
			continue
		}
		if u.Date.Before(start) || u.Date.After(end) {
			continue
		}
		index[slotKey{date: u.Date.String(), period: u.PeriodNumber}] = u
	}
	return index
}

// AssembleDayReport reconciles the class timetable against the update
// snapshot for a single day. The result always has exactly
// models.PeriodsPerDay rows: a timetable gap yields an explicit
// not-applicable row, or an unscheduled one when an update sits on the
// gap, never an omission.
func AssembleDayReport(class *models.ClassRecord, date models.Date, updates []models.UpdateRecord) dto.DayReport {
	weekday := models.WeekdayOf(date)
	day := class.Timetable[weekday]
	index := indexUpdates(class.ID, date, date, updates)

	rows := make([]dto.DayReportRow, 0, models.PeriodsPerDay)
	for period := 1; period <= models.PeriodsPerDay; period++ {
		row := dto.DayReportRow{
			PeriodNumber:     period,
			TimetableSubject: day[period],
		}
		row.Status, row.Update = reconcile(row.TimetableSubject, index[slotKey{date: date.String(), period: period}])
		rows = append(rows, row)
	}

	return dto.DayReport{
		ClassID:   class.ID,
		ClassName: class.DisplayName(),
		Date:      date,
		Weekday:   weekday,
		Rows:      rows,
	}
}

// AssembleWeekReport builds the 8x5 Monday-Friday matrix for the week
// containing the reference date. Any day of the week normalises to the
// same window, so passing a Wednesday or the Monday itself is
// equivalent.
func AssembleWeekReport(class *models.ClassRecord, ref models.Date, updates []models.UpdateRecord) dto.WeekReport {
	monday := MondayOf(ref)
	friday := monday.AddDays(4)
	index := indexUpdates(class.ID, monday, friday, updates)

	days := make([]dto.WeekDayHeader, 0, len(models.SchoolWeek))
	for i, weekday := range models.SchoolWeek {
		days = append(days, dto.WeekDayHeader{Weekday: weekday, Date: monday.AddDays(i)})
	}

	rows := make([]dto.WeekReportRow, 0, models.PeriodsPerDay)
	for period := 1; period <= models.PeriodsPerDay; period++ {
		row := dto.WeekReportRow{PeriodNumber: period, Cells: make([]dto.WeekReportCell, 0, len(days))}
		for _, header := range days {
			cell := dto.WeekReportCell{
				PeriodNumber:     period,
				Weekday:          header.Weekday,
				Date:             header.Date,
				TimetableSubject: class.Timetable[header.Weekday][period],
			}
			cell.Status, cell.Update = reconcile(cell.TimetableSubject, index[slotKey{date: header.Date.String(), period: period}])
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	return dto.WeekReport{
		ClassID:   class.ID,
		ClassName: class.DisplayName(),
		StartDate: monday,
		EndDate:   friday,
		Days:      days,
		Rows:      rows,
	}
}

// reconcile tags a slot. An update on a slot the timetable does not
// cover is kept and marked unscheduled rather than dropped; a scheduled
// subject is either reported or awaiting an update.
func reconcile(timetableSubject string, update *models.UpdateRecord) (dto.CellStatus, *models.UpdateRecord) {
	if timetableSubject == "" {
		if update == nil {
			return dto.CellNotApplicable, nil
		}
		return dto.CellUnscheduled, update
	}
	if update == nil {
		return dto.CellNoUpdate, nil
	}
	return dto.CellReported, update
}

// MondayOf returns the Monday of the week containing the date. Sunday
// belongs to the week that ended with it, matching the
// day - weekday + (weekday==Sunday ? -6 : 1) adjustment.
func MondayOf(date models.Date) models.Date {
	weekday := int(date.Weekday())
	diff := 1 - weekday
	if weekday == 0 {
		diff = -6
	}
	return date.AddDays(diff)
}
