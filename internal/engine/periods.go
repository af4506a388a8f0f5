package engine

import (
	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
)

// AllowedPeriods computes the ordered set of (period, subject) pairs the
// principal may report on for the class and date. This is the security
// gate for the update form and for every update save: admins and the
// class creator see every scheduled slot, a subject teacher only the
// slots whose normalised (subject name, teacher email) pair matches the
// roster. Empty results carry a reason tag so callers can distinguish
// "no timetable for this day" from "nothing scheduled for you".
func AllowedPeriods(class *models.ClassRecord, date models.Date, principal models.Principal) dto.PeriodAvailability {
	day, ok := class.Timetable[models.WeekdayOf(date)]
	if !ok || day == nil {
		return dto.PeriodAvailability{Reason: dto.ReasonNoTimetableForDay}
	}

	seeAll := principal.StoredRole == models.RoleAdmin ||
		(class.CreatedBy != "" && class.CreatedBy == principal.ID)
	email := normalize(principal.Email)

	var options []dto.PeriodOption
	scheduled := false
	for period := 1; period <= models.PeriodsPerDay; period++ {
		subject := day[period]
		if subject == "" {
			continue
		}
		scheduled = true
		if seeAll || teachesSubject(class.Subjects, subject, email) {
			options = append(options, dto.PeriodOption{PeriodNumber: period, SubjectName: subject})
		}
	}

	if len(options) == 0 {
		if !scheduled {
			return dto.PeriodAvailability{Reason: dto.ReasonNoTimetableForDay}
		}
		return dto.PeriodAvailability{Reason: dto.ReasonNoSubjectsForPrincipal}
	}
	return dto.PeriodAvailability{Periods: options}
}

// AllowsPeriod reports whether the given period number is in the allowed
// set, returning its timetable subject. Authorization is keyed on the
// period slot alone: a spoofed subject name cannot widen access.
func AllowsPeriod(availability dto.PeriodAvailability, periodNumber int) (string, bool) {
	for _, option := range availability.Periods {
		if option.PeriodNumber == periodNumber {
			return option.SubjectName, true
		}
	}
	return "", false
}

func teachesSubject(subjects models.SubjectList, subjectName, email string) bool {
	if email == "" {
		return false
	}
	want := normalize(subjectName)
	for _, subject := range subjects {
		if normalize(subject.Name) == want && normalize(subject.TeacherEmail) == email {
			return true
		}
	}
	return false
}
