package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
)

func mustDate(t *testing.T, value string) models.Date {
	t.Helper()
	d, err := models.ParseDate(value)
	require.NoError(t, err)
	return d
}

// 2026-03-02 is a Monday; 2026-03-03 a Tuesday; 2026-03-07 a Saturday.
func mathClass() models.ClassRecord {
	return models.ClassRecord{
		ID:        "c1",
		Grade:     "5",
		Section:   "A",
		CreatedBy: "creator-1",
		Subjects: models.SubjectList{
			{Name: "Math", TeacherName: "T One", TeacherEmail: "t1@x.com"},
			{Name: "Science", TeacherName: "T Two", TeacherEmail: "t2@x.com"},
		},
		Timetable: models.Timetable{
			models.Monday: {1: "Math", 2: "Science", 4: "Math"},
		},
	}
}

func TestAllowedPeriodsSubjectTeacherSeesOwnSlots(t *testing.T) {
	class := mathClass()
	principal := models.Principal{ID: "u-t1", Email: "T1@X.com", StoredRole: models.RoleParent}

	availability := AllowedPeriods(&class, mustDate(t, "2026-03-02"), principal)
	require.Equal(t, dto.ReasonNone, availability.Reason)
	assert.Equal(t, []dto.PeriodOption{
		{PeriodNumber: 1, SubjectName: "Math"},
		{PeriodNumber: 4, SubjectName: "Math"},
	}, availability.Periods)
}

func TestAllowedPeriodsAdminSeesAllScheduledSlots(t *testing.T) {
	class := mathClass()
	principal := models.Principal{ID: "admin-1", Email: "admin@x.com", StoredRole: models.RoleAdmin}

	availability := AllowedPeriods(&class, mustDate(t, "2026-03-02"), principal)
	require.Len(t, availability.Periods, 3)
	assert.Equal(t, 2, availability.Periods[1].PeriodNumber)
	assert.Equal(t, "Science", availability.Periods[1].SubjectName)
}

func TestAllowedPeriodsCreatorSeesAllScheduledSlots(t *testing.T) {
	class := mathClass()
	principal := models.Principal{ID: "creator-1", Email: "c@x.com", StoredRole: models.RoleTeacher}

	availability := AllowedPeriods(&class, mustDate(t, "2026-03-02"), principal)
	assert.Len(t, availability.Periods, 3)
}

func TestAllowedPeriodsNoTimetableForDay(t *testing.T) {
	class := mathClass()
	principal := models.Principal{ID: "u-t1", Email: "t1@x.com", StoredRole: models.RoleParent}

	for _, value := range []string{"2026-03-03", "2026-03-07", "2026-03-08"} {
		availability := AllowedPeriods(&class, mustDate(t, value), principal)
		assert.Empty(t, availability.Periods, value)
		assert.Equal(t, dto.ReasonNoTimetableForDay, availability.Reason, value)
	}
}

func TestAllowedPeriodsNoSubjectsForPrincipal(t *testing.T) {
	class := mathClass()
	principal := models.Principal{ID: "u-t3", Email: "t3@x.com", StoredRole: models.RoleTeacher}

	availability := AllowedPeriods(&class, mustDate(t, "2026-03-02"), principal)
	assert.Empty(t, availability.Periods)
	assert.Equal(t, dto.ReasonNoSubjectsForPrincipal, availability.Reason)
}

func TestAllowedPeriodsDayWithOnlyEmptySlots(t *testing.T) {
	class := mathClass()
	class.Timetable[models.Tuesday] = models.DaySchedule{1: "", 2: ""}
	principal := models.Principal{ID: "admin-1", Email: "a@x.com", StoredRole: models.RoleAdmin}

	availability := AllowedPeriods(&class, mustDate(t, "2026-03-03"), principal)
	assert.Equal(t, dto.ReasonNoTimetableForDay, availability.Reason)
}

func TestAllowsPeriodIgnoresSpoofedSubject(t *testing.T) {
	class := mathClass()
	principal := models.Principal{ID: "u-t2", Email: "t2@x.com", StoredRole: models.RoleParent}

	availability := AllowedPeriods(&class, mustDate(t, "2026-03-02"), principal)
	require.Equal(t, []dto.PeriodOption{{PeriodNumber: 2, SubjectName: "Science"}}, availability.Periods)

	// Period 1 is Math; claiming Science for it must not open the slot.
	_, ok := AllowsPeriod(availability, 1)
	assert.False(t, ok)

	subject, ok := AllowsPeriod(availability, 2)
	require.True(t, ok)
	assert.Equal(t, "Science", subject)
}
