package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sreyaslbs/todayinclass/internal/dto"
)

func TestShiftWindowDayModeClampsToSingleDay(t *testing.T) {
	start := mustDate(t, "2026-03-04")

	assert.Equal(t, "2026-03-05", ShiftWindow(dto.ReportModeDay, start, 7).String())
	assert.Equal(t, "2026-03-03", ShiftWindow(dto.ReportModeDay, start, -7).String())
	assert.Equal(t, "2026-03-05", ShiftWindow(dto.ReportModeDay, start, 1).String())
	assert.Equal(t, "2026-03-04", ShiftWindow(dto.ReportModeDay, start, 0).String())
}

func TestShiftWindowWeekModeAppliesFullOffset(t *testing.T) {
	start := mustDate(t, "2026-03-04")

	assert.Equal(t, "2026-03-11", ShiftWindow(dto.ReportModeWeek, start, 7).String())
	assert.Equal(t, "2026-02-25", ShiftWindow(dto.ReportModeWeek, start, -7).String())
}

func TestCapabilitiesByRole(t *testing.T) {
	admin := Capabilities("admin")
	assert.True(t, admin.CanAddClass)
	assert.True(t, admin.CanEditClass)
	assert.True(t, admin.CanSeeClassesTab)

	teacher := Capabilities("teacher")
	assert.False(t, teacher.CanAddClass)
	assert.True(t, teacher.CanAddUpdate)
	assert.True(t, teacher.CanShareReport)

	parent := Capabilities("parent")
	assert.False(t, parent.CanSeeClassesTab)
	assert.False(t, parent.CanSeeUpdatesTab)
	assert.False(t, parent.CanAddUpdate)
	assert.False(t, parent.CanShareReport)
}
