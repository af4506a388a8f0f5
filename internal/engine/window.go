package engine

import (
	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
)

// ShiftWindow moves the report reference date by the caller-supplied
// offset, respecting the active mode: day view always steps a single day
// in the offset's direction no matter how large the hint is, while week
// view applies the full offset. This keeps a next/prev control from
// jumping a week while a single day is displayed.
func ShiftWindow(mode dto.ReportMode, date models.Date, offsetDays int) models.Date {
	if offsetDays == 0 {
		return date
	}
	if mode == dto.ReportModeDay {
		if offsetDays > 0 {
			return date.AddDays(1)
		}
		return date.AddDays(-1)
	}
	return date.AddDays(offsetDays)
}
