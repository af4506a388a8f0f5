package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
)

// DayShareText serialises a day report into the deterministic plain-text
// digest. Periods appear in ascending order, a homework line only when
// homework was set, and free text goes out verbatim.
func DayShareText(report dto.DayReport, attribution string) string {
	var b strings.Builder
	writeDigestHeader(&b, report.ClassName)
	fmt.Fprintf(&b, "📅 *Date:* %s\n\n", longDate(report.Date))

	for _, row := range report.Rows {
		if row.Update == nil {
			continue
		}
		fmt.Fprintf(&b, "*P%d:* %s\n", row.PeriodNumber, row.Update.SubjectName)
		fmt.Fprintf(&b, "👉 %s\n", row.Update.WhatWasTaught)
		if row.Update.HasHomework {
			fmt.Fprintf(&b, "📚 *HW:* %s\n", row.Update.HomeworkDescription)
		}
		b.WriteString("\n")
	}

	writeAttribution(&b, attribution)
	return b.String()
}

// WeekShareText serialises a week report. Days run Monday to Friday and
// only days with at least one update contribute a section; an empty day
// is skipped entirely rather than emitting a bare heading.
func WeekShareText(report dto.WeekReport, attribution string) string {
	var b strings.Builder
	writeDigestHeader(&b, report.ClassName)
	fmt.Fprintf(&b, "📅 *Week:* %s to %s\n\n", longDate(report.StartDate), longDate(report.EndDate))

	for dayIdx, header := range report.Days {
		var lines []string
		for _, row := range report.Rows {
			cell := row.Cells[dayIdx]
			if cell.Update == nil {
				continue
			}
			lines = append(lines, fmt.Sprintf("*P%d (%s):* %s", cell.PeriodNumber, cell.Update.SubjectName, cell.Update.WhatWasTaught))
			if cell.Update.HasHomework {
				lines = append(lines, fmt.Sprintf("📚 *HW:* %s", cell.Update.HomeworkDescription))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "*--- %s (%s) ---*\n", header.Weekday, longDate(header.Date))
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeAttribution(&b, attribution)
	return b.String()
}

func writeDigestHeader(b *strings.Builder, className string) {
	b.WriteString("📝 *TodayInClass Report*\n")
	fmt.Fprintf(b, "🏫 *Class:* %s\n", className)
}

func writeAttribution(b *strings.Builder, attribution string) {
	fmt.Fprintf(b, "_%s_", attribution)
}

// longDate renders a date for human display, e.g. "5 January 2026".
func longDate(d models.Date) string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2 January 2006")
}
