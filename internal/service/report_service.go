package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/engine"
	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/internal/registry"
	"github.com/sreyaslbs/todayinclass/pkg/config"
	appErrors "github.com/sreyaslbs/todayinclass/pkg/errors"
	"github.com/sreyaslbs/todayinclass/pkg/export"
)

// ReportService assembles day and week reports from the registry
// snapshots and renders their share and export forms. Reports are
// read-only and available to every authenticated role.
type ReportService struct {
	classes *registry.ClassRegistry
	updates *registry.UpdateRegistry
	cache   *redis.Client
	cfg     config.DigestConfig
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewReportService constructs the report service. The cache client may
// be nil; digests are then rebuilt on every request.
func NewReportService(
	classes *registry.ClassRegistry,
	updates *registry.UpdateRegistry,
	cache *redis.Client,
	cfg config.DigestConfig,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		classes: classes,
		updates: updates,
		cache:   cache,
		cfg:     cfg,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Day builds the single-day report for a class.
func (s *ReportService) Day(ctx context.Context, classID, rawDate string) (dto.DayReport, error) {
	class, date, err := s.resolve(classID, rawDate)
	if err != nil {
		return dto.DayReport{}, err
	}
	return engine.AssembleDayReport(class, date, s.updates.Snapshot()), nil
}

// Week builds the Monday-Friday matrix for the week containing the
// reference date.
func (s *ReportService) Week(ctx context.Context, classID, rawDate string) (dto.WeekReport, error) {
	class, date, err := s.resolve(classID, rawDate)
	if err != nil {
		return dto.WeekReport{}, err
	}
	return engine.AssembleWeekReport(class, date, s.updates.Snapshot()), nil
}

// ShareText renders the plain-text digest for a report window. The
// rendered digest is cached briefly; week windows cache under their
// Monday so every reference day in the week hits the same entry.
func (s *ReportService) ShareText(ctx context.Context, mode dto.ReportMode, classID, rawDate string) (string, error) {
	if !mode.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown report mode")
	}
	class, date, err := s.resolve(classID, rawDate)
	if err != nil {
		return "", err
	}

	key := date
	if mode == dto.ReportModeWeek {
		key = engine.MondayOf(date)
	}
	cacheKey := fmt.Sprintf("digest:%s:%s:%s", mode, classID, key)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("digest cache read failed", zap.Error(err))
		}
	}

	var text string
	if mode == dto.ReportModeDay {
		text = engine.DayShareText(engine.AssembleDayReport(class, date, s.updates.Snapshot()), s.cfg.Attribution)
	} else {
		text = engine.WeekShareText(engine.AssembleWeekReport(class, date, s.updates.Snapshot()), s.cfg.Attribution)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, text, s.cfg.CacheTTL).Err(); err != nil {
			s.logger.Warn("digest cache write failed", zap.Error(err))
		}
	}
	return text, nil
}

// ExportCSV renders a report window as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, mode dto.ReportMode, classID, rawDate string) ([]byte, string, error) {
	table, name, err := s.exportTable(ctx, mode, classID, rawDate)
	if err != nil {
		return nil, "", err
	}
	data, err := s.csv.Render(table)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, name + ".csv", nil
}

// ExportPDF renders a report window as a printable PDF.
func (s *ReportService) ExportPDF(ctx context.Context, mode dto.ReportMode, classID, rawDate string) ([]byte, string, error) {
	table, name, err := s.exportTable(ctx, mode, classID, rawDate)
	if err != nil {
		return nil, "", err
	}
	data, err := s.pdf.Render(table)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, name + ".pdf", nil
}

// Shift moves the report window. Day view steps one day in the offset's
// direction regardless of the offset size; week view takes the full
// offset.
func (s *ReportService) Shift(mode dto.ReportMode, rawDate string, offsetDays int) (models.Date, error) {
	if !mode.Valid() {
		return models.Date{}, appErrors.Clone(appErrors.ErrValidation, "unknown report mode")
	}
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return models.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	return engine.ShiftWindow(mode, date, offsetDays), nil
}

// Capabilities derives the caller's UI capabilities from the current
// class snapshot.
func (s *ReportService) Capabilities(principal models.Principal) dto.Capabilities {
	role := engine.ResolveEffectiveRole(principal, s.classes.Snapshot())
	return engine.Capabilities(role)
}

func (s *ReportService) resolve(classID, rawDate string) (*models.ClassRecord, models.Date, error) {
	class, ok := s.classes.Find(classID)
	if !ok {
		return nil, models.Date{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, models.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	return class, date, nil
}

func (s *ReportService) exportTable(ctx context.Context, mode dto.ReportMode, classID, rawDate string) (export.Table, string, error) {
	if !mode.Valid() {
		return export.Table{}, "", appErrors.Clone(appErrors.ErrValidation, "unknown report mode")
	}

	if mode == dto.ReportModeDay {
		report, err := s.Day(ctx, classID, rawDate)
		if err != nil {
			return export.Table{}, "", err
		}
		table := export.Table{
			Title:   fmt.Sprintf("%s - %s", report.ClassName, report.Date),
			Headers: []string{"Period", "Subject", "Status", "What Was Taught", "Homework"},
		}
		for _, row := range report.Rows {
			record := []string{strconv.Itoa(row.PeriodNumber), row.TimetableSubject, string(row.Status), "", ""}
			if row.Update != nil {
				record[3] = row.Update.WhatWasTaught
				if row.Update.HasHomework {
					record[4] = row.Update.HomeworkDescription
				}
			}
			table.Rows = append(table.Rows, record)
		}
		return table, fmt.Sprintf("report-day-%s", report.Date), nil
	}

	report, err := s.Week(ctx, classID, rawDate)
	if err != nil {
		return export.Table{}, "", err
	}
	table := export.Table{
		Title:   fmt.Sprintf("%s - Week of %s", report.ClassName, report.StartDate),
		Headers: []string{"Period"},
	}
	for _, header := range report.Days {
		table.Headers = append(table.Headers, fmt.Sprintf("%s %s", header.Weekday, header.Date))
	}
	for _, row := range report.Rows {
		record := []string{strconv.Itoa(row.PeriodNumber)}
		for _, cell := range row.Cells {
			record = append(record, weekCellText(cell))
		}
		table.Rows = append(table.Rows, record)
	}
	return table, fmt.Sprintf("report-week-%s", report.StartDate), nil
}

// weekCellText compresses a matrix cell into one export value.
func weekCellText(cell dto.WeekReportCell) string {
	switch cell.Status {
	case dto.CellReported:
		return fmt.Sprintf("%s: %s", cell.Update.SubjectName, cell.Update.WhatWasTaught)
	case dto.CellNoUpdate:
		return fmt.Sprintf("%s (no update)", cell.TimetableSubject)
	default:
		return "-"
	}
}
