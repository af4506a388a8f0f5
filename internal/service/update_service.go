package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/engine"
	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/internal/registry"
	appErrors "github.com/sreyaslbs/todayinclass/pkg/errors"
)

type updateRepository interface {
	FindByID(ctx context.Context, id string) (*models.UpdateRecord, error)
	FindSlot(ctx context.Context, classID string, date models.Date, periodNumber int) (*models.UpdateRecord, error)
	Upsert(ctx context.Context, update *models.UpdateRecord) error
	Delete(ctx context.Context, id string) error
}

// SlotState is the prefetch payload for the update form: the resolved
// subject plus the existing record when the slot is already filled.
type SlotState struct {
	PeriodNumber int                  `json:"period_number"`
	SubjectName  string               `json:"subject_name"`
	Update       *models.UpdateRecord `json:"update,omitempty"`
	Authored     bool                 `json:"authored"`
}

// UpdateService handles the daily-update write path and its slot
// queries. Saves validate in a fixed order: payload shape, class
// existence, period authorization, then content.
type UpdateService struct {
	repo      updateRepository
	classes   *registry.ClassRegistry
	updates   *registry.UpdateRegistry
	audit     auditRecorder
	publisher collectionPublisher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUpdateService constructs the update service.
func NewUpdateService(
	repo updateRepository,
	classes *registry.ClassRegistry,
	updates *registry.UpdateRegistry,
	audit auditRecorder,
	publisher collectionPublisher,
	validate *validator.Validate,
	logger *zap.Logger,
) *UpdateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateService{
		repo:      repo,
		classes:   classes,
		updates:   updates,
		audit:     audit,
		publisher: publisher,
		validator: validate,
		logger:    logger,
	}
}

// Save records what was taught in one period slot. The subject comes
// from the class timetable, never from the client. Writing over another
// teacher's record is allowed when the slot authorization passes; the
// record keeps its identity and authorship moves to the writer.
func (s *UpdateService) Save(ctx context.Context, principal models.Principal, req dto.SaveUpdateRequest) (*models.UpdateRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	class, ok := s.classes.Find(req.ClassID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	availability := engine.AllowedPeriods(class, date, principal)
	subject, allowed := engine.AllowsPeriod(availability, req.PeriodNumber)
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "period is not assigned to you")
	}

	taught := strings.TrimSpace(req.WhatWasTaught)
	if taught == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "what was taught is required")
	}

	homework := strings.TrimSpace(req.HomeworkDescription)
	if !req.HasHomework {
		homework = ""
	}

	update := &models.UpdateRecord{
		ClassID:             class.ID,
		ClassName:           class.DisplayName(),
		PeriodNumber:        req.PeriodNumber,
		SubjectName:         subject,
		TeacherID:           principal.ID,
		TeacherName:         principal.DisplayName,
		Date:                date,
		WhatWasTaught:       taught,
		HasHomework:         req.HasHomework,
		HomeworkDescription: homework,
	}

	existing, err := s.repo.FindSlot(ctx, class.ID, date, req.PeriodNumber)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing update")
	}
	if existing != nil {
		update.ID = existing.ID
		update.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save update")
	}

	s.recordAudit(ctx, principal, models.AuditActionUpdateSave, update.ID)
	s.publisher.Publish(ctx, registry.CollectionUpdates)
	return update, nil
}

// Delete removes an update. Only the original author may delete it.
func (s *UpdateService) Delete(ctx context.Context, principal models.Principal, id string) error {
	update, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "update not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load update")
	}
	if !engine.CanModifyUpdate(update, principal) {
		return appErrors.Clone(appErrors.ErrForbidden, "update belongs to another teacher")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete update")
	}

	s.recordAudit(ctx, principal, models.AuditActionUpdateDelete, id)
	s.publisher.Publish(ctx, registry.CollectionUpdates)
	return nil
}

// AllowedPeriods returns the periods the principal may report on for a
// class and date, with a reason tag when the list is empty.
func (s *UpdateService) AllowedPeriods(ctx context.Context, principal models.Principal, classID, rawDate string) (dto.PeriodAvailability, error) {
	class, ok := s.classes.Find(classID)
	if !ok {
		return dto.PeriodAvailability{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return dto.PeriodAvailability{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	return engine.AllowedPeriods(class, date, principal), nil
}

// SlotState prefetches the form state for one slot so editing an
// existing record starts from its current content.
func (s *UpdateService) SlotState(ctx context.Context, principal models.Principal, classID, rawDate string, periodNumber int) (*SlotState, error) {
	class, ok := s.classes.Find(classID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	availability := engine.AllowedPeriods(class, date, principal)
	subject, allowed := engine.AllowsPeriod(availability, periodNumber)
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "period is not assigned to you")
	}

	state := &SlotState{PeriodNumber: periodNumber, SubjectName: subject}
	if update, ok := s.updates.FindSlot(classID, date, periodNumber); ok {
		state.Update = update
		state.Authored = update.TeacherID == principal.ID
	}
	return state, nil
}

// Feed returns every update for one date across all classes, ordered by
// period then class name.
func (s *UpdateService) Feed(ctx context.Context, rawDate string) ([]models.UpdateRecord, error) {
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	var feed []models.UpdateRecord
	for _, update := range s.updates.Snapshot() {
		if update.Date == date {
			feed = append(feed, update)
		}
	}
	sort.Slice(feed, func(i, j int) bool {
		if feed[i].PeriodNumber != feed[j].PeriodNumber {
			return feed[i].PeriodNumber < feed[j].PeriodNumber
		}
		return feed[i].ClassName < feed[j].ClassName
	})
	return feed, nil
}

func (s *UpdateService) recordAudit(ctx context.Context, principal models.Principal, action, resourceID string) {
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &principal.ID,
		Action:     action,
		Resource:   "daily_update",
		ResourceID: &resourceID,
	}); err != nil {
		s.logger.Warn("failed to record update audit log", zap.Error(err))
	}
}
