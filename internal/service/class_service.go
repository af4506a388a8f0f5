package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/engine"
	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/internal/registry"
	appErrors "github.com/sreyaslbs/todayinclass/pkg/errors"
)

type classRepository interface {
	FindByID(ctx context.Context, id string) (*models.ClassRecord, error)
	Create(ctx context.Context, class *models.ClassRecord) error
	Update(ctx context.Context, class *models.ClassRecord) error
	Delete(ctx context.Context, id string) error
}

type rolePromoter interface {
	PromoteToTeacher(ctx context.Context, email string, ts time.Time) (bool, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type collectionPublisher interface {
	Publish(ctx context.Context, collection string)
}

const promotionTimeout = 10 * time.Second

// ClassService handles class definition use-cases. Reads come from the
// live registry snapshot; writes go to the store and then announce the
// change so every instance reloads.
type ClassService struct {
	repo      classRepository
	classes   *registry.ClassRegistry
	promoter  rolePromoter
	audit     auditRecorder
	publisher collectionPublisher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(
	repo classRepository,
	classes *registry.ClassRegistry,
	promoter rolePromoter,
	audit auditRecorder,
	publisher collectionPublisher,
	validate *validator.Validate,
	logger *zap.Logger,
) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		repo:      repo,
		classes:   classes,
		promoter:  promoter,
		audit:     audit,
		publisher: publisher,
		validator: validate,
		logger:    logger,
	}
}

// List returns every class from the current snapshot. All authenticated
// roles may list classes; parents need them to pick a report.
func (s *ClassService) List(ctx context.Context) []models.ClassRecord {
	return s.classes.Snapshot()
}

// ListMine returns the classes the principal teaches, as creator or as
// roster subject-teacher. Admins get the full list.
func (s *ClassService) ListMine(ctx context.Context, principal models.Principal) []models.ClassRecord {
	snapshot := s.classes.Snapshot()
	if principal.StoredRole == models.RoleAdmin {
		return snapshot
	}
	var mine []models.ClassRecord
	for i := range snapshot {
		if engine.IsTeacherForClass(principal, &snapshot[i]) {
			mine = append(mine, snapshot[i])
		}
	}
	return mine
}

// Get returns one class from the snapshot.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassRecord, error) {
	class, ok := s.classes.Find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return class, nil
}

// Create defines a new class. Admin only. The roster emails gain teacher
// status as a side effect; failures there never fail the save.
func (s *ClassService) Create(ctx context.Context, principal models.Principal, req dto.SaveClassRequest) (*models.ClassRecord, error) {
	if err := s.requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.ClassRecord{
		Grade:            strings.TrimSpace(req.Grade),
		Section:          strings.TrimSpace(req.Section),
		ClassTeacherName: classTeacherName(req.ClassTeacherName, principal),
		CreatedBy:        principal.ID,
		Subjects:         normalizeRoster(req.Subjects),
		Timetable:        req.Timetable,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}

	s.recordAudit(ctx, principal, models.AuditActionClassCreate, class.ID)
	s.publisher.Publish(ctx, registry.CollectionClasses)
	go s.promoteRoster(class.Subjects)

	return class, nil
}

// Update replaces a class definition. Admin only; the creator is kept.
func (s *ClassService) Update(ctx context.Context, principal models.Principal, id string, req dto.SaveClassRequest) (*models.ClassRecord, error) {
	if err := s.requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	class.Grade = strings.TrimSpace(req.Grade)
	class.Section = strings.TrimSpace(req.Section)
	class.ClassTeacherName = classTeacherName(req.ClassTeacherName, principal)
	class.Subjects = normalizeRoster(req.Subjects)
	class.Timetable = req.Timetable

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}

	s.recordAudit(ctx, principal, models.AuditActionClassUpdate, class.ID)
	s.publisher.Publish(ctx, registry.CollectionClasses)
	go s.promoteRoster(class.Subjects)

	return class, nil
}

// Delete removes a class definition. Admin only.
func (s *ClassService) Delete(ctx context.Context, principal models.Principal, id string) error {
	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	if _, ok := s.classes.Find(id); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}

	s.recordAudit(ctx, principal, models.AuditActionClassDelete, id)
	s.publisher.Publish(ctx, registry.CollectionClasses)
	return nil
}

// requireAdmin gates class management. Effective admin is identical to
// stored admin: roster membership never grants the admin role.
func (s *ClassService) requireAdmin(principal models.Principal) error {
	if principal.StoredRole != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "class management requires the admin role")
	}
	return nil
}

// promoteRoster upgrades every distinct roster email from parent to
// teacher. Best effort: the class save already succeeded, so failures
// are only logged. Each email is attempted at most once per save.
func (s *ClassService) promoteRoster(subjects models.SubjectList) {
	ctx, cancel := context.WithTimeout(context.Background(), promotionTimeout)
	defer cancel()

	seen := make(map[string]struct{})
	for _, subject := range subjects {
		email := strings.ToLower(strings.TrimSpace(subject.TeacherEmail))
		if email == "" {
			continue
		}
		if _, done := seen[email]; done {
			continue
		}
		seen[email] = struct{}{}

		promoted, err := s.promoter.PromoteToTeacher(ctx, email, time.Now().UTC())
		if err != nil {
			s.logger.Warn("roster promotion failed", zap.String("email", email), zap.Error(err))
			continue
		}
		if !promoted {
			continue
		}
		s.logger.Info("promoted roster teacher", zap.String("email", email))
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			Action:    models.AuditActionRolePromotion,
			Resource:  "user",
			NewValues: []byte(fmt.Sprintf(`{"email":%q,"role":"teacher"}`, email)),
		}); err != nil {
			s.logger.Warn("failed to record promotion audit log", zap.Error(err))
		}
	}
}

func (s *ClassService) recordAudit(ctx context.Context, principal models.Principal, action, resourceID string) {
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &principal.ID,
		Action:     action,
		Resource:   "class",
		ResourceID: &resourceID,
	}); err != nil {
		s.logger.Warn("failed to record class audit log", zap.Error(err))
	}
}

// classTeacherName denormalises the homeroom teacher label, falling
// back to the saving user's display name when the payload leaves it
// blank.
func classTeacherName(raw string, principal models.Principal) string {
	if name := strings.TrimSpace(raw); name != "" {
		return name
	}
	return principal.DisplayName
}

// normalizeRoster trims roster fields, lowercases emails and assigns
// stable subject IDs.
func normalizeRoster(subjects []dto.SubjectPayload) models.SubjectList {
	roster := make(models.SubjectList, 0, len(subjects))
	for _, subject := range subjects {
		roster = append(roster, models.SubjectAssignment{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(subject.Name),
			TeacherName:  strings.TrimSpace(subject.TeacherName),
			TeacherEmail: strings.ToLower(strings.TrimSpace(subject.TeacherEmail)),
		})
	}
	return roster
}
