package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sreyaslbs/todayinclass/internal/models"
)

// UpdateRepository manages persistence for daily-update documents. A
// unique index on (class_id, date, period_number) enforces the
// one-record-per-slot invariant at the store.
type UpdateRepository struct {
	db *sqlx.DB
}

// NewUpdateRepository constructs a new update repository.
func NewUpdateRepository(db *sqlx.DB) *UpdateRepository {
	return &UpdateRepository{db: db}
}

const updateColumns = "id, class_id, class_name, period_number, subject_name, teacher_id, teacher_name, date, what_was_taught, has_homework, homework_description, created_at, updated_at"

// ListAll returns every update ordered newest first, the order the
// update registry mirrors.
func (r *UpdateRepository) ListAll(ctx context.Context) ([]models.UpdateRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_updates ORDER BY date DESC, created_at DESC", updateColumns)
	var updates []models.UpdateRecord
	if err := r.db.SelectContext(ctx, &updates, query); err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	return updates, nil
}

// FindByID returns an update by ID.
func (r *UpdateRepository) FindByID(ctx context.Context, id string) (*models.UpdateRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_updates WHERE id = $1", updateColumns)
	var update models.UpdateRecord
	if err := r.db.GetContext(ctx, &update, query, id); err != nil {
		return nil, err
	}
	return &update, nil
}

// FindSlot returns the unique update for a (class, date, period) slot.
func (r *UpdateRepository) FindSlot(ctx context.Context, classID string, date models.Date, periodNumber int) (*models.UpdateRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_updates WHERE class_id = $1 AND date = $2 AND period_number = $3", updateColumns)
	var update models.UpdateRecord
	if err := r.db.GetContext(ctx, &update, query, classID, date, periodNumber); err != nil {
		return nil, err
	}
	return &update, nil
}

// ListByClassAndRange returns a class's updates with date within
// [start, end] inclusive.
func (r *UpdateRepository) ListByClassAndRange(ctx context.Context, classID string, start, end models.Date) ([]models.UpdateRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_updates WHERE class_id = $1 AND date >= $2 AND date <= $3 ORDER BY date, period_number", updateColumns)
	var updates []models.UpdateRecord
	if err := r.db.SelectContext(ctx, &updates, query, classID, start, end); err != nil {
		return nil, fmt.Errorf("list updates by range: %w", err)
	}
	return updates, nil
}

// ListByDate returns all updates for one date across classes, ordered
// by period number for the daily feed.
func (r *UpdateRepository) ListByDate(ctx context.Context, date models.Date) ([]models.UpdateRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_updates WHERE date = $1 ORDER BY period_number, class_name", updateColumns)
	var updates []models.UpdateRecord
	if err := r.db.SelectContext(ctx, &updates, query, date); err != nil {
		return nil, fmt.Errorf("list updates by date: %w", err)
	}
	return updates, nil
}

// Upsert writes the update into its (class_id, date, period_number)
// slot, replacing whatever record occupies it. Authorship transfers to
// the writing teacher; last write wins by design.
func (r *UpdateRepository) Upsert(ctx context.Context, update *models.UpdateRecord) error {
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if update.CreatedAt.IsZero() {
		update.CreatedAt = now
	}
	update.UpdatedAt = now

	const query = `INSERT INTO daily_updates (id, class_id, class_name, period_number, subject_name, teacher_id, teacher_name, date, what_was_taught, has_homework, homework_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (class_id, date, period_number) DO UPDATE SET
			class_name = EXCLUDED.class_name,
			subject_name = EXCLUDED.subject_name,
			teacher_id = EXCLUDED.teacher_id,
			teacher_name = EXCLUDED.teacher_name,
			what_was_taught = EXCLUDED.what_was_taught,
			has_homework = EXCLUDED.has_homework,
			homework_description = EXCLUDED.homework_description,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		update.ID, update.ClassID, update.ClassName, update.PeriodNumber, update.SubjectName,
		update.TeacherID, update.TeacherName, update.Date, update.WhatWasTaught,
		update.HasHomework, update.HomeworkDescription, update.CreatedAt, update.UpdatedAt); err != nil {
		return fmt.Errorf("upsert update: %w", err)
	}
	return nil
}

// Delete removes an update document.
func (r *UpdateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM daily_updates WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete update: %w", err)
	}
	return nil
}
