package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sreyaslbs/todayinclass/internal/models"
)

// ClassRepository manages persistence for class documents. The subject
// roster and the weekly timetable live inline as JSONB, mirroring the
// document shape the rest of the system computes over.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = "id, grade, section, class_teacher_name, created_by, subjects, timetable, created_at, updated_at"

// ListAll returns every class ordered by grade then section, the order
// the class registry mirrors.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.ClassRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM classes ORDER BY grade, section", classColumns)
	var classes []models.ClassRecord
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.ClassRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.ClassRecord
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class document.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassRecord) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, grade, section, class_teacher_name, created_by, subjects, timetable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		class.ID, class.Grade, class.Section, class.ClassTeacherName, class.CreatedBy,
		class.Subjects, class.Timetable, class.CreatedAt, class.UpdatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update replaces a class document's mutable fields. The creator is
// never reassigned.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassRecord) error {
	class.UpdatedAt = time.Now().UTC()

	const query = `UPDATE classes SET grade = $1, section = $2, class_teacher_name = $3, subjects = $4, timetable = $5, updated_at = $6
		WHERE id = $7`
	if _, err := r.db.ExecContext(ctx, query,
		class.Grade, class.Section, class.ClassTeacherName, class.Subjects, class.Timetable,
		class.UpdatedAt, class.ID); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class document.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
