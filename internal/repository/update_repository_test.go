package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreyaslbs/todayinclass/internal/models"
)

func TestUpdateRepositoryUpsertTargetsSlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUpdateRepository(db)

	mock.ExpectExec("INSERT INTO daily_updates .* ON CONFLICT \\(class_id, date, period_number\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "c1", "5 - A", 3, "Math", "t1", "T One",
			sqlmock.AnyArg(), "Fractions", true, "Read ch.2", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	date, err := models.ParseDate("2026-03-02")
	require.NoError(t, err)

	update := &models.UpdateRecord{
		ClassID:             "c1",
		ClassName:           "5 - A",
		PeriodNumber:        3,
		SubjectName:         "Math",
		TeacherID:           "t1",
		TeacherName:         "T One",
		Date:                date,
		WhatWasTaught:       "Fractions",
		HasHomework:         true,
		HomeworkDescription: "Read ch.2",
	}
	require.NoError(t, repo.Upsert(context.Background(), update))
	assert.NotEmpty(t, update.ID)
	assert.False(t, update.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRepositoryUpsertKeepsExistingIdentity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUpdateRepository(db)

	mock.ExpectExec("INSERT INTO daily_updates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	update := &models.UpdateRecord{
		ID:        "existing",
		ClassID:   "c1",
		CreatedAt: created,
	}
	require.NoError(t, repo.Upsert(context.Background(), update))
	assert.Equal(t, "existing", update.ID)
	assert.Equal(t, created, update.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRepositoryListByClassAndRangeIsInclusive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUpdateRepository(db)

	start, _ := models.ParseDate("2026-03-02")
	end, _ := models.ParseDate("2026-03-06")

	rows := sqlmock.NewRows([]string{"id", "class_id", "class_name", "period_number", "subject_name", "teacher_id", "teacher_name", "date", "what_was_taught", "has_homework", "homework_description", "created_at", "updated_at"}).
		AddRow("u1", "c1", "5 - A", 1, "Math", "t1", "T One", "2026-03-02", "Fractions", false, "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT .* FROM daily_updates WHERE class_id = \\$1 AND date >= \\$2 AND date <= \\$3").
		WithArgs("c1", start, end).
		WillReturnRows(rows)

	updates, err := repo.ListByClassAndRange(context.Background(), "c1", start, end)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, start, updates[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}
