package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreyaslbs/todayinclass/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassRepositoryListAllDecodesDocuments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	subjects := `[{"id":"s1","name":"Math","teacher_name":"T One","teacher_email":"t1@x.com"}]`
	timetable := `{"Monday":{"1":"Math","3":"Science"}}`
	rows := sqlmock.NewRows([]string{"id", "grade", "section", "class_teacher_name", "created_by", "subjects", "timetable", "created_at", "updated_at"}).
		AddRow("c1", "5", "A", "T One", "u1", []byte(subjects), []byte(timetable), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, grade, section, class_teacher_name, created_by, subjects, timetable, created_at, updated_at FROM classes ORDER BY grade, section")).
		WillReturnRows(rows)

	classes, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "5 - A", classes[0].DisplayName())
	require.Len(t, classes[0].Subjects, 1)
	assert.Equal(t, "t1@x.com", classes[0].Subjects[0].TeacherEmail)
	assert.Equal(t, "Math", classes[0].Timetable[models.Monday][1])
	assert.Equal(t, "Science", classes[0].Timetable[models.Monday][3])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("INSERT INTO classes").
		WithArgs(sqlmock.AnyArg(), "5", "A", "T One", "u1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	class := &models.ClassRecord{
		Grade:            "5",
		Section:          "A",
		ClassTeacherName: "T One",
		CreatedBy:        "u1",
		Subjects:         models.SubjectList{{ID: "s1", Name: "Math", TeacherEmail: "t1@x.com"}},
		Timetable:        models.Timetable{models.Monday: {1: "Math"}},
	}
	require.NoError(t, repo.Create(context.Background(), class))
	assert.NotEmpty(t, class.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("DELETE FROM classes WHERE id = \\$1").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
