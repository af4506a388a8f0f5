package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/internal/registry"
	appErrors "github.com/sreyaslbs/todayinclass/pkg/errors"
)

type mockUpdateRepo struct {
	byID  map[string]models.UpdateRecord
	slots map[string]models.UpdateRecord
	err   error
}

func slotID(classID string, date models.Date, period int) string {
	return fmt.Sprintf("%s|%s|%d", classID, date, period)
}

func (m *mockUpdateRepo) FindByID(ctx context.Context, id string) (*models.UpdateRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if update, ok := m.byID[id]; ok {
		return &update, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUpdateRepo) FindSlot(ctx context.Context, classID string, date models.Date, period int) (*models.UpdateRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if update, ok := m.slots[slotID(classID, date, period)]; ok {
		return &update, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUpdateRepo) Upsert(ctx context.Context, update *models.UpdateRecord) error {
	if m.err != nil {
		return m.err
	}
	if update.ID == "" {
		update.ID = "generated"
	}
	if m.byID == nil {
		m.byID = make(map[string]models.UpdateRecord)
	}
	if m.slots == nil {
		m.slots = make(map[string]models.UpdateRecord)
	}
	m.byID[update.ID] = *update
	m.slots[slotID(update.ClassID, update.Date, update.PeriodNumber)] = *update
	return nil
}

func (m *mockUpdateRepo) Delete(ctx context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func mondayClass() models.ClassRecord {
	return models.ClassRecord{
		ID:        "c1",
		Grade:     "5",
		Section:   "A",
		CreatedBy: "admin-1",
		Subjects: models.SubjectList{
			{ID: "s1", Name: "Math", TeacherName: "T One", TeacherEmail: "t1@x.com"},
			{ID: "s2", Name: "Science", TeacherName: "T Two", TeacherEmail: "t2@x.com"},
		},
		Timetable: models.Timetable{
			models.Monday: {1: "Math", 2: "Science"},
		},
	}
}

func mathTeacher() models.Principal {
	return models.Principal{ID: "u-t1", Email: "t1@x.com", DisplayName: "T One", StoredRole: models.RoleParent}
}

func newUpdateFixture(t *testing.T) (*UpdateService, *mockUpdateRepo, *stubPublisher) {
	t.Helper()
	classes := registry.NewClassRegistry()
	classes.Replace([]models.ClassRecord{mondayClass()})
	repo := &mockUpdateRepo{}
	publisher := &stubPublisher{}
	svc := NewUpdateService(repo, classes, registry.NewUpdateRegistry(), &stubAudit{}, publisher, nil, nil)
	return svc, repo, publisher
}

func saveRequest() dto.SaveUpdateRequest {
	return dto.SaveUpdateRequest{
		ClassID:       "c1",
		Date:          "2026-03-02",
		PeriodNumber:  1,
		WhatWasTaught: "Fractions",
	}
}

func TestUpdateServiceSaveResolvesSubjectFromTimetable(t *testing.T) {
	svc, _, publisher := newUpdateFixture(t)

	update, err := svc.Save(context.Background(), mathTeacher(), saveRequest())
	require.NoError(t, err)

	assert.Equal(t, "Math", update.SubjectName)
	assert.Equal(t, "5 - A", update.ClassName)
	assert.Equal(t, "u-t1", update.TeacherID)
	assert.Contains(t, publisher.published(), registry.CollectionUpdates)
}

func TestUpdateServiceSaveMissingFieldsBeforeAuthorization(t *testing.T) {
	svc, _, _ := newUpdateFixture(t)

	// Period zero is a malformed request even though the teacher also
	// lacks any claim to it.
	req := saveRequest()
	req.PeriodNumber = 0
	_, err := svc.Save(context.Background(), mathTeacher(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = saveRequest()
	req.ClassID = ""
	_, err = svc.Save(context.Background(), mathTeacher(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateServiceSaveForbiddenBeforeContent(t *testing.T) {
	svc, _, _ := newUpdateFixture(t)

	// Period 2 belongs to another teacher and the taught text is empty;
	// authorization must win.
	req := saveRequest()
	req.PeriodNumber = 2
	req.WhatWasTaught = "   "
	_, err := svc.Save(context.Background(), mathTeacher(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateServiceSaveRejectsEmptyTaughtText(t *testing.T) {
	svc, _, _ := newUpdateFixture(t)

	req := saveRequest()
	req.WhatWasTaught = "   "
	_, err := svc.Save(context.Background(), mathTeacher(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateServiceSaveUnknownClass(t *testing.T) {
	svc, _, _ := newUpdateFixture(t)

	req := saveRequest()
	req.ClassID = "missing"
	_, err := svc.Save(context.Background(), mathTeacher(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateServiceSaveClearsHomeworkWhenFlagOff(t *testing.T) {
	svc, _, _ := newUpdateFixture(t)

	req := saveRequest()
	req.HasHomework = false
	req.HomeworkDescription = "leftover text"
	update, err := svc.Save(context.Background(), mathTeacher(), req)
	require.NoError(t, err)
	assert.Empty(t, update.HomeworkDescription)

	req.HasHomework = true
	req.HomeworkDescription = "Read ch.2"
	update, err = svc.Save(context.Background(), mathTeacher(), req)
	require.NoError(t, err)
	assert.Equal(t, "Read ch.2", update.HomeworkDescription)
}

func TestUpdateServiceSaveOverwriteKeepsIdentity(t *testing.T) {
	svc, repo, _ := newUpdateFixture(t)

	first, err := svc.Save(context.Background(), mathTeacher(), saveRequest())
	require.NoError(t, err)

	// The class creator rewrites the same slot. The record keeps its
	// identity and authorship moves to the writer.
	admin := models.Principal{ID: "admin-1", Email: "admin@x.com", DisplayName: "Admin", StoredRole: models.RoleAdmin}
	req := saveRequest()
	req.WhatWasTaught = "Decimals"
	second, err := svc.Save(context.Background(), admin, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "admin-1", second.TeacherID)
	assert.Equal(t, "Decimals", repo.byID[first.ID].WhatWasTaught)
}

func TestUpdateServiceDeleteRequiresAuthorship(t *testing.T) {
	svc, repo, _ := newUpdateFixture(t)

	update, err := svc.Save(context.Background(), mathTeacher(), saveRequest())
	require.NoError(t, err)

	other := models.Principal{ID: "u-other", Email: "t2@x.com", StoredRole: models.RoleTeacher}
	err = svc.Delete(context.Background(), other, update.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), mathTeacher(), update.ID))
	_, ok := repo.byID[update.ID]
	assert.False(t, ok)
}

func TestUpdateServiceDeleteUnknownUpdate(t *testing.T) {
	svc, _, _ := newUpdateFixture(t)

	err := svc.Delete(context.Background(), mathTeacher(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateServiceAllowedPeriodsReasons(t *testing.T) {
	svc, _, _ := newUpdateFixture(t)

	availability, err := svc.AllowedPeriods(context.Background(), mathTeacher(), "c1", "2026-03-02")
	require.NoError(t, err)
	require.Len(t, availability.Periods, 1)
	assert.Equal(t, 1, availability.Periods[0].PeriodNumber)

	// Saturday has no timetable at all.
	availability, err = svc.AllowedPeriods(context.Background(), mathTeacher(), "c1", "2026-03-07")
	require.NoError(t, err)
	assert.Empty(t, availability.Periods)
	assert.Equal(t, dto.ReasonNoTimetableForDay, availability.Reason)

	// A stranger gets the scheduled-but-not-yours tag on Monday.
	stranger := models.Principal{ID: "u-x", Email: "x@x.com", StoredRole: models.RoleParent}
	availability, err = svc.AllowedPeriods(context.Background(), stranger, "c1", "2026-03-02")
	require.NoError(t, err)
	assert.Empty(t, availability.Periods)
	assert.Equal(t, dto.ReasonNoSubjectsForPrincipal, availability.Reason)
}

func TestUpdateServiceSlotState(t *testing.T) {
	classes := registry.NewClassRegistry()
	classes.Replace([]models.ClassRecord{mondayClass()})
	updates := registry.NewUpdateRegistry()
	date, _ := models.ParseDate("2026-03-02")
	updates.Replace([]models.UpdateRecord{
		{ID: "u1", ClassID: "c1", Date: date, PeriodNumber: 1, TeacherID: "u-t1", WhatWasTaught: "Fractions", CreatedAt: time.Now()},
	})
	svc := NewUpdateService(&mockUpdateRepo{}, classes, updates, &stubAudit{}, &stubPublisher{}, nil, nil)

	state, err := svc.SlotState(context.Background(), mathTeacher(), "c1", "2026-03-02", 1)
	require.NoError(t, err)
	assert.Equal(t, "Math", state.SubjectName)
	require.NotNil(t, state.Update)
	assert.True(t, state.Authored)

	_, err = svc.SlotState(context.Background(), mathTeacher(), "c1", "2026-03-02", 2)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateServiceFeedSortsByPeriodThenClass(t *testing.T) {
	classes := registry.NewClassRegistry()
	updates := registry.NewUpdateRegistry()
	date, _ := models.ParseDate("2026-03-02")
	updates.Replace([]models.UpdateRecord{
		{ID: "u3", ClassName: "6 - B", Date: date, PeriodNumber: 2},
		{ID: "u1", ClassName: "6 - B", Date: date, PeriodNumber: 1},
		{ID: "u2", ClassName: "5 - A", Date: date, PeriodNumber: 2},
		{ID: "u4", ClassName: "5 - A", Date: date.AddDays(1), PeriodNumber: 1},
	})
	svc := NewUpdateService(&mockUpdateRepo{}, classes, updates, &stubAudit{}, &stubPublisher{}, nil, nil)

	feed, err := svc.Feed(context.Background(), "2026-03-02")
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string{feed[0].ID, feed[1].ID, feed[2].ID})
}
