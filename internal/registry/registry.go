// Package registry keeps in-memory reflections of the store's
// collections. A notification never patches state: each reload fetches
// the complete collection and swaps it in atomically, so readers only
// ever observe whole snapshots, never a torn merge.
package registry

import (
	"sync/atomic"

	"github.com/sreyaslbs/todayinclass/internal/models"
)

// Collection names mirrored by the registries.
const (
	CollectionClasses = "classes"
	CollectionUpdates = "daily_updates"
)

// ClassRegistry holds the current class snapshot.
type ClassRegistry struct {
	snapshot atomic.Pointer[[]models.ClassRecord]
}

// NewClassRegistry starts with an empty snapshot.
func NewClassRegistry() *ClassRegistry {
	r := &ClassRegistry{}
	empty := []models.ClassRecord{}
	r.snapshot.Store(&empty)
	return r
}

// Snapshot returns the current class collection. The returned slice is
// shared; callers must treat it as read-only.
func (r *ClassRegistry) Snapshot() []models.ClassRecord {
	return *r.snapshot.Load()
}

// Replace swaps in a complete new collection.
func (r *ClassRegistry) Replace(classes []models.ClassRecord) {
	if classes == nil {
		classes = []models.ClassRecord{}
	}
	r.snapshot.Store(&classes)
}

// Find returns the class with the given ID from the current snapshot.
func (r *ClassRegistry) Find(id string) (*models.ClassRecord, bool) {
	snapshot := r.Snapshot()
	for i := range snapshot {
		if snapshot[i].ID == id {
			return &snapshot[i], true
		}
	}
	return nil, false
}

// UpdateRegistry holds the current daily-update snapshot.
type UpdateRegistry struct {
	snapshot atomic.Pointer[[]models.UpdateRecord]
}

// NewUpdateRegistry starts with an empty snapshot.
func NewUpdateRegistry() *UpdateRegistry {
	r := &UpdateRegistry{}
	empty := []models.UpdateRecord{}
	r.snapshot.Store(&empty)
	return r
}

// Snapshot returns the current update collection. The returned slice is
// shared; callers must treat it as read-only.
func (r *UpdateRegistry) Snapshot() []models.UpdateRecord {
	return *r.snapshot.Load()
}

// Replace swaps in a complete new collection.
func (r *UpdateRegistry) Replace(updates []models.UpdateRecord) {
	if updates == nil {
		updates = []models.UpdateRecord{}
	}
	r.snapshot.Store(&updates)
}

// FindSlot returns the unique update for a (class, date, period) slot.
func (r *UpdateRegistry) FindSlot(classID string, date models.Date, periodNumber int) (*models.UpdateRecord, bool) {
	snapshot := r.Snapshot()
	for i := range snapshot {
		u := &snapshot[i]
		if u.ClassID == classID && u.PeriodNumber == periodNumber && u.Date == date {
			return u, true
		}
	}
	return nil, false
}
