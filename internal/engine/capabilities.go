package engine

import (
	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
)

// Capabilities maps an effective role onto the visibility flags the UI
// consumes. Class management is admin-only; the classes and updates tabs
// and report sharing are for anyone acting as a teacher.
func Capabilities(effectiveRole models.UserRole) dto.Capabilities {
	isAdmin := effectiveRole == models.RoleAdmin
	isTeacher := isAdmin || effectiveRole == models.RoleTeacher

	return dto.Capabilities{
		EffectiveRole:    effectiveRole,
		CanSeeClassesTab: isTeacher,
		CanSeeUpdatesTab: isTeacher,
		CanAddUpdate:     isTeacher,
		CanAddClass:      isAdmin,
		CanEditClass:     isAdmin,
		CanShareReport:   isTeacher,
	}
}

// CanModifyUpdate reports whether the principal may edit or delete an
// existing update. Rights stay with the original author; there is no
// admin override.
func CanModifyUpdate(update *models.UpdateRecord, principal models.Principal) bool {
	return update != nil && update.TeacherID == principal.ID
}
