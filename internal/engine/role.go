package engine

import "github.com/sreyaslbs/todayinclass/internal/models"

// ResolveEffectiveRole derives the permission level a principal acts
// with. A stored admin stays admin. Anyone else is a teacher when their
// stored role says so or when any class in the snapshot marks them as
// creator or roster subject-teacher; otherwise the stored role stands.
// The result is recomputed on every class snapshot or principal change
// and never persisted.
func ResolveEffectiveRole(principal models.Principal, classes []models.ClassRecord) models.UserRole {
	if principal.StoredRole == models.RoleAdmin {
		return models.RoleAdmin
	}
	if principal.StoredRole == models.RoleTeacher || IsAssignedTeacher(principal, classes) {
		return models.RoleTeacher
	}
	return principal.StoredRole
}

// IsAssignedTeacher reports whether the principal is dynamically a
// teacher: creator of any class, or listed on any subject roster by
// email. A missing email on either side never matches.
func IsAssignedTeacher(principal models.Principal, classes []models.ClassRecord) bool {
	for i := range classes {
		if IsTeacherForClass(principal, &classes[i]) {
			return true
		}
	}
	return false
}

// IsTeacherForClass reports whether the principal created the class or
// appears on its subject roster.
func IsTeacherForClass(principal models.Principal, class *models.ClassRecord) bool {
	if class.CreatedBy != "" && class.CreatedBy == principal.ID {
		return true
	}
	email := normalize(principal.Email)
	if email == "" {
		return false
	}
	for _, subject := range class.Subjects {
		if teacher := normalize(subject.TeacherEmail); teacher != "" && teacher == email {
			return true
		}
	}
	return false
}
