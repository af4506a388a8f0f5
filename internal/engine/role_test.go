package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sreyaslbs/todayinclass/internal/models"
)

func classWithRoster(id, createdBy string, subjects ...models.SubjectAssignment) models.ClassRecord {
	return models.ClassRecord{
		ID:        id,
		Grade:     "5",
		Section:   "A",
		CreatedBy: createdBy,
		Subjects:  subjects,
	}
}

func TestResolveEffectiveRoleStoredAdminWins(t *testing.T) {
	principal := models.Principal{ID: "u1", Email: "admin@x.com", StoredRole: models.RoleAdmin}
	role := ResolveEffectiveRole(principal, nil)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestResolveEffectiveRoleDynamicTeacherByEmail(t *testing.T) {
	classes := []models.ClassRecord{
		classWithRoster("c1", "someone-else", models.SubjectAssignment{Name: "Math", TeacherEmail: "  T1@X.com "}),
	}
	principal := models.Principal{ID: "u1", Email: "t1@x.com", StoredRole: models.RoleParent}
	assert.Equal(t, models.RoleTeacher, ResolveEffectiveRole(principal, classes))
}

func TestResolveEffectiveRoleDynamicTeacherByCreator(t *testing.T) {
	classes := []models.ClassRecord{classWithRoster("c1", "u1")}
	principal := models.Principal{ID: "u1", Email: "p@x.com", StoredRole: models.RoleParent}
	assert.Equal(t, models.RoleTeacher, ResolveEffectiveRole(principal, classes))
}

func TestResolveEffectiveRoleParentStaysParent(t *testing.T) {
	classes := []models.ClassRecord{
		classWithRoster("c1", "other", models.SubjectAssignment{Name: "Math", TeacherEmail: "t1@x.com"}),
	}
	principal := models.Principal{ID: "u2", Email: "parent@x.com", StoredRole: models.RoleParent}
	assert.Equal(t, models.RoleParent, ResolveEffectiveRole(principal, classes))
}

func TestResolveEffectiveRoleMissingEmailNeverMatches(t *testing.T) {
	classes := []models.ClassRecord{
		classWithRoster("c1", "other", models.SubjectAssignment{Name: "Math", TeacherEmail: "   "}),
	}
	principal := models.Principal{ID: "u2", Email: "", StoredRole: models.RoleParent}
	assert.Equal(t, models.RoleParent, ResolveEffectiveRole(principal, classes))
}

// Promoting the stored role never lowers the effective role for any
// class snapshot.
func TestResolveEffectiveRoleMonotonicUnderPromotion(t *testing.T) {
	snapshots := [][]models.ClassRecord{
		nil,
		{classWithRoster("c1", "other")},
		{classWithRoster("c1", "u1"), classWithRoster("c2", "other", models.SubjectAssignment{Name: "Sci", TeacherEmail: "p@x.com"})},
	}
	rank := map[models.UserRole]int{models.RoleParent: 0, models.RoleTeacher: 1, models.RoleAdmin: 2}

	for _, classes := range snapshots {
		before := ResolveEffectiveRole(models.Principal{ID: "u1", Email: "p@x.com", StoredRole: models.RoleParent}, classes)
		after := ResolveEffectiveRole(models.Principal{ID: "u1", Email: "p@x.com", StoredRole: models.RoleTeacher}, classes)
		assert.GreaterOrEqual(t, rank[after], rank[before])
	}
}

func TestIsTeacherForClassEmailNormalization(t *testing.T) {
	class := classWithRoster("c1", "other", models.SubjectAssignment{Name: "Math", TeacherEmail: "Teacher@School.ORG "})
	principal := models.Principal{ID: "u1", Email: " teacher@school.org", StoredRole: models.RoleParent}
	assert.True(t, IsTeacherForClass(principal, &class))
}
