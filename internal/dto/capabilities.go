package dto

import "github.com/sreyaslbs/todayinclass/internal/models"

// Capabilities are the role-gated visibility flags the UI renders from.
// Each flag is a pure function of the effective role.
type Capabilities struct {
	EffectiveRole    models.UserRole `json:"effective_role"`
	CanSeeClassesTab bool            `json:"can_see_classes_tab"`
	CanSeeUpdatesTab bool            `json:"can_see_updates_tab"`
	CanAddUpdate     bool            `json:"can_add_update"`
	CanAddClass      bool            `json:"can_add_class"`
	CanEditClass     bool            `json:"can_edit_class"`
	CanShareReport   bool            `json:"can_share_report"`
}
