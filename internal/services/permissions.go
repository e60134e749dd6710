package services

import (
	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// Action names a role-gated operation. The permission table below is
// the single authority on who may do what; controllers never hardcode
// role strings.
type Action string

const (
	ActionCreateIssue    Action = "issue.create"
	ActionAuditorEdit    Action = "issue.auditor_edit"
	ActionResolveIssue   Action = "issue.resolve"
	ActionAdminCorrect   Action = "issue.admin_correct"
	ActionDeleteIssue    Action = "issue.delete"
	ActionToggleCancel   Action = "issue.toggle_cancel"
	ActionAttachEvidence Action = "issue.attach_evidence"
	ActionDetachEvidence Action = "issue.detach_evidence"

	ActionCreateInitiative Action = "initiative.create"
	ActionEditInitiative   Action = "initiative.edit"
	ActionDeleteInitiative Action = "initiative.delete"

	ActionViewReports Action = "reports.view"

	ActionManageUsers Action = "users.manage"
)

var permissions = map[Action][]models.RoleType{
	ActionCreateIssue:  {models.RoleAuditor, models.RoleAdmin},
	ActionAuditorEdit:  {models.RoleAuditor},
	ActionResolveIssue: {models.RoleStationManager, models.RoleAdmin},
	ActionAdminCorrect: {models.RoleAdmin},
	ActionDeleteIssue:  {models.RoleAdmin},
	ActionToggleCancel: {models.RoleAdmin},

	ActionAttachEvidence: {models.RoleAuditor, models.RoleStationManager, models.RoleAdmin},
	ActionDetachEvidence: {models.RoleAuditor, models.RoleStationManager, models.RoleAdmin},

	ActionCreateInitiative: {models.RoleAuditor, models.RoleAdmin},
	ActionEditInitiative:   {models.RoleAuditor, models.RoleAdmin},
	ActionDeleteInitiative: {models.RoleAdmin},

	ActionViewReports: {models.RoleAuditor, models.RoleStationManager, models.RoleAdmin, models.RoleViewer},

	ActionManageUsers: {models.RoleAdmin},
}

// Allowed reports whether role may perform action. Unknown actions are
// denied.
func Allowed(role models.RoleType, action Action) bool {
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

func requirePermission(actor dtos.Actor, action Action) error {
	if !Allowed(actor.Role, action) {
		return utils.ErrForbidden
	}
	return nil
}
