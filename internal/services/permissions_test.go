package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

func TestPermissionTable(t *testing.T) {
	cases := []struct {
		role    models.RoleType
		action  Action
		allowed bool
	}{
		{models.RoleAuditor, ActionCreateIssue, true},
		{models.RoleStationManager, ActionCreateIssue, false},
		{models.RoleViewer, ActionCreateIssue, false},

		{models.RoleAuditor, ActionAuditorEdit, true},
		{models.RoleAdmin, ActionAuditorEdit, false},

		{models.RoleStationManager, ActionResolveIssue, true},
		{models.RoleAdmin, ActionResolveIssue, true},
		{models.RoleAuditor, ActionResolveIssue, false},

		{models.RoleAdmin, ActionAdminCorrect, true},
		{models.RoleAdmin, ActionDeleteIssue, true},
		{models.RoleAdmin, ActionToggleCancel, true},
		{models.RoleStationManager, ActionDeleteIssue, false},

		{models.RoleViewer, ActionViewReports, true},
		{models.RoleAuditor, ActionViewReports, true},

		{models.RoleAdmin, ActionManageUsers, true},
		{models.RoleViewer, ActionManageUsers, false},
	}
	for _, c := range cases {
		require.Equal(t, c.allowed, Allowed(c.role, c.action),
			"role %s action %s", c.role, c.action)
	}
}

func TestUnknownActionDenied(t *testing.T) {
	for _, role := range models.UserRoles {
		require.False(t, Allowed(role, Action("issue.teleport")))
	}
}

func TestRequirePermission(t *testing.T) {
	admin := dtos.Actor{Role: models.RoleAdmin}
	viewer := dtos.Actor{Role: models.RoleViewer}

	require.NoError(t, requirePermission(admin, ActionManageUsers))
	require.ErrorIs(t, requirePermission(viewer, ActionManageUsers), utils.ErrForbidden)
}
