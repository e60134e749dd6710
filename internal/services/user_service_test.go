package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

const testSecret = "test-secret"

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, testSecret)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, dtos.SignupRequest{
		Name:     "New Auditor",
		Email:    "new@example.com",
		Password: "hunter2hunter2",
		Role:     string(models.RoleAuditor),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, models.RoleAuditor, resp.User.Role)
	require.NotEqual(t, "hunter2hunter2", resp.User.PasswordHash, "password must never be stored raw")

	login, err := svc.Login(ctx, dtos.LoginRequest{Email: "new@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)

	stored, err := env.users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RecentActivity, "login stamps recent activity")

	_, err = svc.Login(ctx, dtos.LoginRequest{Email: "new@example.com", Password: "wrong"})
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dtos.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.ErrorIs(t, err, utils.ErrInvalidCredentials, "unknown email and bad password are indistinguishable")
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, testSecret)

	_, err := svc.Signup(context.Background(), dtos.SignupRequest{
		Name:     "Duplicate",
		Email:    "asha@example.com", // seeded by newTestEnv
		Password: "hunter2hunter2",
		Role:     string(models.RoleAuditor),
	})
	require.ErrorIs(t, err, utils.ErrEmailExists)
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, testSecret)

	_, err := svc.Signup(context.Background(), dtos.SignupRequest{
		Name:     "Bad Role",
		Email:    "role@example.com",
		Password: "hunter2hunter2",
		Role:     "superuser",
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestUpdateRehashesOnlyWhenPasswordChanges(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, testSecret)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, dtos.SignupRequest{
		Name:     "Target",
		Email:    "target@example.com",
		Password: "hunter2hunter2",
		Role:     string(models.RoleAuditor),
	})
	require.NoError(t, err)
	originalHash := resp.User.PasswordHash
	require.NotEmpty(t, originalHash)

	newName := "Renamed"
	updated, err := svc.Update(ctx, env.admin, resp.User.ID, dtos.UpdateUserRequest{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	stored, err := env.users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	require.Equal(t, originalHash, stored.PasswordHash, "hash untouched without a new password")

	newPassword := "anotherpassword"
	_, err = svc.Update(ctx, env.admin, resp.User.ID, dtos.UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)

	stored, err = env.users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	require.NotEqual(t, originalHash, stored.PasswordHash)

	_, err = svc.Login(ctx, dtos.LoginRequest{Email: "target@example.com", Password: "anotherpassword"})
	require.NoError(t, err)
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, testSecret)
	ctx := context.Background()

	name := "x"
	_, err := svc.Update(ctx, env.auditor, env.sm.ID, dtos.UpdateUserRequest{Name: &name})
	require.ErrorIs(t, err, utils.ErrForbidden)

	require.ErrorIs(t, svc.Delete(ctx, env.sm, env.auditor.ID), utils.ErrForbidden)

	_, err = svc.List(ctx, env.viewer, dtos.UserListRequest{})
	require.ErrorIs(t, err, utils.ErrForbidden)
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, testSecret)

	err := svc.Delete(context.Background(), env.admin, env.admin.ID)
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestListUsersFilterAndSort(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, testSecret)

	resp, err := svc.List(context.Background(), env.admin, dtos.UserListRequest{
		Filter: dtos.UserListFilter{RoleFilter: []string{string(models.RoleAuditor)}},
		Sorter: dtos.UserListSorter{NameSorter: "ascend"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalUsers)
	require.Equal(t, models.RoleAuditor, resp.Users[0].Role)

	_, err = svc.List(context.Background(), env.admin, dtos.UserListRequest{
		Filter: dtos.UserListFilter{RoleFilter: []string{"superuser"}},
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}
