package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
	"github.com/noah-isme/padidoc-go-api/internal/validation"
)

func TestUserServiceUpdateRole(t *testing.T) {
	db := setupServiceDB(t)
	users := repository.NewUserRepository(db)
	admin := createUser(t, users, "admin", "admin@padidoc.com", "admin123", models.RoleAdmin, true)
	operator := createUser(t, users, "operator", "operator@padidoc.com", "secret1", models.RoleOperator, true)
	activity := &stubActivity{}
	svc := NewUserService(users, activity, validation.New(), testLogger())

	updated, err := svc.UpdateRole(context.Background(), admin.ID, operator.ID, dto.UpdateRoleRequest{Role: "admin"}, Origin{})
	require.NoError(t, err)
	require.Equal(t, "admin", updated.Role)
	require.Equal(t, []models.ActivityAction{models.ActionUpdateRole}, activity.actions())
	require.Equal(t, operator.ID, *activity.entries[0].ResourceID)

	_, err = svc.UpdateRole(context.Background(), admin.ID, operator.ID, dto.UpdateRoleRequest{Role: "superuser"}, Origin{})
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.UpdateRole(context.Background(), admin.ID, 999, dto.UpdateRoleRequest{Role: "operator"}, Origin{})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.UpdateRole(context.Background(), admin.ID, admin.ID, dto.UpdateRoleRequest{Role: "operator"}, Origin{})
	require.ErrorIs(t, err, ErrSelfLockout)

	require.Len(t, activity.entries, 1)
}

func TestUserServiceUpdateStatus(t *testing.T) {
	db := setupServiceDB(t)
	users := repository.NewUserRepository(db)
	admin := createUser(t, users, "admin", "admin@padidoc.com", "admin123", models.RoleAdmin, true)
	operator := createUser(t, users, "operator", "operator@padidoc.com", "secret1", models.RoleOperator, true)
	activity := &stubActivity{}
	svc := NewUserService(users, activity, validation.New(), testLogger())

	inactive := false
	updated, err := svc.UpdateStatus(context.Background(), admin.ID, operator.ID, dto.UpdateStatusRequest{IsActive: &inactive}, Origin{})
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	stored, err := users.FindByID(context.Background(), operator.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	_, err = svc.UpdateStatus(context.Background(), admin.ID, admin.ID, dto.UpdateStatusRequest{IsActive: &inactive}, Origin{})
	require.ErrorIs(t, err, ErrSelfLockout)

	_, err = svc.UpdateStatus(context.Background(), admin.ID, operator.ID, dto.UpdateStatusRequest{}, Origin{})
	require.Error(t, err)

	require.Equal(t, []models.ActivityAction{models.ActionUpdateStatus}, activity.actions())
}

func TestUserServiceList(t *testing.T) {
	db := setupServiceDB(t)
	users := repository.NewUserRepository(db)
	createUser(t, users, "admin", "admin@padidoc.com", "admin123", models.RoleAdmin, true)
	createUser(t, users, "operator", "operator@padidoc.com", "secret1", models.RoleOperator, true)
	svc := NewUserService(users, &stubActivity{}, validation.New(), testLogger())

	page, err := svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.EqualValues(t, 2, page.Pagination.TotalItems)
	require.Equal(t, 2, page.Pagination.TotalPages)
}
